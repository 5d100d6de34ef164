package controllers

import (
	"net/http"

	"github.com/angotech/angotech/app/models"
	"github.com/angotech/angotech/app/services"
	"github.com/angotech/angotech/pkg/bind"
	"github.com/angotech/angotech/pkg/middleware"
	"github.com/angotech/angotech/pkg/notify"
	"github.com/angotech/angotech/pkg/response"
	"github.com/angotech/angotech/pkg/router"
	"github.com/angotech/angotech/pkg/session"
)

type CartController struct {
	cart   *services.CartService
	toasts *notify.Hub
}

func NewCartController(cart *services.CartService, toasts *notify.Hub) *CartController {
	return &CartController{cart: cart, toasts: toasts}
}

// identity resolves the shopper for this request: the account id when
// a valid token was presented, otherwise the guest cookie token
// (minted on first touch).
func (c *CartController) identity(w http.ResponseWriter, r *http.Request) services.Identity {
	if userID := middleware.UserIDFromCtx(r.Context()); userID != 0 {
		return services.Identity{UserID: userID}
	}
	return services.Identity{Token: session.EnsureCartToken(w, r)}
}

type cartView struct {
	Items        []models.CartItem `json:"items"`
	TotalPrice   float64           `json:"total_price"`
	ItemCount    int               `json:"item_count"`
	Notification *notify.Toast     `json:"notification,omitempty"`
}

func (c *CartController) view(id services.Identity) cartView {
	items := c.cart.Items(id)
	if items == nil {
		items = []models.CartItem{}
	}
	return cartView{
		Items:        items,
		TotalPrice:   c.cart.TotalPrice(id),
		ItemCount:    c.cart.ItemCount(id),
		Notification: c.toasts.Current(id.Key()),
	}
}

// Show returns the current cart.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	response.Success(w, c.view(c.identity(w, r)))
}

type addToCartInput struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"nullable,gte=1"`
}

// Add puts a product in the cart. Quantity defaults to 1.
func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	var in addToCartInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}
	if in.Quantity < 1 {
		in.Quantity = 1
	}

	id := c.identity(w, r)
	if err := c.cart.AddToCart(id, in.ProductID, in.Quantity); err != nil {
		response.NotFound(w, "Product not found")
		return
	}
	response.Success(w, c.view(id))
}

type updateQuantityInput struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantity sets the quantity of a cart line, clamped to stock.
func (c *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var in updateQuantityInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	id := c.identity(w, r)
	c.cart.UpdateQuantity(id, router.Param(r, "productId"), in.Quantity)
	response.Success(w, c.view(id))
}

// Remove drops a line from the cart.
func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	id := c.identity(w, r)
	c.cart.RemoveFromCart(id, router.Param(r, "productId"))
	response.Success(w, c.view(id))
}

// Clear empties the cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	id := c.identity(w, r)
	c.cart.ClearCart(id)
	response.Success(w, c.view(id))
}
