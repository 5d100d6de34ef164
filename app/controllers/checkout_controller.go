package controllers

import (
	"errors"
	"net/http"

	"github.com/angotech/angotech/app/services"
	"github.com/angotech/angotech/pkg/bind"
	"github.com/angotech/angotech/pkg/middleware"
	"github.com/angotech/angotech/pkg/response"
	"github.com/angotech/angotech/pkg/session"
)

type CheckoutController struct {
	checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

// PlaceOrder turns the current cart into an order. Works for both
// guests and account holders; field errors come back all at once so
// the form can show every problem together.
func (c *CheckoutController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var in services.ShippingDetails
	if _, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	id := services.Identity{UserID: middleware.UserIDFromCtx(r.Context())}
	if !id.Authenticated() {
		id.Token = session.EnsureCartToken(w, r)
	}

	order, err := c.checkout.PlaceOrder(id, in)
	if err != nil {
		var fieldErrs services.ValidationErrors
		if errors.As(err, &fieldErrs) {
			response.ValidationError(w, fieldErrs)
			return
		}
		if errors.Is(err, services.ErrEmptyCart) {
			response.Error(w, http.StatusUnprocessableEntity, "O carrinho está vazio.")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Não foi possível concluir a encomenda.")
		return
	}
	response.Created(w, order)
}
