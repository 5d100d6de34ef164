package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/angotech/angotech/app/models"
	"github.com/angotech/angotech/pkg/collection"
	"github.com/angotech/angotech/pkg/event"
	"github.com/angotech/angotech/pkg/logger"
	"github.com/angotech/angotech/pkg/metrics"
)

// ErrEmptyCart rejects a checkout with nothing in the cart.
var ErrEmptyCart = errors.New("checkout: empty cart")

// ShippingDetails is the buyer-entered checkout form.
type ShippingDetails struct {
	FullName      string `json:"full_name"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Province      string `json:"province"`
	PhoneNumber   string `json:"phone_number"`
	PaymentMethod string `json:"payment_method"`
}

// ValidationErrors maps form field names to human-readable messages.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string { return "checkout: invalid shipping details" }

// Angolan mobile numbers are nine digits; whitespace is stripped
// before matching so "9xx xxx xxx" entry styles pass.
var phonePattern = regexp.MustCompile(`^\d{9}$`)

// Validate checks every field and returns all failures at once so the
// form can surface them together.
func (d ShippingDetails) Validate() ValidationErrors {
	errs := ValidationErrors{}

	if strings.TrimSpace(d.FullName) == "" {
		errs["full_name"] = "Nome completo é obrigatório."
	}
	if strings.TrimSpace(d.Address) == "" {
		errs["address"] = "Endereço é obrigatório."
	}
	if strings.TrimSpace(d.City) == "" {
		errs["city"] = "Cidade é obrigatória."
	}
	if strings.TrimSpace(d.Province) == "" || !models.ValidProvince(d.Province) {
		errs["province"] = "Província é obrigatória."
	}
	if strings.TrimSpace(d.PhoneNumber) == "" {
		errs["phone_number"] = "Telefone é obrigatório."
	} else if !phonePattern.MatchString(strings.ReplaceAll(d.PhoneNumber, " ", "")) {
		errs["phone_number"] = "Número de telefone inválido (ex: 9xx xxx xxx)."
	}
	if !models.ValidPaymentMethod(d.PaymentMethod) {
		errs["payment_method"] = "Por favor, selecione um método de pagamento."
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// OrderWriter is the persisted order store. Header and items are
// written in two steps; DeleteHeader compensates a failed item write.
type OrderWriter interface {
	CreateHeader(order *models.Order) error
	CreateItems(orderID string, items []models.OrderItem) error
	DeleteHeader(orderID string) error
}

// Accounts resolves buyer emails for order confirmations.
type Accounts interface {
	FindByID(id uint) (models.User, error)
}

// CheckoutService turns a cart plus shipping details into a persisted
// order and empties the cart on success.
type CheckoutService struct {
	orders   OrderWriter
	cart     *CartService
	accounts Accounts // optional; nil means no email lookup
}

func NewCheckoutService(orders OrderWriter, cart *CartService, accounts Accounts) *CheckoutService {
	return &CheckoutService{orders: orders, cart: cart, accounts: accounts}
}

// PlaceOrder validates the form, snapshots the cart into order lines
// priced at purchase time, writes header then items, and clears the
// cart. If the item write fails the header is deleted so no empty
// order survives. New orders always start Pending.
func (s *CheckoutService) PlaceOrder(id Identity, details ShippingDetails) (*models.Order, error) {
	if errs := details.Validate(); errs != nil {
		metrics.OrdersFailed.WithLabelValues("validation").Inc()
		return nil, errs
	}

	items := s.cart.Items(id)
	if len(items) == 0 {
		metrics.OrdersFailed.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	lines := collection.Map(items, func(i models.CartItem) models.OrderItem {
		return models.OrderItem{
			ProductID:       i.ProductID,
			Name:            i.Name,
			ImageURL:        i.ImageURL,
			Category:        i.Category,
			Quantity:        i.Quantity,
			PriceAtPurchase: i.Price,
		}
	})
	total := collection.Sum(items, func(i models.CartItem) float64 {
		return i.Price * float64(i.Quantity)
	})

	order := &models.Order{
		UserID:        id.UserID,
		TotalAmount:   total,
		FullName:      strings.TrimSpace(details.FullName),
		Address:       strings.TrimSpace(details.Address),
		City:          strings.TrimSpace(details.City),
		Province:      details.Province,
		PhoneNumber:   strings.ReplaceAll(details.PhoneNumber, " ", ""),
		PaymentMethod: details.PaymentMethod,
	}

	if err := s.orders.CreateHeader(order); err != nil {
		metrics.OrdersFailed.WithLabelValues("write").Inc()
		logger.Error("checkout: header write failed", "user_id", id.UserID, "error", err)
		return nil, err
	}

	if err := s.orders.CreateItems(order.ID, lines); err != nil {
		metrics.OrdersFailed.WithLabelValues("write").Inc()
		logger.Error("checkout: item write failed, compensating", "order_id", order.ID, "error", err)
		if delErr := s.orders.DeleteHeader(order.ID); delErr != nil {
			logger.Error("checkout: header compensation failed", "order_id", order.ID, "error", delErr)
		}
		return nil, err
	}
	order.Items = lines

	s.cart.ClearCart(id)

	metrics.OrdersPlaced.WithLabelValues(order.PaymentMethod).Inc()
	event.FireAsync("order.placed", map[string]interface{}{
		"order_id":       order.ID,
		"user_id":        order.UserID,
		"full_name":      order.FullName,
		"email":          s.buyerEmail(id),
		"total_amount":   order.TotalAmount,
		"payment_method": order.PaymentMethod,
	})

	logger.Info("checkout: order placed", "order_id", order.ID, "user_id", order.UserID, "total", order.TotalAmount)
	return order, nil
}

func (s *CheckoutService) buyerEmail(id Identity) string {
	if !id.Authenticated() || s.accounts == nil {
		return ""
	}
	user, err := s.accounts.FindByID(id.UserID)
	if err != nil {
		return ""
	}
	return user.Email
}
