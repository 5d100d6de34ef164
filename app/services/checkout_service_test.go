package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angotech/angotech/app/models"
)

type fakeOrderWriter struct {
	mu             sync.Mutex
	headers        []*models.Order
	items          map[string][]models.OrderItem
	deletedHeaders []string
	failHeader     bool
	failItems      bool
}

func newFakeOrderWriter() *fakeOrderWriter {
	return &fakeOrderWriter{items: map[string][]models.OrderItem{}}
}

func (f *fakeOrderWriter) CreateHeader(order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failHeader {
		return errors.New("db down")
	}
	order.ID = "order-1"
	order.Status = models.OrderStatusPending
	f.headers = append(f.headers, order)
	return nil
}

func (f *fakeOrderWriter) CreateItems(orderID string, items []models.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failItems {
		return errors.New("db down")
	}
	f.items[orderID] = items
	return nil
}

func (f *fakeOrderWriter) DeleteHeader(orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedHeaders = append(f.deletedHeaders, orderID)
	return nil
}

func validDetails() ShippingDetails {
	return ShippingDetails{
		FullName:      "João dos Santos",
		Address:       "Rua da Missão 12",
		City:          "Luanda",
		Province:      "Luanda",
		PhoneNumber:   "923 456 789",
		PaymentMethod: models.PaymentMulticaixa,
	}
}

func newCheckoutFixture(writer OrderWriter) (*CheckoutService, *CartService, Identity) {
	cart, _ := newTestCart(newFakeCartRows(), &fakeCatalog{products: testProducts()})
	svc := NewCheckoutService(writer, cart, nil)
	return svc, cart, Identity{Token: "guest-1"}
}

// ─── Validation ───────────────────────────────────────────────────────────────

func TestValidateAllFieldsMissing(t *testing.T) {
	errs := ShippingDetails{}.Validate()
	require.NotNil(t, errs)

	assert.Equal(t, "Nome completo é obrigatório.", errs["full_name"])
	assert.Equal(t, "Endereço é obrigatório.", errs["address"])
	assert.Equal(t, "Cidade é obrigatória.", errs["city"])
	assert.Equal(t, "Província é obrigatória.", errs["province"])
	assert.Equal(t, "Telefone é obrigatório.", errs["phone_number"])
	assert.Equal(t, "Por favor, selecione um método de pagamento.", errs["payment_method"])
}

func TestValidatePhoneNumber(t *testing.T) {
	details := validDetails()

	details.PhoneNumber = "923 456 789" // spaces are stripped before matching
	assert.Nil(t, details.Validate())

	details.PhoneNumber = "9234567890" // ten digits
	errs := details.Validate()
	require.NotNil(t, errs)
	assert.Equal(t, "Número de telefone inválido (ex: 9xx xxx xxx).", errs["phone_number"])

	details.PhoneNumber = "92345678a"
	assert.NotNil(t, details.Validate())
}

func TestValidateProvinceMustBeKnown(t *testing.T) {
	details := validDetails()
	details.Province = "Lisboa"
	errs := details.Validate()
	require.NotNil(t, errs)
	assert.Equal(t, "Província é obrigatória.", errs["province"])

	for _, province := range models.Provinces {
		details.Province = province
		assert.Nil(t, details.Validate(), province)
	}
}

func TestValidatePaymentMethod(t *testing.T) {
	details := validDetails()
	details.PaymentMethod = "paypal"
	errs := details.Validate()
	require.NotNil(t, errs)
	assert.Equal(t, "Por favor, selecione um método de pagamento.", errs["payment_method"])

	for _, method := range models.PaymentMethods {
		details.PaymentMethod = method
		assert.Nil(t, details.Validate(), method)
	}
}

// ─── Placing orders ───────────────────────────────────────────────────────────

func TestPlaceOrderHappyPath(t *testing.T) {
	writer := newFakeOrderWriter()
	svc, cart, id := newCheckoutFixture(writer)
	require.NoError(t, cart.AddToCart(id, phoneID, 2))

	order, err := svc.PlaceOrder(id, validDetails())
	require.NoError(t, err)

	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 2*250000.0, order.TotalAmount)
	assert.Equal(t, "923456789", order.PhoneNumber) // stored without spaces

	require.Len(t, order.Items, 1)
	assert.Equal(t, phoneID, order.Items[0].ProductID)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 250000.0, order.Items[0].PriceAtPurchase)

	// Checkout empties the cart.
	assert.Empty(t, cart.Items(id))
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	svc, _, id := newCheckoutFixture(newFakeOrderWriter())

	_, err := svc.PlaceOrder(id, validDetails())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderReturnsFieldErrors(t *testing.T) {
	svc, cart, id := newCheckoutFixture(newFakeOrderWriter())
	require.NoError(t, cart.AddToCart(id, phoneID, 1))

	details := validDetails()
	details.PhoneNumber = "12"
	_, err := svc.PlaceOrder(id, details)

	var fieldErrs ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "phone_number")

	// The cart is untouched on validation failure.
	assert.Len(t, cart.Items(id), 1)
}

func TestPlaceOrderCompensatesFailedItemWrite(t *testing.T) {
	writer := newFakeOrderWriter()
	writer.failItems = true
	svc, cart, id := newCheckoutFixture(writer)
	require.NoError(t, cart.AddToCart(id, phoneID, 1))

	_, err := svc.PlaceOrder(id, validDetails())
	require.Error(t, err)

	// The orphaned header was deleted and the cart survives.
	assert.Equal(t, []string{"order-1"}, writer.deletedHeaders)
	assert.Len(t, cart.Items(id), 1)
}

func TestPlaceOrderHeaderWriteFailure(t *testing.T) {
	writer := newFakeOrderWriter()
	writer.failHeader = true
	svc, cart, id := newCheckoutFixture(writer)
	require.NoError(t, cart.AddToCart(id, phoneID, 1))

	_, err := svc.PlaceOrder(id, validDetails())
	require.Error(t, err)
	assert.Empty(t, writer.deletedHeaders)
	assert.Len(t, cart.Items(id), 1)
}
