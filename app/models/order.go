package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order statuses. Orders are created as Pending; nothing in this
// application advances them further (display-only lifecycle).
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// Payment method identifiers. Labels only, no gateway integration.
const (
	PaymentMulticaixa     = "multicaixa"
	PaymentBankTransfer   = "bank_transfer"
	PaymentUnitelMoney    = "unitel_money"
	PaymentCashOnDelivery = "cod"
)

// PaymentMethods lists the selectable payment options.
var PaymentMethods = []string{
	PaymentMulticaixa,
	PaymentBankTransfer,
	PaymentUnitelMoney,
	PaymentCashOnDelivery,
}

// Provinces is the Angolan province enum used by the checkout form.
var Provinces = []string{
	"Luanda",
	"Benguela",
	"Huambo",
	"Huila",
	"Bengo",
	"Bié",
	"Cabinda",
	"Cuando Cubango",
	"Cuanza Norte",
	"Cuanza Sul",
	"Cunene",
	"Lunda Norte",
	"Lunda Sul",
	"Malanje",
	"Moxico",
	"Namibe",
	"Uíge",
	"Zaire",
}

// ValidProvince reports whether p is in the province enum.
func ValidProvince(p string) bool {
	for _, v := range Provinces {
		if v == p {
			return true
		}
	}
	return false
}

// ValidPaymentMethod reports whether id is a selectable payment method.
func ValidPaymentMethod(id string) bool {
	for _, v := range PaymentMethods {
		if v == id {
			return true
		}
	}
	return false
}

// Order is an immutable purchase record: header plus line items,
// created in one checkout and never mutated afterwards.
type Order struct {
	ID            string      `gorm:"primaryKey;size:36" json:"id"`
	UserID        uint        `gorm:"index" json:"user_id,omitempty"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount   float64     `gorm:"not null" json:"total_amount"`
	FullName      string      `gorm:"size:255;not null" json:"full_name"`
	Address       string      `gorm:"size:512;not null" json:"address"`
	City          string      `gorm:"size:100;not null" json:"city"`
	Province      string      `gorm:"size:100;not null" json:"province"`
	PhoneNumber   string      `gorm:"size:20;not null" json:"phone_number"`
	PaymentMethod string      `gorm:"size:50;not null" json:"payment_method"`
	Status        string      `gorm:"size:50;not null;default:Pending" json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
}

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return nil
}

// OrderItem is one order line: a product snapshot, quantity, and the
// price captured at submission time.
type OrderItem struct {
	ID              uint    `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID         string  `gorm:"size:36;not null;index" json:"-"`
	ProductID       string  `gorm:"size:36;not null" json:"product_id"`
	Name            string  `gorm:"size:255;not null" json:"name"`
	ImageURL        string  `gorm:"size:1024" json:"image_url"`
	Category        string  `gorm:"size:100" json:"category"`
	Quantity        int     `gorm:"not null" json:"quantity"`
	PriceAtPurchase float64 `gorm:"not null" json:"price_at_purchase"`
}

func (OrderItem) TableName() string { return "order_items" }
