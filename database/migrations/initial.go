package migrations

import (
	"gorm.io/gorm"

	"github.com/angotech/angotech/app/models"
	"github.com/angotech/angotech/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_products_table", &CreateProductsTable{})
	migration.Register("20260101000002_create_user_carts_table", &CreateUserCartsTable{})
	migration.Register("20260101000003_create_orders_table", &CreateOrdersTable{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0002: products + reviews --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{}, &models.Review{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	if err := db.Migrator().DropTable("reviews"); err != nil {
		return err
	}
	return db.Migrator().DropTable("products")
}

// -------- 0003: user_carts --------

type CreateUserCartsTable struct{}

func (m *CreateUserCartsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.UserCart{})
}

func (m *CreateUserCartsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("user_carts")
}

// -------- 0004: orders + order_items --------

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	if err := db.Migrator().DropTable("order_items"); err != nil {
		return err
	}
	return db.Migrator().DropTable("orders")
}
