package models

import "gorm.io/gorm"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the storefront account model.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // hashed, never serialised
	Role     string `gorm:"size:50;default:user" json:"role"`
}
