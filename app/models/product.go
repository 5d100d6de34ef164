package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a catalogue entry. Prices are in Kwanza (AOA).
//
// Two image columns coexist on the row: the legacy single image_url
// and the JSON image_urls list. The hooks below normalize both into
// the Images slice so the dual shape never leaves the model layer.
type Product struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null;default:0" json:"price"`
	Category    string    `gorm:"size:100;index" json:"category"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	ImageURL    string    `gorm:"size:1024" json:"-"`            // legacy single-image column
	ImageURLs   string    `gorm:"type:text" json:"-"`            // JSON array column
	Images      []string  `gorm:"-" json:"image_urls"`           // canonical shape
	Reviews     []Review  `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return p.BeforeSave(tx)
}

// BeforeSave serialises Images into both row columns so readers of
// either schema variant see consistent data.
func (p *Product) BeforeSave(_ *gorm.DB) error {
	if len(p.Images) == 0 {
		return nil
	}
	raw, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	p.ImageURLs = string(raw)
	p.ImageURL = p.Images[0]
	return nil
}

// AfterFind normalizes the two image columns into Images: the JSON
// list wins, a bare legacy URL becomes a one-element slice.
func (p *Product) AfterFind(_ *gorm.DB) error {
	p.normalizeImages()
	return nil
}

func (p *Product) normalizeImages() {
	if p.ImageURLs != "" {
		var urls []string
		if err := json.Unmarshal([]byte(p.ImageURLs), &urls); err == nil && len(urls) > 0 {
			p.Images = urls
			return
		}
	}
	if p.ImageURL != "" {
		p.Images = []string{p.ImageURL}
		return
	}
	p.Images = []string{}
}

// FirstImage returns the primary image URL, or "" for an imageless product.
func (p *Product) FirstImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// Review is an append-only child of a Product. Authors are free text,
// reviews are not tied to accounts.
type Review struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ProductID string    `gorm:"size:36;not null;index" json:"product_id"`
	Author    string    `gorm:"size:255;not null" json:"author"`
	Rating    int       `gorm:"not null" json:"rating"` // 1..5
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Review) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
