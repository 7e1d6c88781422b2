package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is the closed set of product kinds.
type Category string

const (
	CategoryFruit     Category = "FRUIT"
	CategoryVegetable Category = "VEGETABLE"
)

// ParseCategory accepts any case and surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	switch c := Category(strings.ToUpper(strings.TrimSpace(s))); c {
	case CategoryFruit, CategoryVegetable:
		return c, true
	}
	return "", false
}

// Product is a catalogue entry. The image is stored inline with its
// content type and is never serialised.
type Product struct {
	ID               uint            `gorm:"primaryKey"              json:"id"`
	Name             string          `gorm:"size:255;not null;index" json:"name"`
	Category         Category        `gorm:"size:20;not null;index"  json:"category"`
	Price            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Description      string          `gorm:"type:text"               json:"description"`
	Image            []byte          `json:"-"`
	ImageContentType string          `gorm:"size:100"                json:"-"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// HasImage reports whether image bytes are stored.
func (p *Product) HasImage() bool { return len(p.Image) > 0 }

// SetImage sets bytes and content type together.
func (p *Product) SetImage(data []byte, contentType string) {
	p.Image = data
	p.ImageContentType = contentType
}
