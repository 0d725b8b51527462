package products

import (
	"fmt"
	"strings"
	"time"
)

// DefaultVendor is recorded when a product is saved without a vendor.
const DefaultVendor = "Default Vendor"

// Product is one catalogue entry.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Vendor      string    `json:"vendor,omitempty"`
	Stock       int       `json:"stock"`
	Sales       int       `json:"sales"`
	ImagesURL   []string  `json:"imagesUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.ImagesURL = append([]string(nil), p.ImagesURL...)
	return &c
}

// Filter narrows a product listing. Empty fields match everything.
type Filter struct {
	Name     string // case-insensitive substring of the product name
	Category string // case-insensitive exact category
}

func (f Filter) Match(p *Product) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(strings.TrimSpace(f.Name))) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(p.Category, strings.TrimSpace(f.Category)) {
		return false
	}
	return true
}

// Input is the editable part of a product, as sent by the add and edit forms.
// Images are referenced by URL.
type Input struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Vendor      string   `json:"vendor"`
	Stock       int      `json:"stock"`
	ImagesURL   []string `json:"imagesUrl,omitempty"`
}

func (in Input) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return fmt.Errorf("category is required")
	}
	if in.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if in.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	return nil
}

// Apply copies in onto p. Identity, sales and creation time are left alone.
func (in Input) Apply(p *Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.Category = strings.TrimSpace(in.Category)
	p.Vendor = strings.TrimSpace(in.Vendor)
	if p.Vendor == "" {
		p.Vendor = DefaultVendor
	}
	p.Stock = in.Stock
	p.ImagesURL = append([]string(nil), in.ImagesURL...)
}

// InputOf returns the editable fields of p.
func InputOf(p *Product) Input {
	return Input{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Vendor:      p.Vendor,
		Stock:       p.Stock,
		ImagesURL:   append([]string(nil), p.ImagesURL...),
	}
}
