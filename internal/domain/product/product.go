package product

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category is the closed set of catalog categories.
type Category string

// Catalog categories.
const (
	Marble    Category = "Marble"
	Granite   Category = "Granite"
	Ceramic   Category = "Ceramic"
	Porcelain Category = "Porcelain"
	Wooden    Category = "Wooden"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{Marble, Granite, Ceramic, Porcelain, Wooden}
}

// IsValid reports whether c is one of the catalog categories.
func (c Category) IsValid() bool {
	for _, v := range Categories() {
		if c == v {
			return true
		}
	}
	return false
}

// Image is a hosted product image.
type Image struct {
	URL      string `json:"url" yaml:"url"`
	PublicID string `json:"publicId,omitempty" yaml:"publicId,omitempty"`
}

// UnmarshalJSON accepts either an image object or a bare URL string.
func (i *Image) UnmarshalJSON(data []byte) error {
	var url string
	if err := json.Unmarshal(data, &url); err == nil {
		*i = Image{URL: url}
		return nil
	}
	type plain Image
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	*i = Image(p)
	return nil
}

// Product is a catalog record. JSON names follow the storefront wire format.
type Product struct {
	ID            string    `json:"_id" yaml:"_id"`
	Name          string    `json:"name" yaml:"name"`
	Description   string    `json:"description" yaml:"description"`
	Category      Category  `json:"category" yaml:"category"`
	Tags          []string  `json:"tags" yaml:"tags"`
	Features      []string  `json:"features" yaml:"features"`
	Price         float64   `json:"price" yaml:"price"`
	OriginalPrice float64   `json:"originalPrice" yaml:"originalPrice"`
	Discount      float64   `json:"discount" yaml:"discount"`
	Image         string    `json:"image,omitempty" yaml:"image,omitempty"`
	ImagePublicID string    `json:"imagePublicId,omitempty" yaml:"imagePublicId,omitempty"`
	Images        []Image   `json:"images" yaml:"images"`
	Size          string    `json:"size" yaml:"size"`
	Thickness     string    `json:"thickness" yaml:"thickness"`
	Finish        string    `json:"finish" yaml:"finish"`
	Rating        float64   `json:"rating" yaml:"rating"`
	Reviews       int       `json:"reviews" yaml:"reviews"`
	InStock       bool      `json:"inStock" yaml:"inStock"`
	StockQuantity int       `json:"stockQuantity" yaml:"stockQuantity"`
	CreatedAt     time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// TextSeparator splits multi-valued index tags. Text values may not contain it.
const TextSeparator = "|"

// Validate checks the record invariants: required descriptive fields, a known
// category, price >= 0, discount in [0,100], rating in [0,5] and non-negative counters.
// Text values must not contain TextSeparator.
func (p *Product) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	errs = append(errs, p.checkSeparator()...)
	if !p.Category.IsValid() {
		errs = append(errs, fmt.Errorf("unknown category %q", p.Category))
	}
	if p.Price < 0 {
		errs = append(errs, fmt.Errorf("price must be >= 0, got %g", p.Price))
	}
	if p.Discount < 0 || p.Discount > 100 {
		errs = append(errs, fmt.Errorf("discount must be between 0 and 100, got %g", p.Discount))
	}
	if p.Rating < 0 || p.Rating > 5 {
		errs = append(errs, fmt.Errorf("rating must be between 0 and 5, got %g", p.Rating))
	}
	if p.Reviews < 0 {
		errs = append(errs, fmt.Errorf("reviews must be >= 0, got %d", p.Reviews))
	}
	if p.StockQuantity < 0 {
		errs = append(errs, fmt.Errorf("stockQuantity must be >= 0, got %d", p.StockQuantity))
	}
	return errors.Join(errs...)
}

func (p *Product) checkSeparator() []error {
	var errs []error
	check := func(name, v string) {
		if strings.Contains(v, TextSeparator) {
			errs = append(errs, fmt.Errorf("%s must not contain %q", name, TextSeparator))
		}
	}
	check("_id", p.ID)
	check("name", p.Name)
	check("description", p.Description)
	check("size", p.Size)
	check("finish", p.Finish)
	for _, t := range p.Tags {
		check("tags", t)
	}
	for _, f := range p.Features {
		check("features", f)
	}
	return errs
}

// Normalize fills storefront defaults: originalPrice falls back to price,
// nil slices become empty, the primary image falls back to the first gallery image
// and timestamps are set from now when missing.
func (p *Product) Normalize(now time.Time) {
	p.Name = strings.TrimSpace(p.Name)
	if p.OriginalPrice == 0 {
		p.OriginalPrice = p.Price
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if p.Images == nil {
		p.Images = []Image{}
	}
	if p.Image == "" && len(p.Images) > 0 {
		p.Image = p.Images[0].URL
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
}

// FinalPrice is the price after discount.
func (p *Product) FinalPrice() float64 {
	return p.Price * (100 - p.Discount) / 100
}
