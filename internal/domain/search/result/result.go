package result

import (
	"github.com/kailas-cloud/showroom/internal/domain/product"
	"github.com/kailas-cloud/showroom/internal/domain/search/facet"
)

// Pagination describes where a page sits in the full matching set.
type Pagination struct {
	CurrentPage   int  `json:"currentPage"`
	TotalPages    int  `json:"totalPages"`
	TotalProducts int  `json:"totalProducts"`
	HasNext       bool `json:"hasNext"`
	HasPrev       bool `json:"hasPrev"`
}

// NewPagination computes pagination metadata; totalPages = ceil(total/pageSize).
// hasNext compares pages rather than offsets so huge page numbers cannot overflow.
func NewPagination(page, pageSize, total int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Pagination{
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalProducts: total,
		HasNext:       page < totalPages,
		HasPrev:       page > 1,
	}
}

// Result is one page of search output.
type Result struct {
	Products    []product.Product `json:"products"`
	Suggestions []string          `json:"suggestions"`
	Pagination  Pagination        `json:"pagination"`
	Filters     facet.Summary     `json:"filters"`
}

// New assembles a search result; nil slices are replaced with empty ones so they encode as [].
func New(products []product.Product, suggestions []string, p Pagination, f facet.Summary) Result {
	if products == nil {
		products = []product.Product{}
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return Result{Products: products, Suggestions: suggestions, Pagination: p, Filters: f}
}

// AutocompleteItem is a compact product projection for type-ahead.
type AutocompleteItem struct {
	ID       string           `json:"_id"`
	Name     string           `json:"name"`
	Category product.Category `json:"category"`
	Image    string           `json:"image,omitempty"`
	Price    float64          `json:"price"`
}

// NewAutocompleteItem projects a product for type-ahead.
func NewAutocompleteItem(p *product.Product) AutocompleteItem {
	return AutocompleteItem{ID: p.ID, Name: p.Name, Category: p.Category, Image: p.Image, Price: p.Price}
}
