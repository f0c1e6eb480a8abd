package category

import (
	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
	"github.com/kailas-cloud/showroom/internal/domain/search/result"
)

// Summary is one category with its price spread.
type Summary struct {
	Category string  `json:"_id"`
	Count    int     `json:"count"`
	AvgPrice float64 `json:"avgPrice"`
	MinPrice float64 `json:"minPrice"`
	MaxPrice float64 `json:"maxPrice"`
}

// Popularity is one category ranked by size, with its review activity.
type Popularity struct {
	Category     string  `json:"_id"`
	Count        int     `json:"count"`
	AvgRating    float64 `json:"avgRating"`
	TotalReviews int     `json:"totalReviews"`
}

// Stats summarizes every product of one category, not just the current page.
type Stats struct {
	TotalProducts int     `json:"totalProducts"`
	AvgPrice      float64 `json:"avgPrice"`
	MinPrice      float64 `json:"minPrice"`
	MaxPrice      float64 `json:"maxPrice"`
	AvgRating     float64 `json:"avgRating"`
}

// DetailsParams selects a page of one category. Page and PageSize are
// normalized like search pagination; an unknown SortBy means newest first.
type DetailsParams struct {
	Category string
	Page     int
	PageSize int
	SortBy   string
}

// Details is one page of a category together with its stats.
type Details struct {
	Category   string               `json:"category"`
	Products   []domproduct.Product `json:"products"`
	Stats      Stats                `json:"stats"`
	Pagination result.Pagination    `json:"pagination"`
}
