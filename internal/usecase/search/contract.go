package search

import (
	"context"

	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
	"github.com/kailas-cloud/showroom/internal/domain/product/field"
	"github.com/kailas-cloud/showroom/internal/domain/search/facet"
	"github.com/kailas-cloud/showroom/internal/domain/search/filter"
	"github.com/kailas-cloud/showroom/internal/domain/search/sortby"
)

// ProductFinder fetches sorted pages of matching products.
type ProductFinder interface {
	Find(
		ctx context.Context, expr filter.Expression, orders sortby.Orders, offset, limit int,
	) ([]domproduct.Product, error)
}

// Repository defines the storage contract for the search orchestrator.
type Repository interface {
	ProductFinder
	Count(ctx context.Context, expr filter.Expression) (int, error)
}

// FacetRepository aggregates matching products per facet dimension.
type FacetRepository interface {
	Facet(ctx context.Context, expr filter.Expression, f field.Field) ([]facet.Count, error)
	PriceRange(ctx context.Context, expr filter.Expression) (facet.PriceRange, error)
}

// SuggestionRepository supplies candidate strings and type-ahead matches.
type SuggestionRepository interface {
	ProductFinder
	Distinct(ctx context.Context, expr filter.Expression, f field.Field) ([]string, error)
}
