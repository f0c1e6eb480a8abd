package category

import (
	"context"

	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
	"github.com/kailas-cloud/showroom/internal/domain/product/field"
	"github.com/kailas-cloud/showroom/internal/domain/search/facet"
	"github.com/kailas-cloud/showroom/internal/domain/search/filter"
	"github.com/kailas-cloud/showroom/internal/domain/search/sortby"
)

// Repository aggregates and pages products for category browsing.
type Repository interface {
	Find(
		ctx context.Context, expr filter.Expression, orders sortby.Orders, offset, limit int,
	) ([]domproduct.Product, error)
	Count(ctx context.Context, expr filter.Expression) (int, error)
	Facet(ctx context.Context, expr filter.Expression, f field.Field) ([]facet.Count, error)
	Stats(ctx context.Context, expr filter.Expression, f field.Field) (facet.Stats, error)
}
