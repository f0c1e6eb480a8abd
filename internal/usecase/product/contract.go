package product

import (
	"context"

	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
	"github.com/kailas-cloud/showroom/internal/domain/search/filter"
	"github.com/kailas-cloud/showroom/internal/domain/search/sortby"
)

// Repository loads and removes single products by id.
type Repository interface {
	Get(ctx context.Context, id string) (domproduct.Product, error)
	Delete(ctx context.Context, id string) error
}

// Finder fetches sorted product listings and their sizes.
type Finder interface {
	Find(
		ctx context.Context, expr filter.Expression, orders sortby.Orders, offset, limit int,
	) ([]domproduct.Product, error)
	Count(ctx context.Context, expr filter.Expression) (int, error)
}
