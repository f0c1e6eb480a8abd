package batch

import (
	"context"

	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
)

// ProductUpserter creates or replaces a single product.
type ProductUpserter interface {
	Upsert(ctx context.Context, p *domproduct.Product) (created bool, err error)
}

// BulkUpserter stores many products in one round trip.
type BulkUpserter interface {
	UpsertMany(ctx context.Context, products []domproduct.Product) error
}
