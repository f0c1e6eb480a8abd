package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/showroom/internal/db"
	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
	"github.com/kailas-cloud/showroom/internal/domain/product/field"
	"github.com/kailas-cloud/showroom/internal/domain/search/facet"
	"github.com/kailas-cloud/showroom/internal/domain/search/filter"
	"github.com/kailas-cloud/showroom/internal/domain/search/sortby"
	productrepo "github.com/kailas-cloud/showroom/internal/repository/product"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Find(ctx context.Context, q *db.FindQuery) ([]db.Document, error)
	Count(ctx context.Context, q *db.CountQuery) (int, error)
	GroupCount(ctx context.Context, q *db.GroupQuery) ([]db.Bucket, error)
	Stats(ctx context.Context, q *db.StatsQuery) (db.Stats, error)
	Distinct(ctx context.Context, q *db.DistinctQuery) ([]string, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Find returns one sorted page of products matching expr.
func (r *Repo) Find(
	ctx context.Context, expr filter.Expression, orders sortby.Orders, offset, limit int,
) ([]domproduct.Product, error) {
	docs, err := r.store.Find(ctx, &db.FindQuery{Filter: expr, Sort: orders, Offset: offset, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return productrepo.DecodeAll(docs)
}

// Count returns the number of products matching expr.
func (r *Repo) Count(ctx context.Context, expr filter.Expression) (int, error) {
	n, err := r.store.Count(ctx, &db.CountQuery{Filter: expr})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Facet counts matching products per value of f, most frequent first.
func (r *Repo) Facet(ctx context.Context, expr filter.Expression, f field.Field) ([]facet.Count, error) {
	buckets, err := r.store.GroupCount(ctx, &db.GroupQuery{Filter: expr, Field: f})
	if err != nil {
		return nil, fmt.Errorf("facet %s: %w", f, err)
	}
	counts := make([]facet.Count, len(buckets))
	for i, b := range buckets {
		counts[i] = facet.Count{Value: b.Value, Count: b.Count}
	}
	return facet.SortCounts(counts), nil
}

// PriceRange summarizes prices of matching products. An empty matching set
// yields the default range.
func (r *Repo) PriceRange(ctx context.Context, expr filter.Expression) (facet.PriceRange, error) {
	st, err := r.store.Stats(ctx, &db.StatsQuery{Filter: expr, Field: field.Price})
	if err != nil {
		return facet.PriceRange{}, fmt.Errorf("price stats: %w", err)
	}
	if st.Count == 0 {
		return facet.DefaultPriceRange(), nil
	}
	return facet.PriceRange{MinPrice: st.Min, MaxPrice: st.Max, AvgPrice: st.Avg}, nil
}

// Stats summarizes the numeric field f over matching products.
func (r *Repo) Stats(ctx context.Context, expr filter.Expression, f field.Field) (facet.Stats, error) {
	st, err := r.store.Stats(ctx, &db.StatsQuery{Filter: expr, Field: f})
	if err != nil {
		return facet.Stats{}, fmt.Errorf("%s stats: %w", f, err)
	}
	return facet.Stats{Count: st.Count, Min: st.Min, Max: st.Max, Avg: st.Avg}, nil
}

// Distinct returns the distinct values of f over matching products, ascending.
func (r *Repo) Distinct(ctx context.Context, expr filter.Expression, f field.Field) ([]string, error) {
	values, err := r.store.Distinct(ctx, &db.DistinctQuery{Filter: expr, Field: f})
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", f, err)
	}
	return values, nil
}
