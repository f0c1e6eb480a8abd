package search

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/showroom/internal/domain/product/field"
	"github.com/kailas-cloud/showroom/internal/domain/search/facet"
	"github.com/kailas-cloud/showroom/internal/domain/search/filter"
)

// FacetCalculator derives per-dimension counts and the price range for a predicate.
type FacetCalculator struct {
	repo FacetRepository
}

// NewFacetCalculator creates a facet calculator.
func NewFacetCalculator(repo FacetRepository) *FacetCalculator {
	return &FacetCalculator{repo: repo}
}

// Compute runs the four facet aggregations concurrently against the same base
// expression. Any failure fails the whole summary.
func (c *FacetCalculator) Compute(ctx context.Context, base filter.Expression) (facet.Summary, error) {
	summary := facet.Empty()

	g, gctx := errgroup.WithContext(ctx)
	for _, dim := range []struct {
		f   field.Field
		dst *[]facet.Count
	}{
		{field.Category, &summary.Categories},
		{field.Size, &summary.Sizes},
		{field.Finish, &summary.Finishes},
	} {
		g.Go(func() error {
			counts, err := c.repo.Facet(gctx, base, dim.f)
			if err != nil {
				return fmt.Errorf("%s facet: %w", dim.f, err)
			}
			if counts != nil {
				*dim.dst = counts
			}
			return nil
		})
	}
	g.Go(func() error {
		pr, err := c.repo.PriceRange(gctx, base)
		if err != nil {
			return fmt.Errorf("price facet: %w", err)
		}
		summary.PriceRange = pr
		return nil
	})

	if err := g.Wait(); err != nil {
		return facet.Summary{}, err //nolint:wrapcheck // already wrapped per dimension
	}
	return summary, nil
}
