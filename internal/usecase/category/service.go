package category

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
	"github.com/kailas-cloud/showroom/internal/domain/product/field"
	"github.com/kailas-cloud/showroom/internal/domain/search/facet"
	"github.com/kailas-cloud/showroom/internal/domain/search/filter"
	"github.com/kailas-cloud/showroom/internal/domain/search/request"
	"github.com/kailas-cloud/showroom/internal/domain/search/result"
	"github.com/kailas-cloud/showroom/internal/domain/search/sortby"
)

// PopularLimit is the number of categories Popular returns.
const PopularLimit = 5

// Service serves category browsing. Stock is never filtered: categories
// describe the whole catalog.
type Service struct {
	repo        Repository
	maxPageSize int
}

// New creates a category service.
func New(repo Repository) *Service {
	return &Service{repo: repo, maxPageSize: request.MaxPageSize}
}

// WithMaxPageSize caps category page sizes.
func (s *Service) WithMaxPageSize(n int) *Service {
	if n > 0 {
		s.maxPageSize = n
	}
	return s
}

// List returns every category with its product count and price spread,
// largest first.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	counts, err := s.repo.Facet(ctx, filter.Expression{}, field.Category)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]Summary, len(counts))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range counts {
		g.Go(func() error {
			price, err := s.stats(gctx, c.Value, field.Price)
			if err != nil {
				return err
			}
			out[i] = Summary{
				Category: c.Value, Count: c.Count,
				AvgPrice: price.Avg, MinPrice: price.Min, MaxPrice: price.Max,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// Popular returns the PopularLimit largest categories with their average
// rating and review total.
func (s *Service) Popular(ctx context.Context) ([]Popularity, error) {
	counts, err := s.repo.Facet(ctx, filter.Expression{}, field.Category)
	if err != nil {
		return nil, fmt.Errorf("popular categories: %w", err)
	}
	counts = counts[:min(len(counts), PopularLimit)]

	out := make([]Popularity, len(counts))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range counts {
		out[i] = Popularity{Category: c.Value, Count: c.Count}
		g.Go(func() error {
			rating, err := s.stats(gctx, c.Value, field.Rating)
			if err != nil {
				return err
			}
			out[i].AvgRating = rating.Avg
			return nil
		})
		g.Go(func() error {
			reviews, err := s.stats(gctx, c.Value, field.Reviews)
			if err != nil {
				return err
			}
			out[i].TotalReviews = int(math.Round(reviews.Sum()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("popular categories: %w", err)
	}
	return out, nil
}

// Details returns one page of products whose category contains p.Category
// (case-insensitive) and stats over all of them.
func (s *Service) Details(ctx context.Context, p DetailsParams) (Details, error) {
	name := strings.TrimSpace(p.Category)
	req := request.New(request.Params{Page: p.Page, PageSize: p.PageSize}, s.maxPageSize)
	out := Details{
		Category:   name,
		Products:   []domproduct.Product{},
		Pagination: result.NewPagination(req.Page(), req.PageSize(), 0),
	}
	if name == "" {
		return out, nil
	}

	expr, err := categoryExpr(name)
	if err != nil {
		return Details{}, err
	}
	orders := sortby.ParseOr(p.SortBy, sortby.Newest).Orders()

	var total int
	var price, rating facet.Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := s.repo.Find(gctx, expr, orders, req.Offset(), req.PageSize())
		if err != nil {
			return err
		}
		if products != nil {
			out.Products = products
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, expr)
		return err
	})
	g.Go(func() error {
		var err error
		price, err = s.repo.Stats(gctx, expr, field.Price)
		return err
	})
	g.Go(func() error {
		var err error
		rating, err = s.repo.Stats(gctx, expr, field.Rating)
		return err
	})
	if err := g.Wait(); err != nil {
		return Details{}, fmt.Errorf("category %q: %w", name, err)
	}

	out.Pagination = result.NewPagination(req.Page(), req.PageSize(), total)
	if price.Count > 0 {
		out.Stats = Stats{
			TotalProducts: price.Count,
			AvgPrice:      price.Avg,
			MinPrice:      price.Min,
			MaxPrice:      price.Max,
			AvgRating:     rating.Avg,
		}
	}
	return out, nil
}

func (s *Service) stats(ctx context.Context, category string, f field.Field) (facet.Stats, error) {
	expr, err := categoryExpr(category)
	if err != nil {
		return facet.Stats{}, err
	}
	st, err := s.repo.Stats(ctx, expr, f)
	if err != nil {
		return facet.Stats{}, fmt.Errorf("%s: %w", category, err)
	}
	return st, nil
}

func categoryExpr(category string) (filter.Expression, error) {
	c, err := filter.NewContains(field.Category, category)
	if err != nil {
		return filter.Expression{}, err
	}
	return filter.NewExpression([]filter.Condition{c}, nil)
}
