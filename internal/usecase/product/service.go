package product

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
	"github.com/kailas-cloud/showroom/internal/domain/product/field"
	"github.com/kailas-cloud/showroom/internal/domain/search/filter"
	"github.com/kailas-cloud/showroom/internal/domain/search/request"
	"github.com/kailas-cloud/showroom/internal/domain/search/result"
	"github.com/kailas-cloud/showroom/internal/domain/search/sortby"
)

// listTextFields are matched by the listing search term.
var listTextFields = []field.Field{field.Name, field.Description, field.Category}

// Listing defaults.
const (
	// DefaultFeaturedLimit is the number of featured products when the caller passes no limit.
	DefaultFeaturedLimit = 8
	// FeaturedMinRating is the lowest rating a featured product may have.
	FeaturedMinRating = 4.0
	// RecommendationLimit caps the products recommended next to one product.
	RecommendationLimit = 4
)

// ListParams selects a page of the full catalog. Category is matched as a
// case-insensitive substring unless blank or "All"; Search matches any of
// name, description and category. An unknown SortBy means newest first.
type ListParams struct {
	Category string
	Search   string
	Page     int
	PageSize int
	SortBy   string
}

// Listing is one page of the catalog.
type Listing struct {
	Products   []domproduct.Product `json:"products"`
	Pagination result.Pagination    `json:"pagination"`
}

// Service serves the storefront product listings outside of search.
type Service struct {
	repo     Repository
	finder   Finder
	maxLimit int
}

// New creates a product service.
func New(repo Repository, finder Finder) *Service {
	return &Service{repo: repo, finder: finder, maxLimit: request.MaxPageSize}
}

// WithMaxLimit caps listing sizes.
func (s *Service) WithMaxLimit(n int) *Service {
	if n > 0 {
		s.maxLimit = n
	}
	return s
}

// Get returns one product. Missing products yield domain.ErrProductNotFound.
func (s *Service) Get(ctx context.Context, id string) (domproduct.Product, error) {
	p, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return domproduct.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Delete removes one product. Missing products yield domain.ErrProductNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// List pages through the catalog, sold-out products included.
func (s *Service) List(ctx context.Context, p ListParams) (Listing, error) {
	req := request.New(request.Params{Page: p.Page, PageSize: p.PageSize}, s.maxLimit)
	expr, err := listExpression(p.Category, request.NormalizeQuery(p.Search))
	if err != nil {
		return Listing{}, err
	}
	orders := sortby.ParseOr(p.SortBy, sortby.Newest).Orders()

	var products []domproduct.Product
	var total int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.finder.Find(gctx, expr, orders, req.Offset(), req.PageSize())
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.finder.Count(gctx, expr)
		return err
	})
	if err := g.Wait(); err != nil {
		return Listing{}, fmt.Errorf("list products: %w", err)
	}

	if products == nil {
		products = []domproduct.Product{}
	}
	return Listing{
		Products:   products,
		Pagination: result.NewPagination(req.Page(), req.PageSize(), total),
	}, nil
}

func listExpression(category, search string) (filter.Expression, error) {
	var must, should []filter.Condition
	category = strings.TrimSpace(category)
	if category != "" && !strings.EqualFold(category, request.AllValue) {
		c, err := filter.NewContains(field.Category, category)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, c)
	}
	if search != "" {
		for _, f := range listTextFields {
			c, err := filter.NewContains(f, search)
			if err != nil {
				return filter.Expression{}, err
			}
			should = append(should, c)
		}
	}
	return filter.NewExpression(must, should)
}

// Featured returns the best rated in-stock products rated at least
// FeaturedMinRating, most reviewed first on equal rating.
func (s *Service) Featured(ctx context.Context, limit int) ([]domproduct.Product, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	limit = min(limit, s.maxLimit)

	stock, err := filter.NewFlag(field.InStock, true)
	if err != nil {
		return nil, err
	}
	minRating := FeaturedMinRating
	r, err := filter.NewRangeFilter(nil, &minRating, nil, nil)
	if err != nil {
		return nil, err
	}
	rated, err := filter.NewRange(field.Rating, r)
	if err != nil {
		return nil, err
	}
	expr, err := filter.NewExpression([]filter.Condition{stock, rated}, nil)
	if err != nil {
		return nil, err
	}

	products, err := s.finder.Find(ctx, expr, sortby.Relevance.Orders(), 0, limit)
	if err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}
	return products, nil
}

// ByCategory lists products whose category contains category, newest first.
// Stock is not filtered so category pages show sold-out items too.
func (s *Service) ByCategory(ctx context.Context, category string) ([]domproduct.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return []domproduct.Product{}, nil
	}

	c, err := filter.NewContains(field.Category, category)
	if err != nil {
		return nil, err
	}
	expr, err := filter.NewExpression([]filter.Condition{c}, nil)
	if err != nil {
		return nil, err
	}

	products, err := s.finder.Find(ctx, expr, sortby.Newest.Orders(), 0, s.maxLimit)
	if err != nil {
		return nil, fmt.Errorf("category products: %w", err)
	}
	return products, nil
}

// Recommendations returns up to RecommendationLimit other products of the same category.
func (s *Service) Recommendations(ctx context.Context, id string) ([]domproduct.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	c, err := filter.NewContains(field.Category, string(p.Category))
	if err != nil {
		return nil, err
	}
	expr, err := filter.NewExpression([]filter.Condition{c}, nil)
	if err != nil {
		return nil, err
	}

	// One extra row covers the product itself.
	candidates, err := s.finder.Find(ctx, expr, sortby.Relevance.Orders(), 0, RecommendationLimit+1)
	if err != nil {
		return nil, fmt.Errorf("recommendations: %w", err)
	}
	out := make([]domproduct.Product, 0, RecommendationLimit)
	for _, cand := range candidates {
		if cand.ID == p.ID || cand.Category != p.Category || len(out) == RecommendationLimit {
			continue
		}
		out = append(out, cand)
	}
	return out, nil
}
