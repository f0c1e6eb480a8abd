package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
	"github.com/kailas-cloud/showroom/internal/domain/search/facet"
	"github.com/kailas-cloud/showroom/internal/domain/search/request"
	"github.com/kailas-cloud/showroom/internal/domain/search/result"
	"github.com/kailas-cloud/showroom/internal/logger"
	"github.com/kailas-cloud/showroom/internal/metrics"
)

// DefaultPopular is the static list of example queries served by Popular.
var DefaultPopular = []string{
	"marble tiles",
	"bathroom tiles",
	"kitchen tiles",
	"wooden finish",
	"large format",
	"matte finish",
	"granite",
	"ceramic",
}

// Service orchestrates one faceted search: page fetch, total count, facets and
// suggestions all read the same predicate and run concurrently.
type Service struct {
	repo        Repository
	facets      *FacetCalculator
	suggestions *SuggestionEngine
	popular     []string
}

// New creates a search service. An empty popular list falls back to DefaultPopular.
func New(repo Repository, facets *FacetCalculator, suggestions *SuggestionEngine, popular []string) *Service {
	if len(popular) == 0 {
		popular = DefaultPopular
	}
	return &Service{
		repo:        repo,
		facets:      facets,
		suggestions: suggestions,
		popular:     append([]string(nil), popular...),
	}
}

// Search executes a faceted search. There are no partial results: if any
// sub-query fails the whole call fails.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Result, error) {
	start := time.Now()

	expr, orders, err := BuildQuery(req)
	if err != nil {
		return result.Result{}, fmt.Errorf("build query: %w", err)
	}

	var (
		products    []domproduct.Product
		total       int
		summary     facet.Summary
		suggestions []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(stage(gctx, "page", func(ctx context.Context) error {
		var err error
		products, err = s.repo.Find(ctx, expr, orders, req.Offset(), req.PageSize())
		return err
	}))
	g.Go(stage(gctx, "count", func(ctx context.Context) error {
		var err error
		total, err = s.repo.Count(ctx, expr)
		return err
	}))
	g.Go(stage(gctx, "facets", func(ctx context.Context) error {
		var err error
		summary, err = s.facets.Compute(ctx, expr)
		return err
	}))
	if q := req.TextQuery(); q != "" {
		g.Go(stage(gctx, "suggestions", func(ctx context.Context) error {
			var err error
			suggestions, err = s.suggestions.Suggest(ctx, q)
			return err
		}))
	}

	if err := g.Wait(); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("search", "error").Inc()
		logger.FromContext(ctx).Error("search failed",
			zap.String("sort", string(req.SortKey())),
			zap.Error(err),
		)
		return result.Result{}, err //nolint:wrapcheck // stage wraps with its name
	}

	metrics.SearchRequestsTotal.WithLabelValues("search", "ok").Inc()
	metrics.SearchDuration.WithLabelValues(string(req.SortKey())).Observe(time.Since(start).Seconds())
	metrics.SearchResultSize.Observe(float64(total))
	metrics.SuggestionsReturned.Observe(float64(len(suggestions)))

	return result.New(
		products,
		suggestions,
		result.NewPagination(req.Page(), req.PageSize(), total),
		summary,
	), nil
}

// Suggest proxies the suggestion engine with request metrics.
func (s *Service) Suggest(ctx context.Context, q string) ([]string, error) {
	out, err := s.suggestions.Suggest(ctx, q)
	countRequest("suggest", err)
	return out, err
}

// Autocomplete proxies the suggestion engine's type-ahead with request metrics.
func (s *Service) Autocomplete(ctx context.Context, q string) ([]result.AutocompleteItem, error) {
	start := time.Now()
	out, err := s.suggestions.Autocomplete(ctx, q)
	metrics.SearchStageDuration.WithLabelValues("autocomplete").Observe(time.Since(start).Seconds())
	countRequest("autocomplete", err)
	return out, err
}

// Popular returns the static list of example queries.
func (s *Service) Popular() []string {
	return append([]string(nil), s.popular...)
}

// stage wraps one sub-query with its duration metric and error label.
func stage(ctx context.Context, name string, fn func(context.Context) error) func() error {
	return func() error {
		start := time.Now()
		err := fn(ctx)
		metrics.SearchStageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.SearchStageErrorsTotal.WithLabelValues(name).Inc()
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

func countRequest(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(operation, status).Inc()
}
