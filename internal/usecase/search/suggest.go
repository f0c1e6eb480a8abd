package search

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/showroom/internal/domain/product/field"
	"github.com/kailas-cloud/showroom/internal/domain/search/request"
	"github.com/kailas-cloud/showroom/internal/domain/search/result"
	"github.com/kailas-cloud/showroom/internal/domain/search/sortby"
)

// Default caps for suggestion lists.
const (
	DefaultSuggestionLimit   = 5
	DefaultAutocompleteLimit = 8
)

// SuggestionEngine proposes short match strings and type-ahead products for a partial query.
type SuggestionEngine struct {
	repo              SuggestionRepository
	limit             int
	autocompleteLimit int
}

// NewSuggestionEngine creates a suggestion engine; non-positive limits use the defaults.
func NewSuggestionEngine(repo SuggestionRepository, limit, autocompleteLimit int) *SuggestionEngine {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	if autocompleteLimit <= 0 {
		autocompleteLimit = DefaultAutocompleteLimit
	}
	return &SuggestionEngine{repo: repo, limit: limit, autocompleteLimit: autocompleteLimit}
}

// Suggest returns up to limit distinct names, categories and tags containing q.
// Names come first, then categories, then tags, each group in ascending order.
// A query shorter than request.MinQueryLength yields an empty list.
func (e *SuggestionEngine) Suggest(ctx context.Context, q string) ([]string, error) {
	q = request.NormalizeQuery(q)
	if !request.IsTextActive(q) {
		return []string{}, nil
	}

	expr, err := textExpression(suggestionTextFields, q)
	if err != nil {
		return nil, err
	}

	groups := make([][]string, len(suggestionTextFields))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range suggestionTextFields {
		g.Go(func() error {
			values, err := e.repo.Distinct(gctx, expr, f)
			if err != nil {
				return fmt.Errorf("distinct %s: %w", f, err)
			}
			groups[i] = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // already wrapped per field
	}

	needle := strings.ToLower(q)
	seen := make(map[string]struct{})
	out := make([]string, 0, e.limit)
	for _, values := range groups {
		for _, v := range values {
			if len(out) == e.limit {
				return out, nil
			}
			if _, dup := seen[v]; dup || !strings.Contains(strings.ToLower(v), needle) {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out, nil
}

// Autocomplete returns compact projections of products whose name or category
// contains q, ordered by name.
func (e *SuggestionEngine) Autocomplete(ctx context.Context, q string) ([]result.AutocompleteItem, error) {
	q = request.NormalizeQuery(q)
	if !request.IsTextActive(q) {
		return []result.AutocompleteItem{}, nil
	}

	expr, err := textExpression(autocompleteTextFields, q)
	if err != nil {
		return nil, err
	}
	products, err := e.repo.Find(ctx, expr, sortby.Orders{{Field: field.Name, Direction: sortby.Asc}}, 0, e.autocompleteLimit)
	if err != nil {
		return nil, fmt.Errorf("autocomplete: %w", err)
	}

	items := make([]result.AutocompleteItem, 0, len(products))
	for i := range products {
		items = append(items, result.NewAutocompleteItem(&products[i]))
	}
	return items, nil
}
