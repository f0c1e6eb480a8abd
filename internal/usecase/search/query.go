package search

import (
	"fmt"

	"github.com/kailas-cloud/showroom/internal/domain/product/field"
	"github.com/kailas-cloud/showroom/internal/domain/search/filter"
	"github.com/kailas-cloud/showroom/internal/domain/search/request"
	"github.com/kailas-cloud/showroom/internal/domain/search/sortby"
)

// Fields matched by each kind of free-text lookup.
var (
	searchTextFields       = []field.Field{field.Name, field.Description, field.Category, field.Tags, field.Features}
	suggestionTextFields   = []field.Field{field.Name, field.Category, field.Tags}
	autocompleteTextFields = []field.Field{field.Name, field.Category}
)

// BuildQuery translates a normalized request into the search predicate and sort.
//
// The text query, when active, becomes an OR group of substring conditions.
// Structured filters and the in-stock flag are ANDed onto it.
func BuildQuery(req *request.Request) (filter.Expression, sortby.Orders, error) {
	must := make([]filter.Condition, 0, 6)

	stock, err := filter.NewFlag(field.InStock, true)
	if err != nil {
		return filter.Expression{}, nil, err
	}
	must = append(must, stock)

	for _, fv := range []struct {
		f     field.Field
		value string
	}{
		{field.Category, req.Category()},
		{field.Size, req.Size()},
		{field.Finish, req.Finish()},
	} {
		if fv.value == "" {
			continue
		}
		c, err := filter.NewContains(fv.f, fv.value)
		if err != nil {
			return filter.Expression{}, nil, err
		}
		must = append(must, c)
	}

	if req.MinPrice() != nil || req.MaxPrice() != nil {
		r, err := filter.Between(req.MinPrice(), req.MaxPrice())
		if err != nil {
			return filter.Expression{}, nil, fmt.Errorf("price range: %w", err)
		}
		c, err := filter.NewRange(field.Price, r)
		if err != nil {
			return filter.Expression{}, nil, err
		}
		must = append(must, c)
	}

	if req.MinRating() != nil {
		r, err := filter.NewRangeFilter(nil, req.MinRating(), nil, nil)
		if err != nil {
			return filter.Expression{}, nil, fmt.Errorf("rating range: %w", err)
		}
		c, err := filter.NewRange(field.Rating, r)
		if err != nil {
			return filter.Expression{}, nil, err
		}
		must = append(must, c)
	}

	should, err := anyContains(searchTextFields, req.TextQuery())
	if err != nil {
		return filter.Expression{}, nil, err
	}

	expr, err := filter.NewExpression(must, should)
	if err != nil {
		return filter.Expression{}, nil, err
	}
	return expr, req.SortKey().Orders(), nil
}

// textExpression matches products where any of fields contains q.
// It carries no stock filter.
func textExpression(fields []field.Field, q string) (filter.Expression, error) {
	should, err := anyContains(fields, q)
	if err != nil {
		return filter.Expression{}, err
	}
	return filter.NewExpression(nil, should)
}

func anyContains(fields []field.Field, q string) ([]filter.Condition, error) {
	if q == "" {
		return nil, nil
	}
	out := make([]filter.Condition, 0, len(fields))
	for _, f := range fields {
		c, err := filter.NewContains(f, q)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
