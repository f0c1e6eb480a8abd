package showroom

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/showroom/internal/domain/search/request"
)

// Search runs a faceted search over in-stock products.
func (c *Client) Search(ctx context.Context, params SearchParams) (res SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	req := request.New(params, c.maxPageSize)
	res, err = c.search.Search(ctx, &req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return res, nil
}

// Suggest returns search suggestions for a partial query.
// Queries shorter than two characters yield an empty list.
func (c *Client) Suggest(ctx context.Context, q string) (out []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggest", start, err) }()

	out, err = c.search.Suggest(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	return out, nil
}

// Autocomplete returns compact product matches for type-ahead.
func (c *Client) Autocomplete(ctx context.Context, q string) (out []AutocompleteItem, err error) {
	start := time.Now()
	defer func() { c.obs.observe("autocomplete", start, err) }()

	out, err = c.search.Autocomplete(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("autocomplete: %w", err)
	}
	return out, nil
}

// Popular returns the static list of popular searches.
func (c *Client) Popular() []string {
	return c.search.Popular()
}

// Product returns a product by id. Missing products yield ErrProductNotFound.
func (c *Client) Product(ctx context.Context, id string) (p Product, err error) {
	start := time.Now()
	defer func() { c.obs.observe("product", start, err) }()

	p, err = c.products.Get(ctx, id)
	if err != nil {
		return Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

// Featured returns top rated in-stock products. limit <= 0 means the default of 8.
func (c *Client) Featured(ctx context.Context, limit int) (out []Product, err error) {
	start := time.Now()
	defer func() { c.obs.observe("featured", start, err) }()

	out, err = c.products.Featured(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("featured: %w", err)
	}
	return out, nil
}

// ByCategory returns products whose category contains the given text, newest first.
func (c *Client) ByCategory(ctx context.Context, category string) (out []Product, err error) {
	start := time.Now()
	defer func() { c.obs.observe("by_category", start, err) }()

	out, err = c.products.ByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("by category: %w", err)
	}
	return out, nil
}

// Recommendations returns up to four other products from the same category as id.
func (c *Client) Recommendations(ctx context.Context, id string) (out []Product, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommendations", start, err) }()

	out, err = c.products.Recommendations(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("recommendations for %s: %w", id, err)
	}
	return out, nil
}

// Products pages through the whole catalog, newest first by default.
func (c *Client) Products(ctx context.Context, params ListParams) (out Listing, err error) {
	start := time.Now()
	defer func() { c.obs.observe("products", start, err) }()

	out, err = c.products.List(ctx, params)
	if err != nil {
		return Listing{}, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// Categories returns every category with its count and price spread, largest first.
func (c *Client) Categories(ctx context.Context) (out []CategorySummary, err error) {
	start := time.Now()
	defer func() { c.obs.observe("categories", start, err) }()

	out, err = c.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return out, nil
}

// PopularCategories returns the five largest categories with rating and review totals.
func (c *Client) PopularCategories(ctx context.Context) (out []CategoryPopularity, err error) {
	start := time.Now()
	defer func() { c.obs.observe("popular_categories", start, err) }()

	out, err = c.categories.Popular(ctx)
	if err != nil {
		return nil, fmt.Errorf("popular categories: %w", err)
	}
	return out, nil
}

// Category returns one page of a category and stats over all its products.
func (c *Client) Category(ctx context.Context, params CategoryParams) (out CategoryDetails, err error) {
	start := time.Now()
	defer func() { c.obs.observe("category", start, err) }()

	out, err = c.categories.Details(ctx, params)
	if err != nil {
		return CategoryDetails{}, fmt.Errorf("category %s: %w", params.Category, err)
	}
	return out, nil
}

// Import validates and upserts products. Per-item failures are reported in the
// results; the error is non-nil only when the whole call is rejected.
func (c *Client) Import(ctx context.Context, products []Product) (out []ImportResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("import", start, err) }()

	results, err := c.batch.Import(ctx, products)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	return toImportResults(results), nil
}

// Delete removes a product by id.
func (c *Client) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete", start, err) }()

	if err = c.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}
