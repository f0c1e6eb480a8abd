package showroom

import (
	dombatch "github.com/kailas-cloud/showroom/internal/domain/batch"
	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
	"github.com/kailas-cloud/showroom/internal/domain/search/request"
	"github.com/kailas-cloud/showroom/internal/domain/search/result"
	categoryuc "github.com/kailas-cloud/showroom/internal/usecase/category"
	productuc "github.com/kailas-cloud/showroom/internal/usecase/product"
)

// Product is a catalog entry.
type Product = domproduct.Product

// Image is a product image.
type Image = domproduct.Image

// SearchParams is raw search input. Out-of-range values are normalized, never rejected.
type SearchParams = request.Params

// SearchResult is one page of matches with suggestions, pagination and facet summaries.
type SearchResult = result.Result

// AutocompleteItem is a compact product projection for type-ahead.
type AutocompleteItem = result.AutocompleteItem

// ListParams selects a page of the full catalog, sold-out products included.
type ListParams = productuc.ListParams

// Listing is one page of the catalog.
type Listing = productuc.Listing

// CategorySummary is one category with its product count and price spread.
type CategorySummary = categoryuc.Summary

// CategoryPopularity is one category with its average rating and review total.
type CategoryPopularity = categoryuc.Popularity

// CategoryParams selects a page of one category.
type CategoryParams = categoryuc.DetailsParams

// CategoryDetails is one page of a category with stats over all its products.
type CategoryDetails = categoryuc.Details

// ImportStatus is the outcome of one imported product.
type ImportStatus string

// Import status constants.
const (
	ImportCreated ImportStatus = "created"
	ImportUpdated ImportStatus = "updated"
	ImportError   ImportStatus = "error"
)

// ImportResult is the outcome of one item in an Import call.
type ImportResult struct {
	ID     string
	Status ImportStatus
	Err    error
}

func toImportResults(results []dombatch.Result) []ImportResult {
	out := make([]ImportResult, len(results))
	for i, r := range results {
		out[i] = ImportResult{ID: r.ID(), Status: ImportStatus(r.Status()), Err: r.Err()}
	}
	return out
}
