package chi

import (
	"net/http"
	"net/url"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/showroom/internal/domain/search/request"
)

// Storefront query parameter names.
const (
	paramQuery    = "q"
	paramCategory = "category"
	paramMinPrice = "minPrice"
	paramMaxPrice = "maxPrice"
	paramSize     = "size"
	paramFinish   = "finish"
	paramRating   = "rating"
	paramPage     = "page"
	paramLimit    = "limit"
	paramSortBy   = "sortBy"
	paramSearch   = "search"
)

// bindQuery binds one optional form-style query parameter into dest.
// A value that fails to bind leaves dest untouched, so malformed input reads as absent.
func bindQuery(query url.Values, name string, dest any) bool {
	if _, ok := query[name]; !ok {
		return false
	}
	return runtime.BindQueryParameter("form", true, false, name, query, dest) == nil
}

// searchParams reads the storefront search query string. Nothing here rejects a
// request: unparsable numbers are dropped and range checks happen in request.New.
// sortOrder is accepted and ignored since the sort key implies the direction.
func searchParams(r *http.Request, defaultPageSize int) request.Params {
	query := r.URL.Query()
	var p request.Params

	bindQuery(query, paramQuery, &p.Query)
	bindQuery(query, paramCategory, &p.Category)
	bindQuery(query, paramSize, &p.Size)
	bindQuery(query, paramFinish, &p.Finish)
	bindQuery(query, paramSortBy, &p.SortBy)

	var minPrice, maxPrice, rating float64
	if bindQuery(query, paramMinPrice, &minPrice) {
		p.MinPrice = &minPrice
	}
	if bindQuery(query, paramMaxPrice, &maxPrice) {
		p.MaxPrice = &maxPrice
	}
	if bindQuery(query, paramRating, &rating) {
		p.MinRating = &rating
	}

	var page, limit int
	if bindQuery(query, paramPage, &page) {
		p.Page = page
	}
	p.PageSize = defaultPageSize
	if bindQuery(query, paramLimit, &limit) && limit > 0 {
		p.PageSize = limit
	}
	return p
}

// pageParams reads page, limit and sortBy for catalog listings. Absent or
// malformed values read as zero and are normalized by the use case.
func pageParams(r *http.Request, defaultPageSize int) (page, pageSize int, sortBy string) {
	page = intParam(r, paramPage)
	pageSize = defaultPageSize
	if limit := intParam(r, paramLimit); limit > 0 {
		pageSize = limit
	}
	return page, pageSize, stringParam(r, paramSortBy)
}

// intParam reads an optional integer parameter; absent or malformed yields 0.
func intParam(r *http.Request, name string) int {
	var v int
	if !bindQuery(r.URL.Query(), name, &v) {
		return 0
	}
	return v
}

// stringParam reads an optional string parameter.
func stringParam(r *http.Request, name string) string {
	var v string
	bindQuery(r.URL.Query(), name, &v)
	return v
}
