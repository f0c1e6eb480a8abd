package request

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/showroom/internal/domain/search/sortby"
)

// Search parameter limits.
const (
	// MinQueryLength is the shortest query (in runes) that activates text matching and suggestions.
	MinQueryLength = 2
	// MaxQueryLength caps the query; longer input is truncated, not rejected.
	MaxQueryLength  = 256
	DefaultPageSize = 12
	MaxPageSize     = 100
	// AllValue is the client sentinel for "no filter" on category, size and finish.
	AllValue = "All"
)

// Params carries raw, possibly out-of-range search input.
// Nil pointers mean "not supplied".
type Params struct {
	Query     string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	Size      string
	Finish    string
	MinRating *float64
	Page      int
	PageSize  int
	SortBy    string
}

// Request is a normalized search query. It never carries out-of-range values.
type Request struct {
	query     string
	category  string
	minPrice  *float64
	maxPrice  *float64
	size      string
	finish    string
	minRating *float64
	page      int
	pageSize  int
	sortKey   sortby.Key
}

// New normalizes search parameters. Nothing is rejected:
// page < 1 becomes 1, pageSize <= 0 becomes DefaultPageSize, pageSize above
// maxPageSize is clamped (maxPageSize <= 0 means MaxPageSize), unknown sort keys
// become relevance, "All" and blank facet values are dropped and NaN bounds are ignored.
// Pages whose offset would overflow int are clamped. An inverted price range is kept as is.
func New(p Params, maxPageSize int) Request {
	if maxPageSize <= 0 {
		maxPageSize = MaxPageSize
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	// Offset must stay representable; the capped page is still past any real catalog.
	if last := math.MaxInt / pageSize; page > last {
		page = last
	}

	return Request{
		query:     NormalizeQuery(p.Query),
		category:  facetValue(p.Category),
		minPrice:  finite(p.MinPrice),
		maxPrice:  finite(p.MaxPrice),
		size:      facetValue(p.Size),
		finish:    facetValue(p.Finish),
		minRating: finite(p.MinRating),
		page:      page,
		pageSize:  pageSize,
		sortKey:   sortby.Parse(p.SortBy),
	}
}

// NormalizeQuery trims q and truncates it to MaxQueryLength runes.
func NormalizeQuery(q string) string {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) > MaxQueryLength {
		q = string([]rune(q)[:MaxQueryLength])
	}
	return q
}

func facetValue(v string) string {
	v = strings.TrimSpace(v)
	if v == AllValue {
		return ""
	}
	return v
}

func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	c := *v
	return &c
}

// IsTextActive reports whether q is long enough to drive text matching and suggestions.
func IsTextActive(q string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(q)) >= MinQueryLength
}

// Query returns the trimmed query text as supplied.
func (r *Request) Query() string { return r.query }

// TextQuery returns the query when it activates text matching, otherwise "".
func (r *Request) TextQuery() string {
	if !IsTextActive(r.query) {
		return ""
	}
	return r.query
}

// Category returns the category filter ("" = none).
func (r *Request) Category() string { return r.category }

// MinPrice returns the inclusive lower price bound.
func (r *Request) MinPrice() *float64 { return r.minPrice }

// MaxPrice returns the inclusive upper price bound.
func (r *Request) MaxPrice() *float64 { return r.maxPrice }

// Size returns the size filter ("" = none).
func (r *Request) Size() string { return r.size }

// Finish returns the finish filter ("" = none).
func (r *Request) Finish() string { return r.finish }

// MinRating returns the inclusive lower rating bound.
func (r *Request) MinRating() *float64 { return r.minRating }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// PageSize returns the number of products per page.
func (r *Request) PageSize() int { return r.pageSize }

// Offset returns the number of matching products skipped before this page.
func (r *Request) Offset() int { return (r.page - 1) * r.pageSize }

// SortKey returns the requested ordering.
func (r *Request) SortKey() sortby.Key { return r.sortKey }
