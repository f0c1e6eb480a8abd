package facet

import "sort"

// Default price range reported when nothing matches. Callers treat it as "no constraint".
const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 1000
	DefaultAvgPrice = 100
)

// Count is the number of matching products sharing one field value.
// The JSON shape ({"_id": value, "count": n}) is the storefront wire format.
type Count struct {
	Value string `json:"_id"`
	Count int    `json:"count"`
}

// PriceRange summarizes prices over the matching set.
type PriceRange struct {
	MinPrice float64 `json:"minPrice"`
	MaxPrice float64 `json:"maxPrice"`
	AvgPrice float64 `json:"avgPrice"`
}

// DefaultPriceRange returns the range reported for an empty matching set.
func DefaultPriceRange() PriceRange {
	return PriceRange{MinPrice: DefaultMinPrice, MaxPrice: DefaultMaxPrice, AvgPrice: DefaultAvgPrice}
}

// Stats summarizes one numeric field over the matching set.
// A zero Count means nothing matched and the other values are meaningless.
type Stats struct {
	Count int
	Min   float64
	Max   float64
	Avg   float64
}

// Sum returns the field total.
func (s Stats) Sum() float64 { return s.Avg * float64(s.Count) }

// Summary holds every facet computed for one search.
type Summary struct {
	Categories []Count    `json:"categories"`
	PriceRange PriceRange `json:"priceRange"`
	Sizes      []Count    `json:"sizes"`
	Finishes   []Count    `json:"finishes"`
}

// Empty returns the summary of an empty matching set.
func Empty() Summary {
	return Summary{
		Categories: []Count{},
		PriceRange: DefaultPriceRange(),
		Sizes:      []Count{},
		Finishes:   []Count{},
	}
}

// SortCounts orders counts by count descending, then value ascending, and drops
// blank values. The value tie-break makes equal counts render in a stable order.
func SortCounts(counts []Count) []Count {
	out := make([]Count, 0, len(counts))
	for _, c := range counts {
		if c.Value == "" || c.Count <= 0 {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Total sums the counts.
func Total(counts []Count) int {
	n := 0
	for _, c := range counts {
		n += c.Count
	}
	return n
}
