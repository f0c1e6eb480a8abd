package db

import (
	"github.com/kailas-cloud/showroom/internal/domain/product/field"
	"github.com/kailas-cloud/showroom/internal/domain/search/filter"
	"github.com/kailas-cloud/showroom/internal/domain/search/sortby"
)

// Document is a stored product: its id and JSON body. The body carries every
// attribute named by field.Field, including the numeric creation timestamp.
type Document struct {
	ID   string
	Data []byte
}

// FindQuery is the input for a sorted, paginated predicate query.
// Stores append an ascending id order after Sort so equal keys page deterministically.
type FindQuery struct {
	Filter filter.Expression
	Sort   sortby.Orders
	Offset int
	Limit  int
}

// CountQuery is the input for counting matching documents.
type CountQuery struct {
	Filter filter.Expression
}

// GroupQuery is the input for per-value counts of a text field.
type GroupQuery struct {
	Filter filter.Expression
	Field  field.Field
	// Limit caps the number of buckets; 0 means no cap.
	Limit int
}

// StatsQuery is the input for numeric statistics.
type StatsQuery struct {
	Filter filter.Expression
	Field  field.Field
}

// DistinctQuery is the input for distinct values of a text or list field.
type DistinctQuery struct {
	Filter filter.Expression
	Field  field.Field
}

// Bucket is one group of a GroupCount.
type Bucket struct {
	Value string
	Count int
}

// Stats is the numeric summary of a field. Min/Max/Avg are meaningless when Count is 0.
type Stats struct {
	Count int
	Min   float64
	Max   float64
	Avg   float64
}
