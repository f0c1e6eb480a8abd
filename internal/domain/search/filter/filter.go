package filter

import (
	"fmt"

	"github.com/kailas-cloud/showroom/internal/domain/product/field"
)

// MaxConditionsPerGroup is the maximum number of conditions per filter group.
const MaxConditionsPerGroup = 32

// Expression is a structured product predicate: every must condition holds AND,
// when the should group is non-empty, at least one should condition holds.
type Expression struct {
	must   []Condition
	should []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must, should []Condition) (Expression, error) {
	if len(must) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(should) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many should conditions (max %d)", MaxConditionsPerGroup)
	}
	return Expression{must: must, should: should}, nil
}

// Must returns the conditions that all have to hold.
func (e Expression) Must() []Condition { return e.must }

// Should returns the OR group.
func (e Expression) Should() []Condition { return e.should }

// IsEmpty reports whether the expression has no conditions (matches everything).
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.should) == 0
}

// Op is the comparison a Condition performs.
type Op int

// Condition operators.
const (
	// OpContains is a case-insensitive substring test on text fields; on list
	// fields it holds when any element contains the value.
	OpContains Op = iota + 1
	OpRange
	OpFlag
)

// Condition is a single clause over a product field.
type Condition struct {
	field     field.Field
	op        Op
	text      string
	flag      bool
	rangeExpr *Range
}

// NewContains creates a case-insensitive substring condition on a text or list field.
func NewContains(f field.Field, text string) (Condition, error) {
	if f.IsZero() {
		return Condition{}, fmt.Errorf("filter field is required")
	}
	if f.Kind() != field.Text && f.Kind() != field.TextList {
		return Condition{}, fmt.Errorf("contains filter on non-text field %q", f)
	}
	if text == "" {
		return Condition{}, fmt.Errorf("contains value is required for field %q", f)
	}
	return Condition{field: f, op: OpContains, text: text}, nil
}

// NewRange creates a numeric range condition.
func NewRange(f field.Field, r Range) (Condition, error) {
	if f.IsZero() {
		return Condition{}, fmt.Errorf("filter field is required")
	}
	if f.Kind() != field.Numeric {
		return Condition{}, fmt.Errorf("range filter on non-numeric field %q", f)
	}
	return Condition{field: f, op: OpRange, rangeExpr: &r}, nil
}

// NewFlag creates a boolean equality condition.
func NewFlag(f field.Field, v bool) (Condition, error) {
	if f.IsZero() {
		return Condition{}, fmt.Errorf("filter field is required")
	}
	if f.Kind() != field.Flag {
		return Condition{}, fmt.Errorf("flag filter on non-flag field %q", f)
	}
	return Condition{field: f, op: OpFlag, flag: v}, nil
}

// Field returns the product field the condition applies to.
func (c Condition) Field() field.Field { return c.field }

// Op returns the comparison operator.
func (c Condition) Op() Op { return c.op }

// Text returns the substring value of a contains condition.
func (c Condition) Text() string { return c.text }

// Flag returns the expected value of a flag condition.
func (c Condition) Flag() bool { return c.flag }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// IsContains reports whether this is a substring condition.
func (c Condition) IsContains() bool { return c.op == OpContains }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.op == OpRange }

// IsFlag reports whether this is a flag condition.
func (c Condition) IsFlag() bool { return c.op == OpFlag }

// Range is a numeric range with gt/gte/lt/lte boundaries.
// An inverted range (lower bound above upper bound) is valid and matches nothing.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range.
// At least one boundary required. gt/gte and lt/lte are mutually exclusive.
func NewRangeFilter(gt, gte, lt, lte *float64) (Range, error) {
	if gt == nil && gte == nil && lt == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gt != nil && gte != nil {
		return Range{}, fmt.Errorf("cannot specify both gt and gte")
	}
	if lt != nil && lte != nil {
		return Range{}, fmt.Errorf("cannot specify both lt and lte")
	}
	return Range{gt: gt, gte: gte, lt: lt, lte: lte}, nil
}

// Between creates an inclusive range; either bound may be nil.
func Between(minV, maxV *float64) (Range, error) {
	return NewRangeFilter(nil, minV, nil, maxV)
}

// GT returns the lower exclusive bound.
func (r Range) GT() *float64 { return r.gt }

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LT returns the upper exclusive bound.
func (r Range) LT() *float64 { return r.lt }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }

// Contains reports whether v satisfies every bound.
func (r Range) Contains(v float64) bool {
	if r.gt != nil && !(v > *r.gt) {
		return false
	}
	if r.gte != nil && !(v >= *r.gte) {
		return false
	}
	if r.lt != nil && !(v < *r.lt) {
		return false
	}
	if r.lte != nil && !(v <= *r.lte) {
		return false
	}
	return true
}
