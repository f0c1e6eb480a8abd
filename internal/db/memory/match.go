package memory

import (
	"strings"

	"github.com/kailas-cloud/showroom/internal/domain/product/field"
	"github.com/kailas-cloud/showroom/internal/domain/search/filter"
)

// Matches evaluates expr against decoded document attributes.
// Every must condition has to hold; a non-empty should group needs at least one hit.
func Matches(attrs map[string]any, expr filter.Expression) bool {
	for _, c := range expr.Must() {
		if !matchCondition(attrs, c) {
			return false
		}
	}
	should := expr.Should()
	if len(should) == 0 {
		return true
	}
	for _, c := range should {
		if matchCondition(attrs, c) {
			return true
		}
	}
	return false
}

func matchCondition(attrs map[string]any, c filter.Condition) bool {
	switch {
	case c.IsContains():
		needle := strings.ToLower(c.Text())
		for _, v := range textValues(attrs, c.Field()) {
			if strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		}
		return false
	case c.IsRange():
		v, ok := numberValue(attrs, c.Field())
		return ok && c.Range().Contains(v)
	case c.IsFlag():
		v, ok := attrs[c.Field().Name()].(bool)
		return ok && v == c.Flag()
	}
	return false
}

// textValues returns the string value(s) of a text or list attribute; missing or
// mistyped attributes yield nothing.
func textValues(attrs map[string]any, f field.Field) []string {
	raw, ok := attrs[f.Name()]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func numberValue(attrs map[string]any, f field.Field) (float64, bool) {
	v, ok := attrs[f.Name()].(float64)
	return v, ok
}
