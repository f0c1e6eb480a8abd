package redis

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/showroom/internal/domain/search/filter"
	"github.com/kailas-cloud/showroom/internal/domain/search/sortby"
)

// buildQuery translates filter.Expression into an FT query string. An empty
// expression matches every document.
func buildQuery(expr filter.Expression) string {
	if expr.IsEmpty() {
		return "*"
	}

	var parts []string

	for _, cond := range expr.Must() {
		parts = append(parts, buildCondition(cond))
	}

	if shouldParts := buildShouldGroup(expr.Should()); shouldParts != "" {
		parts = append(parts, shouldParts)
	}

	return strings.Join(parts, " ")
}

func buildCondition(cond filter.Condition) string {
	switch {
	case cond.IsContains():
		return buildInfixFilter(alias(cond.Field()), cond.Text())
	case cond.IsRange():
		return buildNumericFilter(alias(cond.Field()), *cond.Range())
	case cond.IsFlag():
		return fmt.Sprintf("@%s:{%t}", alias(cond.Field()), cond.Flag())
	}
	return ""
}

func buildShouldGroup(conditions []filter.Condition) string {
	if len(conditions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(conditions))
	for _, cond := range conditions {
		parts = append(parts, buildCondition(cond))
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

// buildInfixFilter matches tag values containing value anywhere. Tags are
// indexed case-insensitively, so the value is folded before escaping.
func buildInfixFilter(key, value string) string {
	escaped := tagEscaper.Replace(strings.ToLower(value))
	return fmt.Sprintf("@%s:{*%s*}", key, escaped)
}

func buildNumericFilter(key string, r filter.Range) string {
	minBound := "-inf"
	maxBound := "+inf"

	if r.GT() != nil {
		minBound = fmt.Sprintf("(%g", *r.GT())
	} else if r.GTE() != nil {
		minBound = fmt.Sprintf("%g", *r.GTE())
	}

	if r.LT() != nil {
		maxBound = fmt.Sprintf("(%g", *r.LT())
	} else if r.LTE() != nil {
		maxBound = fmt.Sprintf("%g", *r.LTE())
	}

	return fmt.Sprintf("@%s:[%s %s]", key, minBound, maxBound)
}

// buildSortArgs renders a SORTBY clause with the id tie-break appended.
func buildSortArgs(orders sortby.Orders) []string {
	props := make([]string, 0, 2*len(orders)+2)
	for _, o := range orders {
		dir := "ASC"
		if o.Direction == sortby.Desc {
			dir = "DESC"
		}
		props = append(props, "@"+alias(o.Field), dir)
	}
	props = append(props, "@pid", "ASC")
	return append([]string{"SORTBY", fmt.Sprint(len(props))}, props...)
}

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	"?", "\\?",
	" ", "\\ ",
)
