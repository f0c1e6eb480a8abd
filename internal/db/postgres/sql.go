package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/showroom/internal/db"
	"github.com/kailas-cloud/showroom/internal/domain/product/field"
	"github.com/kailas-cloud/showroom/internal/domain/search/filter"
	"github.com/kailas-cloud/showroom/internal/domain/search/sortby"
)

// builder accumulates positional arguments while rendering SQL fragments.
type builder struct {
	args []any
}

func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// where renders the expression plus any extra fixed predicates.
func (b *builder) where(expr filter.Expression, extra ...string) string {
	parts := make([]string, 0, len(expr.Must())+1+len(extra))
	for _, c := range expr.Must() {
		parts = append(parts, b.condition(c))
	}
	if should := expr.Should(); len(should) > 0 {
		alts := make([]string, 0, len(should))
		for _, c := range should {
			alts = append(alts, b.condition(c))
		}
		parts = append(parts, "("+strings.Join(alts, " OR ")+")")
	}
	parts = append(parts, extra...)
	if len(parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

func (b *builder) condition(c filter.Condition) string {
	f := c.Field()
	switch {
	case c.IsContains():
		pattern := b.arg("%" + likeEscaper.Replace(c.Text()) + "%")
		if f.Kind() == field.TextList {
			return fmt.Sprintf(
				`EXISTS (SELECT 1 FROM jsonb_array_elements_text(%s) AS e(v) WHERE e.v ILIKE %s ESCAPE '\')`,
				listExpr(f), pattern)
		}
		return fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, textExpr(f), pattern)
	case c.IsRange():
		return b.rangeCondition(numberExpr(f), *c.Range())
	case c.IsFlag():
		return fmt.Sprintf("(doc->>'%s')::boolean = %s", f.Name(), b.arg(c.Flag()))
	}
	return "FALSE"
}

func (b *builder) rangeCondition(col string, r filter.Range) string {
	var parts []string
	if r.GT() != nil {
		parts = append(parts, col+" > "+b.arg(*r.GT()))
	} else if r.GTE() != nil {
		parts = append(parts, col+" >= "+b.arg(*r.GTE()))
	}
	if r.LT() != nil {
		parts = append(parts, col+" < "+b.arg(*r.LT()))
	} else if r.LTE() != nil {
		parts = append(parts, col+" <= "+b.arg(*r.LTE()))
	}
	if len(parts) == 0 {
		return "TRUE"
	}
	return strings.Join(parts, " AND ")
}

func buildFind(table string, q *db.FindQuery) (string, []any) {
	var b builder
	var sb strings.Builder
	sb.WriteString("SELECT id, doc FROM ")
	sb.WriteString(table)
	sb.WriteString(b.where(q.Filter))
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy(q.Sort))
	if q.Offset > 0 {
		sb.WriteString(" OFFSET " + b.arg(q.Offset))
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT " + b.arg(q.Limit))
	}
	return sb.String(), b.args
}

func buildCount(table string, q *db.CountQuery) (string, []any) {
	var b builder
	return "SELECT count(*) FROM " + table + b.where(q.Filter), b.args
}

func buildGroupCount(table string, q *db.GroupQuery) (string, []any, error) {
	if q.Field.Kind() != field.Text {
		return "", nil, fmt.Errorf("group count on non-text field %q", q.Field)
	}
	var b builder
	col := textExpr(q.Field)
	sql := "SELECT " + col + ` COLLATE "C" AS v, count(*) AS n FROM ` + table +
		b.where(q.Filter, col+" <> ''") +
		" GROUP BY 1 ORDER BY n DESC, v ASC"
	if q.Limit > 0 {
		sql += " LIMIT " + b.arg(q.Limit)
	}
	return sql, b.args, nil
}

func buildStats(table string, q *db.StatsQuery) (string, []any, error) {
	if q.Field.Kind() != field.Numeric {
		return "", nil, fmt.Errorf("stats on non-numeric field %q", q.Field)
	}
	var b builder
	sql := "SELECT count(x), coalesce(min(x), 0), coalesce(max(x), 0), coalesce(avg(x), 0) FROM (" +
		"SELECT " + numberExpr(q.Field) + " AS x FROM " + table + b.where(q.Filter) + ") s"
	return sql, b.args, nil
}

func buildDistinct(table string, q *db.DistinctQuery) (string, []any, error) {
	var b builder
	switch q.Field.Kind() {
	case field.Text:
		col := textExpr(q.Field)
		return "SELECT DISTINCT " + col + ` COLLATE "C" AS v FROM ` + table +
			b.where(q.Filter, col+" <> ''") +
			" ORDER BY v", b.args, nil
	case field.TextList:
		return `SELECT DISTINCT e.v COLLATE "C" AS v FROM ` + table +
			", jsonb_array_elements_text(" + listExpr(q.Field) + ") AS e(v)" +
			b.where(q.Filter, "e.v <> ''") +
			" ORDER BY v", b.args, nil
	}
	return "", nil, fmt.Errorf("distinct on non-text field %q", q.Field)
}

// orderBy renders sort orders with nulls placed like missing attributes in
// the other stores: first when ascending, last when descending.
func orderBy(orders sortby.Orders) string {
	parts := make([]string, 0, len(orders)+1)
	for _, o := range orders {
		var col string
		switch o.Field.Kind() {
		case field.Numeric:
			col = numberExpr(o.Field)
		default:
			col = textExpr(o.Field) + ` COLLATE "C"`
		}
		if o.Direction == sortby.Desc {
			parts = append(parts, col+" DESC NULLS LAST")
		} else {
			parts = append(parts, col+" ASC NULLS FIRST")
		}
	}
	parts = append(parts, `id COLLATE "C" ASC`)
	return strings.Join(parts, ", ")
}

func textExpr(f field.Field) string {
	if f == field.ID {
		return "id"
	}
	return "(doc->>'" + f.Name() + "')"
}

func listExpr(f field.Field) string {
	return "COALESCE(doc->'" + f.Name() + "', '[]'::jsonb)"
}

func numberExpr(f field.Field) string {
	return "(doc->>'" + f.Name() + "')::double precision"
}

func quote(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

var likeEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)
