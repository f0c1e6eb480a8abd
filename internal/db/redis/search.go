package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/showroom/internal/db"
	"github.com/kailas-cloud/showroom/internal/domain/product/field"
)

// maxAggregateRows bounds FT.AGGREGATE pipelines that have no caller limit.
const maxAggregateRows = 10000

// Find returns sorted, paginated product documents via FT.AGGREGATE.
func (s *Store) Find(ctx context.Context, q *db.FindQuery) ([]db.Document, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = maxAggregateRows
	}

	args := []string{s.index, buildQuery(q.Filter), "LOAD", "6", "$", "AS", "doc", "$._id", "AS", "id"}
	args = append(args, buildSortArgs(q.Sort)...)
	args = append(args,
		"LIMIT", strconv.Itoa(max(q.Offset, 0)), strconv.Itoa(limit),
		"DIALECT", "2",
	)

	rows, err := s.aggregate(ctx, args)
	if err != nil {
		return nil, err
	}

	docs := make([]db.Document, 0, len(rows))
	for _, row := range rows {
		data, ok := row["doc"]
		if !ok {
			continue
		}
		docs = append(docs, db.Document{ID: row["id"], Data: []byte(data)})
	}
	return docs, nil
}

// Count returns the number of matching documents via FT.SEARCH with LIMIT 0 0.
func (s *Store) Count(ctx context.Context, q *db.CountQuery) (int, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").
		Args(s.index, buildQuery(q.Filter), "LIMIT", "0", "0", "DIALECT", "2").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, s.wrapErr(db.OpSearch, err)
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// GroupCount counts matches per value of a tag attribute.
func (s *Store) GroupCount(ctx context.Context, q *db.GroupQuery) ([]db.Bucket, error) {
	if q.Field.Kind() != field.Text {
		return nil, fmt.Errorf("group count on non-text field %q", q.Field)
	}
	prop := "@" + alias(q.Field)
	args := []string{
		s.index, buildQuery(q.Filter),
		"GROUPBY", "1", prop,
		"REDUCE", "COUNT", "0", "AS", "count",
		"SORTBY", "4", "@count", "DESC", prop, "ASC",
	}
	limit := q.Limit
	if limit <= 0 {
		limit = maxAggregateRows
	}
	args = append(args, "LIMIT", "0", strconv.Itoa(limit), "DIALECT", "2")

	rows, err := s.aggregate(ctx, args)
	if err != nil {
		return nil, err
	}

	buckets := make([]db.Bucket, 0, len(rows))
	for _, row := range rows {
		value, ok := row[alias(q.Field)]
		if !ok || value == "" {
			continue
		}
		n, err := strconv.Atoi(row["count"])
		if err != nil {
			return nil, fmt.Errorf("parse group count: %w", err)
		}
		buckets = append(buckets, db.Bucket{Value: value, Count: n})
	}
	return buckets, nil
}

// Stats computes min/max/avg of a numeric attribute in a single GROUPBY 0 pass.
func (s *Store) Stats(ctx context.Context, q *db.StatsQuery) (db.Stats, error) {
	if q.Field.Kind() != field.Numeric {
		return db.Stats{}, fmt.Errorf("stats on non-numeric field %q", q.Field)
	}
	prop := "@" + alias(q.Field)
	args := []string{
		s.index, buildQuery(q.Filter),
		"GROUPBY", "0",
		"REDUCE", "COUNT", "0", "AS", "count",
		"REDUCE", "MIN", "1", prop, "AS", "min",
		"REDUCE", "MAX", "1", prop, "AS", "max",
		"REDUCE", "AVG", "1", prop, "AS", "avg",
		"DIALECT", "2",
	}

	rows, err := s.aggregate(ctx, args)
	if err != nil {
		return db.Stats{}, err
	}
	if len(rows) == 0 {
		return db.Stats{}, nil
	}
	return parseStatsRow(rows[0])
}

// Distinct loads the attribute from every match and deduplicates in process.
// Matches are read in id order, aggregatePage rows per round trip, until a
// short page. List attributes arrive as JSON arrays.
func (s *Store) Distinct(ctx context.Context, q *db.DistinctQuery) ([]string, error) {
	if q.Field.Kind() != field.Text && q.Field.Kind() != field.TextList {
		return nil, fmt.Errorf("distinct on non-text field %q", q.Field)
	}
	query := buildQuery(q.Filter)
	seen := make(map[string]struct{})

	for offset := 0; ; offset += s.aggregatePage {
		args := []string{
			s.index, query,
			"LOAD", "3", "$." + q.Field.Name(), "AS", "v",
			"SORTBY", "2", "@pid", "ASC",
			"LIMIT", strconv.Itoa(offset), strconv.Itoa(s.aggregatePage),
			"DIALECT", "2",
		}
		rows, err := s.aggregate(ctx, args)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			for _, v := range decodeValues(row["v"]) {
				if v != "" {
					seen[v] = struct{}{}
				}
			}
		}
		if len(rows) < s.aggregatePage {
			break
		}
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) aggregate(ctx context.Context, args []string) ([]map[string]string, error) {
	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, s.wrapErr(db.OpAggregate, err)
	}
	return parseAggregateResult(raw), nil
}

func (s *Store) wrapErr(op string, err error) error {
	if isRedisErr(err, "no such index") || isRedisErr(err, "unknown index name") {
		return fmt.Errorf("%s: %w", s.index, db.ErrIndexNotFound)
	}
	return &db.Error{Op: op, Err: err}
}

// --- Result parsing ---

// parseAggregateResult reads RESP2 FT.AGGREGATE output: [total, row1, row2, ...]
// where every row is a flat field/value array.
func parseAggregateResult(raw []rueidis.RedisMessage) []map[string]string {
	if len(raw) <= 1 {
		return nil
	}
	rows := make([]map[string]string, 0, len(raw)-1)
	for _, msg := range raw[1:] {
		fields, err := msg.ToArray()
		if err != nil {
			continue
		}
		rows = append(rows, parseFieldPairs(fields))
	}
	return rows
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

func parseStatsRow(row map[string]string) (db.Stats, error) {
	count, err := strconv.Atoi(row["count"])
	if err != nil || count == 0 || row["min"] == "" {
		return db.Stats{}, nil //nolint:nilerr // an empty group carries no numbers
	}
	var st db.Stats
	st.Count = count
	for name, dst := range map[string]*float64{"min": &st.Min, "max": &st.Max, "avg": &st.Avg} {
		v, err := strconv.ParseFloat(row[name], 64)
		if err != nil {
			return db.Stats{}, fmt.Errorf("parse %s: %w", name, err)
		}
		*dst = v
	}
	return st, nil
}

// decodeValues accepts a plain string, a JSON string or a JSON array of strings.
func decodeValues(raw string) []string {
	if raw == "" {
		return nil
	}
	switch raw[0] {
	case '[':
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return list
		}
		var nested [][]string
		if err := json.Unmarshal([]byte(raw), &nested); err == nil && len(nested) > 0 {
			return nested[0]
		}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return []string{s}
		}
	}
	return []string{raw}
}
