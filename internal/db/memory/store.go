// Package memory is an in-process Catalog Store. It evaluates filter expressions
// directly over decoded JSON documents and backs local development and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kailas-cloud/showroom/internal/db"
	"github.com/kailas-cloud/showroom/internal/domain/product/field"
	"github.com/kailas-cloud/showroom/internal/domain/search/filter"
	"github.com/kailas-cloud/showroom/internal/domain/search/sortby"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type entry struct {
	id    string
	raw   []byte
	attrs map[string]any
}

// Store keeps documents in a map guarded by a RWMutex.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*entry
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{docs: make(map[string]*entry)}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// EnsureSchema is a no-op: expressions are evaluated without indexes.
func (s *Store) EnsureSchema(_ context.Context) error { return nil }

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Put stores a document.
func (s *Store) Put(_ context.Context, doc db.Document) (bool, error) {
	e, err := decode(doc)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.docs[doc.ID]
	s.docs[doc.ID] = e
	return !exists, nil
}

// PutMulti stores documents atomically: either all decode and are stored or none are.
func (s *Store) PutMulti(_ context.Context, docs []db.Document) error {
	entries := make([]*entry, 0, len(docs))
	for _, d := range docs {
		e, err := decode(d)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.docs[e.id] = e
	}
	return nil
}

// Get returns the stored JSON document.
func (s *Store) Get(_ context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.docs[id]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	out := make([]byte, len(e.raw))
	copy(out, e.raw)
	return out, nil
}

// Delete removes a document.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return db.ErrKeyNotFound
	}
	delete(s.docs, id)
	return nil
}

// Find returns matching documents sorted by q.Sort then id, sliced by offset/limit.
// Limit <= 0 returns every document after the offset.
func (s *Store) Find(_ context.Context, q *db.FindQuery) ([]db.Document, error) {
	matches := s.match(q.Filter)
	sortEntries(matches, q.Sort)

	offset := max(q.Offset, 0)
	if offset >= len(matches) {
		return []db.Document{}, nil
	}
	matches = matches[offset:]
	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}

	out := make([]db.Document, len(matches))
	for i, e := range matches {
		raw := make([]byte, len(e.raw))
		copy(raw, e.raw)
		out[i] = db.Document{ID: e.id, Data: raw}
	}
	return out, nil
}

// Count returns the number of matching documents.
func (s *Store) Count(_ context.Context, q *db.CountQuery) (int, error) {
	return len(s.match(q.Filter)), nil
}

// GroupCount counts matches per value of a text or list field.
func (s *Store) GroupCount(_ context.Context, q *db.GroupQuery) ([]db.Bucket, error) {
	if err := requireTextual(q.Field); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, e := range s.match(q.Filter) {
		for _, v := range textValues(e.attrs, q.Field) {
			counts[v]++
		}
	}
	buckets := make([]db.Bucket, 0, len(counts))
	for v, n := range counts {
		buckets = append(buckets, db.Bucket{Value: v, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Value < buckets[j].Value
	})
	if q.Limit > 0 && len(buckets) > q.Limit {
		buckets = buckets[:q.Limit]
	}
	return buckets, nil
}

// Stats summarizes a numeric field over matches that carry it.
func (s *Store) Stats(_ context.Context, q *db.StatsQuery) (db.Stats, error) {
	if q.Field.Kind() != field.Numeric {
		return db.Stats{}, fmt.Errorf("stats on non-numeric field %q", q.Field)
	}
	var st db.Stats
	var sum float64
	for _, e := range s.match(q.Filter) {
		v, ok := numberValue(e.attrs, q.Field)
		if !ok {
			continue
		}
		if st.Count == 0 || v < st.Min {
			st.Min = v
		}
		if st.Count == 0 || v > st.Max {
			st.Max = v
		}
		sum += v
		st.Count++
	}
	if st.Count > 0 {
		st.Avg = sum / float64(st.Count)
	}
	return st, nil
}

// Distinct returns distinct non-empty values of a text or list field, ascending.
func (s *Store) Distinct(_ context.Context, q *db.DistinctQuery) ([]string, error) {
	if err := requireTextual(q.Field); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, e := range s.match(q.Filter) {
		for _, v := range textValues(e.attrs, q.Field) {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) match(expr filter.Expression) []*entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entry, 0, len(s.docs))
	for _, e := range s.docs {
		if Matches(e.attrs, expr) {
			out = append(out, e)
		}
	}
	return out
}

func decode(doc db.Document) (*entry, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("document id is required")
	}
	var attrs map[string]any
	if err := json.Unmarshal(doc.Data, &attrs); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	raw := make([]byte, len(doc.Data))
	copy(raw, doc.Data)
	return &entry{id: doc.ID, raw: raw, attrs: attrs}, nil
}

func requireTextual(f field.Field) error {
	if f.Kind() != field.Text && f.Kind() != field.TextList {
		return fmt.Errorf("field %q is not textual", f)
	}
	return nil
}

func sortEntries(entries []*entry, orders sortby.Orders) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		for _, o := range orders {
			c := compareField(a.attrs, b.attrs, o.Field)
			if c == 0 {
				continue
			}
			if o.Direction == sortby.Desc {
				return c > 0
			}
			return c < 0
		}
		return a.id < b.id
	})
}

// compareField orders missing values before present ones, like a document store does for nulls.
func compareField(a, b map[string]any, f field.Field) int {
	if f.Kind() == field.Numeric {
		av, aok := numberValue(a, f)
		bv, bok := numberValue(b, f)
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return -1
		case !bok:
			return 1
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	}
	as, _ := a[f.Name()].(string)
	bs, _ := b[f.Name()].(string)
	return strings.Compare(as, bs)
}
