package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/showroom/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	findFn       func(ctx context.Context, q *db.FindQuery) ([]db.Document, error)
	countFn      func(ctx context.Context, q *db.CountQuery) (int, error)
	groupCountFn func(ctx context.Context, q *db.GroupQuery) ([]db.Bucket, error)
	statsFn      func(ctx context.Context, q *db.StatsQuery) (db.Stats, error)
	distinctFn   func(ctx context.Context, q *db.DistinctQuery) ([]string, error)
}

func (m *mockStore) Find(ctx context.Context, q *db.FindQuery) ([]db.Document, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) Count(ctx context.Context, q *db.CountQuery) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, q)
	}
	return 0, nil
}

func (m *mockStore) GroupCount(ctx context.Context, q *db.GroupQuery) ([]db.Bucket, error) {
	if m.groupCountFn != nil {
		return m.groupCountFn(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) Stats(ctx context.Context, q *db.StatsQuery) (db.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, q)
	}
	return db.Stats{}, nil
}

func (m *mockStore) Distinct(ctx context.Context, q *db.DistinctQuery) ([]string, error) {
	if m.distinctFn != nil {
		return m.distinctFn(ctx, q)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}
