package product

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/showroom/internal/db"
	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	putFn      func(ctx context.Context, doc db.Document) (bool, error)
	putMultiFn func(ctx context.Context, docs []db.Document) error
	getFn      func(ctx context.Context, id string) ([]byte, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockStore) Put(ctx context.Context, doc db.Document) (bool, error) {
	if m.putFn != nil {
		return m.putFn(ctx, doc)
	}
	return true, nil
}

func (m *mockStore) PutMulti(ctx context.Context, docs []db.Document) error {
	if m.putMultiFn != nil {
		return m.putMultiFn(ctx, docs)
	}
	return nil
}

func (m *mockStore) Get(ctx context.Context, id string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testProduct(t *testing.T) domproduct.Product {
	t.Helper()
	p := domproduct.Product{
		ID:       "tile-1",
		Name:     "Carrara White",
		Category: domproduct.Marble,
		Tags:     []string{"bathroom", "luxury"},
		Price:    120,
		Rating:   4.7,
		Reviews:  18,
		Size:     "24x24",
		Finish:   "Polished",
		InStock:  true,
	}
	p.Normalize(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	return p
}
