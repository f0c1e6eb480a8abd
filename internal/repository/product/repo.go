package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/showroom/internal/db"
	"github.com/kailas-cloud/showroom/internal/domain"
	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
)

// store is the consumer interface for product documents (ISP).
type store interface {
	Put(ctx context.Context, doc db.Document) (bool, error)
	PutMulti(ctx context.Context, docs []db.Document) error
	Get(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

// Repo implements the product read/write repositories of the use cases.
type Repo struct {
	store store
}

// New creates a product repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Upsert creates or replaces a product. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, p *domproduct.Product) (bool, error) {
	doc, err := Encode(p)
	if err != nil {
		return false, err
	}
	created, err := r.store.Put(ctx, doc)
	if err != nil {
		return false, fmt.Errorf("put product %s: %w", p.ID, err)
	}
	return created, nil
}

// UpsertMany stores products in one store round trip.
func (r *Repo) UpsertMany(ctx context.Context, products []domproduct.Product) error {
	docs := make([]db.Document, 0, len(products))
	for i := range products {
		doc, err := Encode(&products[i])
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	if err := r.store.PutMulti(ctx, docs); err != nil {
		return fmt.Errorf("put %d products: %w", len(docs), err)
	}
	return nil
}

// Get returns a product by id.
func (r *Repo) Get(ctx context.Context, id string) (domproduct.Product, error) {
	raw, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domproduct.Product{}, domain.ErrProductNotFound
		}
		return domproduct.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	p, err := Decode(raw)
	if err != nil {
		return domproduct.Product{}, err
	}
	if p.ID == "" {
		p.ID = id
	}
	return p, nil
}

// Delete removes a product.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}
