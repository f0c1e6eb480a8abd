package product

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/showroom/internal/db"
	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
)

// storedProduct is the persisted shape: the wire document plus a numeric
// creation timestamp that every store can range over and sort by.
type storedProduct struct {
	domproduct.Product
	CreatedTS int64 `json:"__created_ts"`
}

// Encode converts a product into a store document.
func Encode(p *domproduct.Product) (db.Document, error) {
	data, err := json.Marshal(storedProduct{Product: *p, CreatedTS: p.CreatedAt.UnixMilli()})
	if err != nil {
		return db.Document{}, fmt.Errorf("marshal product %s: %w", p.ID, err)
	}
	return db.Document{ID: p.ID, Data: data}, nil
}

// Decode parses a stored document; the storage-only timestamp is dropped.
func Decode(data []byte) (domproduct.Product, error) {
	var sp storedProduct
	if err := json.Unmarshal(data, &sp); err != nil {
		return domproduct.Product{}, fmt.Errorf("unmarshal product: %w", err)
	}
	return sp.Product, nil
}

// DecodeAll parses documents in order.
func DecodeAll(docs []db.Document) ([]domproduct.Product, error) {
	out := make([]domproduct.Product, 0, len(docs))
	for _, d := range docs {
		p, err := Decode(d.Data)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", d.ID, err)
		}
		if p.ID == "" {
			p.ID = d.ID
		}
		out = append(out, p)
	}
	return out, nil
}
