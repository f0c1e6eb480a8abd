package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kailas-cloud/showroom/internal/db/memory"
	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
	"github.com/kailas-cloud/showroom/internal/domain/search/request"
	"github.com/kailas-cloud/showroom/internal/domain/search/result"
	productrepo "github.com/kailas-cloud/showroom/internal/repository/product"
	searchrepo "github.com/kailas-cloud/showroom/internal/repository/search"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func floatPtr(f float64) *float64 { return &f }

// tile builds an in-stock product; i offsets createdAt so newest ordering is defined.
func tile(i int, name string, cat domproduct.Category, price, rating float64) domproduct.Product {
	p := domproduct.Product{
		ID:       fmt.Sprintf("p%02d", i),
		Name:     name,
		Category: cat,
		Price:    price,
		Rating:   rating,
		Reviews:  i,
		Size:     "24x24",
		Finish:   "Matte",
		InStock:  true,
	}
	p.Normalize(baseTime.Add(time.Duration(i) * time.Hour))
	return p
}

// ceramicMarbleCatalog holds 10 ceramic tiles priced 50-70 and 2 marble tiles priced 120-150.
func ceramicMarbleCatalog() []domproduct.Product {
	prices := []float64{62, 50, 58, 70, 54, 66, 52, 60, 64, 56}
	var out []domproduct.Product
	for i, price := range prices {
		p := tile(i, fmt.Sprintf("Ceramic %c", 'A'+i), domproduct.Ceramic, price, 4.0)
		if i%2 == 0 {
			p.Finish = "Glossy"
		}
		out = append(out, p)
	}
	m1 := tile(10, "Marble White", domproduct.Marble, 120, 4.8)
	m1.Tags = []string{"bathroom", "luxury"}
	m1.Size = "48x48"
	m2 := tile(11, "Statuario Marble", domproduct.Marble, 150, 4.6)
	m2.Finish = "Polished"
	m2.Description = "Glazed Italian slab"
	out = append(out, m1, m2)

	soldOut := tile(12, "Sold Out Granite", domproduct.Granite, 80, 5.0)
	soldOut.InStock = false
	return append(out, soldOut)
}

type fixture struct {
	store   *memory.Store
	service *Service
	engine  *SuggestionEngine
}

func newFixture(t *testing.T, products []domproduct.Product) *fixture {
	t.Helper()
	store := memory.NewStore()
	if err := productrepo.New(store).UpsertMany(context.Background(), products); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	repo := searchrepo.New(store)
	engine := NewSuggestionEngine(repo, 0, 0)
	return &fixture{
		store:   store,
		service: New(repo, NewFacetCalculator(repo), engine, nil),
		engine:  engine,
	}
}

func (f *fixture) search(t *testing.T, p request.Params) result.Result {
	t.Helper()
	req := request.New(p, 0)
	res, err := f.service.Search(context.Background(), &req)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	return res
}
