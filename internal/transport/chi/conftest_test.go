package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/showroom/internal/db"
	"github.com/kailas-cloud/showroom/internal/db/memory"
	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
	productrepo "github.com/kailas-cloud/showroom/internal/repository/product"
	searchrepo "github.com/kailas-cloud/showroom/internal/repository/search"
	batchuc "github.com/kailas-cloud/showroom/internal/usecase/batch"
	categoryuc "github.com/kailas-cloud/showroom/internal/usecase/category"
	healthuc "github.com/kailas-cloud/showroom/internal/usecase/health"
	productuc "github.com/kailas-cloud/showroom/internal/usecase/product"
	searchuc "github.com/kailas-cloud/showroom/internal/usecase/search"
)

const testAPIKey = "secret"

// brokenStore is a memory store whose count query fails.
type brokenStore struct {
	*memory.Store
}

func (b *brokenStore) Count(context.Context, *db.CountQuery) (int, error) {
	return 0, errors.New("index unavailable")
}

// catalog holds 10 in-stock ceramic tiles priced 50-70, 2 marble tiles and one sold-out granite.
func catalog() []domproduct.Product {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := []float64{62, 50, 58, 70, 54, 66, 52, 60, 64, 56}
	var out []domproduct.Product
	add := func(p domproduct.Product) {
		p.Size, p.Finish, p.Reviews = "24x24", "Matte", len(out)
		p.Normalize(base.Add(time.Duration(len(out)) * time.Hour))
		out = append(out, p)
	}
	for i, price := range prices {
		add(domproduct.Product{
			ID: fmt.Sprintf("c%02d", i), Name: fmt.Sprintf("Ceramic %c", 'A'+i),
			Category: domproduct.Ceramic, Price: price, Rating: 4.0, InStock: true,
		})
	}
	add(domproduct.Product{ID: "m1", Name: "Marble White", Category: domproduct.Marble, Price: 120, Rating: 4.8, InStock: true})
	add(domproduct.Product{ID: "m2", Name: "Statuario Marble", Category: domproduct.Marble, Price: 150, Rating: 4.6, InStock: true})
	add(domproduct.Product{ID: "g1", Name: "Sold Out Granite", Category: domproduct.Granite, Price: 80, Rating: 5, InStock: false})
	return out
}

type testEnv struct {
	store   *memory.Store
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	return newTestEnvWithStore(t, store, store)
}

func newTestEnvWithStore(t *testing.T, store *memory.Store, reads interface {
	searchStore
	Ping(ctx context.Context) error
}) *testEnv {
	t.Helper()
	products := productrepo.New(store)
	if err := products.UpsertMany(context.Background(), catalog()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	search := searchrepo.New(reads)

	server := NewServer(
		searchuc.New(search, searchuc.NewFacetCalculator(search), searchuc.NewSuggestionEngine(search, 0, 0), nil),
		productuc.New(products, search),
		categoryuc.New(search),
		batchuc.New(products, products).WithMaxBatchSize(3),
		healthuc.New(reads, search),
		zap.NewNop(),
	).WithPagination(12, 100)

	return &testEnv{store: store, handler: NewRouter(server, zap.NewNop(), []string{testAPIKey})}
}

// searchStore is the read side the search repository consumes.
type searchStore interface {
	Find(ctx context.Context, q *db.FindQuery) ([]db.Document, error)
	Count(ctx context.Context, q *db.CountQuery) (int, error)
	GroupCount(ctx context.Context, q *db.GroupQuery) ([]db.Bucket, error)
	Stats(ctx context.Context, q *db.StatsQuery) (db.Stats, error)
	Distinct(ctx context.Context, q *db.DistinctQuery) ([]string, error)
}

func (e *testEnv) do(t *testing.T, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}
