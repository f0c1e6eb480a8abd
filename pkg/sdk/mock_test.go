package showroom

import (
	"context"

	dombatch "github.com/kailas-cloud/showroom/internal/domain/batch"
	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
	"github.com/kailas-cloud/showroom/internal/domain/search/request"
	"github.com/kailas-cloud/showroom/internal/domain/search/result"
	categoryuc "github.com/kailas-cloud/showroom/internal/usecase/category"
	healthuc "github.com/kailas-cloud/showroom/internal/usecase/health"
	productuc "github.com/kailas-cloud/showroom/internal/usecase/product"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn       func(ctx context.Context, req *request.Request) (result.Result, error)
	suggestFn      func(ctx context.Context, q string) ([]string, error)
	autocompleteFn func(ctx context.Context, q string) ([]result.AutocompleteItem, error)
	popular        []string
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.Request) (result.Result, error) {
	return m.searchFn(ctx, req)
}

func (m *mockSearchUC) Suggest(ctx context.Context, q string) ([]string, error) {
	return m.suggestFn(ctx, q)
}

func (m *mockSearchUC) Autocomplete(ctx context.Context, q string) ([]result.AutocompleteItem, error) {
	return m.autocompleteFn(ctx, q)
}

func (m *mockSearchUC) Popular() []string { return m.popular }

// --- productUseCase mock ---

type mockProductUC struct {
	getFn             func(ctx context.Context, id string) (domproduct.Product, error)
	featuredFn        func(ctx context.Context, limit int) ([]domproduct.Product, error)
	byCategoryFn      func(ctx context.Context, category string) ([]domproduct.Product, error)
	recommendationsFn func(ctx context.Context, id string) ([]domproduct.Product, error)
	listFn            func(ctx context.Context, p productuc.ListParams) (productuc.Listing, error)
	deleteFn          func(ctx context.Context, id string) error
}

func (m *mockProductUC) Get(ctx context.Context, id string) (domproduct.Product, error) {
	return m.getFn(ctx, id)
}

func (m *mockProductUC) Featured(ctx context.Context, limit int) ([]domproduct.Product, error) {
	return m.featuredFn(ctx, limit)
}

func (m *mockProductUC) ByCategory(ctx context.Context, category string) ([]domproduct.Product, error) {
	return m.byCategoryFn(ctx, category)
}

func (m *mockProductUC) Recommendations(ctx context.Context, id string) ([]domproduct.Product, error) {
	return m.recommendationsFn(ctx, id)
}

func (m *mockProductUC) List(ctx context.Context, p productuc.ListParams) (productuc.Listing, error) {
	return m.listFn(ctx, p)
}

func (m *mockProductUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

// --- categoryUseCase mock ---

type mockCategoryUC struct {
	summaries  []categoryuc.Summary
	popularity []categoryuc.Popularity
	detailsFn  func(ctx context.Context, p categoryuc.DetailsParams) (categoryuc.Details, error)
	err        error
}

func (m *mockCategoryUC) List(context.Context) ([]categoryuc.Summary, error) {
	return m.summaries, m.err
}

func (m *mockCategoryUC) Popular(context.Context) ([]categoryuc.Popularity, error) {
	return m.popularity, m.err
}

func (m *mockCategoryUC) Details(ctx context.Context, p categoryuc.DetailsParams) (categoryuc.Details, error) {
	return m.detailsFn(ctx, p)
}

// --- batchUseCase mock ---

type mockBatchUC struct {
	importFn func(ctx context.Context, items []domproduct.Product) ([]dombatch.Result, error)
	seedFn   func(ctx context.Context, items []domproduct.Product) (int, error)
}

func (m *mockBatchUC) Import(ctx context.Context, items []domproduct.Product) ([]dombatch.Result, error) {
	return m.importFn(ctx, items)
}

func (m *mockBatchUC) Seed(ctx context.Context, items []domproduct.Product) (int, error) {
	return m.seedFn(ctx, items)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(search searchUseCase, products productUseCase, batch batchUseCase) *Client {
	return &Client{
		search:   search,
		products: products,
		batch:    batch,
	}
}
