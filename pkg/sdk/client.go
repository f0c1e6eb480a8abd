package showroom

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/showroom/internal/db"
	"github.com/kailas-cloud/showroom/internal/db/memory"
	dbPostgres "github.com/kailas-cloud/showroom/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/showroom/internal/db/redis"
	dombatch "github.com/kailas-cloud/showroom/internal/domain/batch"
	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
	"github.com/kailas-cloud/showroom/internal/domain/search/request"
	"github.com/kailas-cloud/showroom/internal/domain/search/result"
	productrepo "github.com/kailas-cloud/showroom/internal/repository/product"
	searchrepo "github.com/kailas-cloud/showroom/internal/repository/search"
	batchuc "github.com/kailas-cloud/showroom/internal/usecase/batch"
	categoryuc "github.com/kailas-cloud/showroom/internal/usecase/category"
	healthuc "github.com/kailas-cloud/showroom/internal/usecase/health"
	productuc "github.com/kailas-cloud/showroom/internal/usecase/product"
	searchuc "github.com/kailas-cloud/showroom/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Внутренние интерфейсы для подмены в тестах.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (result.Result, error)
	Suggest(ctx context.Context, q string) ([]string, error)
	Autocomplete(ctx context.Context, q string) ([]result.AutocompleteItem, error)
	Popular() []string
}

type productUseCase interface {
	Get(ctx context.Context, id string) (domproduct.Product, error)
	Featured(ctx context.Context, limit int) ([]domproduct.Product, error)
	ByCategory(ctx context.Context, category string) ([]domproduct.Product, error)
	Recommendations(ctx context.Context, id string) ([]domproduct.Product, error)
	List(ctx context.Context, p productuc.ListParams) (productuc.Listing, error)
	Delete(ctx context.Context, id string) error
}

type categoryUseCase interface {
	List(ctx context.Context) ([]categoryuc.Summary, error)
	Popular(ctx context.Context) ([]categoryuc.Popularity, error)
	Details(ctx context.Context, p categoryuc.DetailsParams) (categoryuc.Details, error)
}

type batchUseCase interface {
	Import(ctx context.Context, items []domproduct.Product) ([]dombatch.Result, error)
	Seed(ctx context.Context, items []domproduct.Product) (int, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the showroom SDK entry point. It is safe for concurrent use.
type Client struct {
	store       db.Store
	search      searchUseCase
	products    productUseCase
	categories  categoryUseCase
	batch       batchUseCase
	health      healthUseCase
	maxPageSize int
	obs         *observer
}

// New creates a Client, connects to the store and prepares its schema.
// The provided context is used for the readiness check and the optional seed.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("showroom: database not ready: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("showroom: ensure schema: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c := wireClient(store, cfg, obs)
	if len(cfg.seed) > 0 {
		if _, err := c.batch.Seed(ctx, cfg.seed); err != nil {
			store.Close()
			return nil, fmt.Errorf("showroom: seed: %w", err)
		}
	}
	return c, nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverMemory:
		return memory.NewStore(), nil
	case driverRedis:
		if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
			return nil, errors.New("showroom: redis address required")
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.addrs,
			Password:  cfg.password,
			IndexName: cfg.indexName,
		})
		if err != nil {
			return nil, fmt.Errorf("showroom: create redis store: %w", err)
		}
		return s, nil
	case driverPostgres:
		if cfg.url == "" {
			return nil, errors.New("showroom: postgres url required")
		}
		s, err := dbPostgres.NewStore(ctx, dbPostgres.Config{URL: cfg.url, Table: cfg.indexName})
		if err != nil {
			return nil, fmt.Errorf("showroom: create postgres store: %w", err)
		}
		return s, nil
	case "":
		return nil, errors.New("showroom: store required (use WithMemory, WithRedis or WithPostgres)")
	default:
		return nil, fmt.Errorf("showroom: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	productRepo := productrepo.New(store)
	searchRepo := searchrepo.New(store)

	suggestions := searchuc.NewSuggestionEngine(searchRepo, 0, 0)
	searchSvc := searchuc.New(searchRepo, searchuc.NewFacetCalculator(searchRepo), suggestions, cfg.popular)

	productSvc := productuc.New(productRepo, searchRepo).WithMaxLimit(cfg.maxPageSize)
	categorySvc := categoryuc.New(searchRepo).WithMaxPageSize(cfg.maxPageSize)

	batchSvc := batchuc.New(productRepo, productRepo)
	if cfg.maxBatchSize > 0 {
		batchSvc = batchSvc.WithMaxBatchSize(cfg.maxBatchSize)
	}

	return &Client{
		store:       store,
		search:      searchSvc,
		products:    productSvc,
		categories:  categorySvc,
		batch:       batchSvc,
		health:      healthuc.New(store, searchRepo),
		maxPageSize: cfg.maxPageSize,
		obs:         obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
