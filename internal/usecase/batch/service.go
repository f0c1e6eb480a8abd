package batch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/showroom/internal/domain"
	dombatch "github.com/kailas-cloud/showroom/internal/domain/batch"
	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
	"github.com/kailas-cloud/showroom/internal/logger"
	"github.com/kailas-cloud/showroom/internal/metrics"
)

// MaxBatchSize is the maximum number of products per import request.
const MaxBatchSize = 100

// Service imports products with per-item error reporting.
type Service struct {
	products     ProductUpserter
	bulk         BulkUpserter
	maxBatchSize int
	now          func() time.Time
	newID        func() string
}

// New creates a batch service.
func New(products ProductUpserter, bulk BulkUpserter) *Service {
	return &Service{
		products:     products,
		bulk:         bulk,
		maxBatchSize: MaxBatchSize,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// MaxBatchSize returns the configured request limit.
func (s *Service) MaxBatchSize() int { return s.maxBatchSize }

// Import validates and upserts products one by one so each result reports
// whether the product was created or replaced. Invalid items fail alone.
// A batch above the limit is rejected whole with domain.ErrBatchTooLarge.
func (s *Service) Import(ctx context.Context, items []domproduct.Product) ([]dombatch.Result, error) {
	if len(items) > s.maxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds %d: %w", len(items), s.maxBatchSize, domain.ErrBatchTooLarge)
	}

	results := make([]dombatch.Result, len(items))
	for i := range items {
		item := &items[i]
		if err := s.prepare(item); err != nil {
			results[i] = dombatch.NewError(item.ID, err)
			continue
		}
		created, err := s.products.Upsert(ctx, item)
		if err != nil {
			results[i] = dombatch.NewError(item.ID, fmt.Errorf("upsert: %w", err))
			continue
		}
		results[i] = dombatch.NewOK(item.ID, created)
	}

	record(results)
	return results, nil
}

// Seed loads a full catalog in chunks of the batch size through bulk writes.
// Invalid products are logged and skipped; a store failure aborts the load.
// Returns the number of stored products.
func (s *Service) Seed(ctx context.Context, items []domproduct.Product) (int, error) {
	log := logger.FromContext(ctx)

	valid := make([]domproduct.Product, 0, len(items))
	for i := range items {
		if err := s.prepare(&items[i]); err != nil {
			log.Warn("skipping invalid seed product",
				zap.Int("index", i),
				zap.String("name", items[i].Name),
				zap.Error(err),
			)
			metrics.CatalogImportTotal.WithLabelValues(string(dombatch.StatusError)).Inc()
			continue
		}
		valid = append(valid, items[i])
	}

	stored := 0
	for start := 0; start < len(valid); start += s.maxBatchSize {
		end := min(start+s.maxBatchSize, len(valid))
		if err := s.bulk.UpsertMany(ctx, valid[start:end]); err != nil {
			return stored, fmt.Errorf("seed products %d-%d: %w", start, end, err)
		}
		stored += end - start
	}
	metrics.CatalogImportTotal.WithLabelValues("seeded").Add(float64(stored))
	return stored, nil
}

// prepare assigns a missing id, fills defaults and validates the product.
func (s *Service) prepare(p *domproduct.Product) error {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		p.ID = s.newID()
	}
	p.Normalize(s.now())
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidProduct, err)
	}
	return nil
}

func record(results []dombatch.Result) {
	for _, r := range results {
		metrics.CatalogImportTotal.WithLabelValues(string(r.Status())).Inc()
	}
}
