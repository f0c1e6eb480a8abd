package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/showroom/internal/domain"
	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
	"github.com/kailas-cloud/showroom/internal/domain/search/request"
	"github.com/kailas-cloud/showroom/internal/logger"
	batchuc "github.com/kailas-cloud/showroom/internal/usecase/batch"
	categoryuc "github.com/kailas-cloud/showroom/internal/usecase/category"
	healthuc "github.com/kailas-cloud/showroom/internal/usecase/health"
	productuc "github.com/kailas-cloud/showroom/internal/usecase/product"
	searchuc "github.com/kailas-cloud/showroom/internal/usecase/search"
)

// maxBodyBytes bounds admin request bodies.
const maxBodyBytes = 8 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the storefront search and product API.
type Server struct {
	search          *searchuc.Service
	products        *productuc.Service
	categories      *categoryuc.Service
	batch           *batchuc.Service
	health          *healthuc.Service
	logger          *zap.Logger
	defaultPageSize int
	maxPageSize     int
	errorHandlers   []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	products *productuc.Service,
	categories *categoryuc.Service,
	batch *batchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:          search,
		products:        products,
		categories:      categories,
		batch:           batch,
		health:          health,
		logger:          logger,
		defaultPageSize: request.DefaultPageSize,
		maxPageSize:     request.MaxPageSize,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrProductNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrInvalidProduct, http.StatusBadRequest),
		sentinelHandler(domain.ErrBatchTooLarge, http.StatusRequestEntityTooLarge),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized),
	}
	return s
}

// WithPagination configures page size limits for search and catalog listings.
func (s *Server) WithPagination(defaultPageSize, maxPageSize int) *Server {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Search handles GET /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	req := request.New(searchParams(r, s.defaultPageSize), s.maxPageSize)

	res, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Autocomplete handles GET /api/search/autocomplete.
func (s *Server) Autocomplete(w http.ResponseWriter, r *http.Request) {
	items, err := s.search.Autocomplete(r.Context(), stringParam(r, paramQuery))
	if err != nil {
		s.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Suggestions handles GET /api/search/suggestions.
func (s *Server) Suggestions(w http.ResponseWriter, r *http.Request) {
	out, err := s.search.Suggest(r.Context(), stringParam(r, paramQuery))
	if err != nil {
		s.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Popular handles GET /api/search/popular.
func (s *Server) Popular(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.search.Popular())
}

// ListProducts handles GET /api/products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, pageSize, sortBy := pageParams(r, s.defaultPageSize)
	out, err := s.products.List(r.Context(), productuc.ListParams{
		Category: stringParam(r, paramCategory),
		Search:   stringParam(r, paramSearch),
		Page:     page,
		PageSize: pageSize,
		SortBy:   sortBy,
	})
	if err != nil {
		s.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GetProduct handles GET /api/products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.products.Get(r.Context(), pathParam(r, "id"))
	if err != nil {
		s.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Recommendations handles GET /api/products/{id}/recommendations.
func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	out, err := s.products.Recommendations(r.Context(), pathParam(r, "id"))
	if err != nil {
		s.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Featured handles GET /api/products/featured.
func (s *Server) Featured(w http.ResponseWriter, r *http.Request) {
	out, err := s.products.Featured(r.Context(), intParam(r, paramLimit))
	if err != nil {
		s.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ByCategory handles GET /api/products/category/{category}.
func (s *Server) ByCategory(w http.ResponseWriter, r *http.Request) {
	out, err := s.products.ByCategory(r.Context(), pathParam(r, "category"))
	if err != nil {
		s.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Categories handles GET /api/categories.
func (s *Server) Categories(w http.ResponseWriter, r *http.Request) {
	out, err := s.categories.List(r.Context())
	if err != nil {
		s.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// PopularCategories handles GET /api/categories/popular.
func (s *Server) PopularCategories(w http.ResponseWriter, r *http.Request) {
	out, err := s.categories.Popular(r.Context())
	if err != nil {
		s.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// CategoryDetails handles GET /api/categories/{category}.
func (s *Server) CategoryDetails(w http.ResponseWriter, r *http.Request) {
	page, pageSize, sortBy := pageParams(r, s.defaultPageSize)
	out, err := s.categories.Details(r.Context(), categoryuc.DetailsParams{
		Category: pathParam(r, "category"),
		Page:     page,
		PageSize: pageSize,
		SortBy:   sortBy,
	})
	if err != nil {
		s.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// BatchImport handles POST /api/admin/products/batch.
func (s *Server) BatchImport(w http.ResponseWriter, r *http.Request) {
	products, err := decodeProducts(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(products) == 0 {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("products count must be between 1 and %d", s.batch.MaxBatchSize()))
		return
	}

	results, err := s.batch.Import(r.Context(), products)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse(results))
}

// DeleteProduct handles DELETE /api/admin/products/{id}.
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.products.Delete(r.Context(), pathParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeProducts accepts {"products": [...]} or a bare array.
func decodeProducts(body io.Reader) ([]domproduct.Product, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, err //nolint:wrapcheck // surfaced to the client as is
	}
	if trimmed := strings.TrimSpace(string(raw)); strings.HasPrefix(trimmed, "[") {
		var products []domproduct.Product
		if err := json.Unmarshal(raw, &products); err != nil {
			return nil, err //nolint:wrapcheck // surfaced to the client as is
		}
		return products, nil
	}
	var req BatchImportRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err //nolint:wrapcheck // surfaced to the client as is
	}
	return req.Products, nil
}

// pathParam returns a decoded chi URL parameter.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// safeDomainMessage returns a client message for err without exposing internals.
// Validation and batch size errors keep their details.
func safeDomainMessage(err error) string {
	for _, s := range []error{domain.ErrInvalidProduct, domain.ErrBatchTooLarge} {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	for _, s := range []error{domain.ErrProductNotFound, domain.ErrNotFound, domain.ErrUnauthorized} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

// handleDomainError maps sentinels to statuses and hides everything else behind a generic 500.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	if s.handleSentinel(w, r, err) {
		return
	}
	s.log(r).Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

// handleStoreError is the storefront read-path variant: unknown failures are a 500
// carrying the underlying message, which the storefront client displays.
func (s *Server) handleStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if s.handleSentinel(w, r, err) {
		return
	}
	s.log(r).Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) handleSentinel(w http.ResponseWriter, r *http.Request, err error) bool {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.log(r).Warn("domain error", zap.Error(err))
			return true
		}
	}
	return false
}

// log prefers the per-request logger placed by the wide-event middleware.
func (s *Server) log(r *http.Request) *zap.Logger {
	if l := logger.FromContext(r.Context()); l.Core().Enabled(zap.ErrorLevel) {
		return l
	}
	return s.logger
}
