package chi

import (
	"errors"

	"github.com/kailas-cloud/showroom/internal/domain"
	dombatch "github.com/kailas-cloud/showroom/internal/domain/batch"
	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
	healthuc "github.com/kailas-cloud/showroom/internal/usecase/health"
)

// ErrorResponse is the storefront error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges an operation without a payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports store and catalog availability.
type HealthResponse struct {
	Status   healthuc.Status                 `json:"status"`
	Checks   map[string]healthuc.CheckResult `json:"checks"`
	Products *int                            `json:"products,omitempty"`
}

// BatchImportRequest accepts products either wrapped or as a bare JSON array.
type BatchImportRequest struct {
	Products []domproduct.Product `json:"products"`
}

// BatchResultItem is the outcome of one imported product.
type BatchResultItem struct {
	ID     string              `json:"id"`
	Status dombatch.ItemStatus `json:"status"`
	Error  string              `json:"error,omitempty"`
}

// BatchImportResponse summarizes an import request.
type BatchImportResponse struct {
	Items   []BatchResultItem `json:"items"`
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Failed  int               `json:"failed"`
}

func batchResponse(results []dombatch.Result) BatchImportResponse {
	items := make([]BatchResultItem, len(results))
	for i, r := range results {
		items[i] = BatchResultItem{ID: r.ID(), Status: r.Status()}
		if r.Err() != nil {
			items[i].Error = batchItemMessage(r.Err())
		}
	}
	created, updated, failed := dombatch.Summary(results)
	return BatchImportResponse{Items: items, Created: created, Updated: updated, Failed: failed}
}

// batchItemMessage exposes validation details but hides storage internals.
func batchItemMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidProduct) {
		return err.Error()
	}
	return "internal error"
}

func healthResponse(r healthuc.Report) HealthResponse {
	resp := HealthResponse{Status: r.Status, Checks: r.Checks}
	if r.Products >= 0 {
		n := r.Products
		resp.Products = &n
	}
	return resp
}
