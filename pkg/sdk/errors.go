package showroom

import "github.com/kailas-cloud/showroom/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound        = domain.ErrNotFound
	ErrProductNotFound = domain.ErrProductNotFound
	ErrInvalidProduct  = domain.ErrInvalidProduct
	ErrBatchTooLarge   = domain.ErrBatchTooLarge
)
