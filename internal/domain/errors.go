package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrProductNotFound signals a missing product.
	ErrProductNotFound = errors.New("Product not found")
	// ErrInvalidProduct signals a product that violates the catalog invariants.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrBatchTooLarge signals an import batch above the configured limit.
	ErrBatchTooLarge = errors.New("batch too large")
	// ErrUnauthorized signals a missing or unknown API key.
	ErrUnauthorized = errors.New("unauthorized")
)
