package health

import (
	"context"

	"github.com/kailas-cloud/showroom/internal/domain/search/filter"
)

// DBPinger checks catalog store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CatalogCounter counts products matching an expression; the search index must answer it.
type CatalogCounter interface {
	Count(ctx context.Context, expr filter.Expression) (int, error)
}
