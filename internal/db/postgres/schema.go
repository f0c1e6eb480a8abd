package postgres

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/showroom/internal/db"
)

// schemaStatements create the document table and expression indexes for the
// hottest filters. They are idempotent.
func schemaStatements(table string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id         TEXT PRIMARY KEY,
	doc        JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, quote(table)),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s ((doc->>'category'))`,
			quote(table+"_category_idx"), quote(table)),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (((doc->>'price')::double precision))`,
			quote(table+"_price_idx"), quote(table)),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (((doc->>'rating')::double precision) DESC)`,
			quote(table+"_rating_idx"), quote(table)),
	}
}

// EnsureSchema creates the table and its indexes when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements(s.table) {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return &db.Error{Op: db.OpMigrate, Err: err}
		}
	}
	return nil
}
