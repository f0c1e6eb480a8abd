package db

import (
	"context"
	"time"
)

// Store is the Catalog Store facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	DocumentStore
	Searcher
	Aggregator
	SchemaManager
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DocumentStore keeps product documents addressed by id.
type DocumentStore interface {
	// Put stores a document; created reports whether the id was new.
	Put(ctx context.Context, doc Document) (created bool, err error)
	PutMulti(ctx context.Context, docs []Document) error
	// Get returns the raw JSON document or ErrKeyNotFound.
	Get(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

// Searcher runs predicate queries.
type Searcher interface {
	Find(ctx context.Context, q *FindQuery) ([]Document, error)
	Count(ctx context.Context, q *CountQuery) (int, error)
}

// Aggregator groups and summarizes documents matching a predicate.
type Aggregator interface {
	// GroupCount counts matching documents per distinct value of a text field,
	// ordered by count descending then value ascending.
	GroupCount(ctx context.Context, q *GroupQuery) ([]Bucket, error)
	// Stats returns min/max/avg of a numeric field over matching documents.
	Stats(ctx context.Context, q *StatsQuery) (Stats, error)
	// Distinct returns the distinct values of a text or list field over matching
	// documents, sorted ascending.
	Distinct(ctx context.Context, q *DistinctQuery) ([]string, error)
}

// SchemaManager prepares indexes/tables the queries rely on.
type SchemaManager interface {
	EnsureSchema(ctx context.Context) error
}
