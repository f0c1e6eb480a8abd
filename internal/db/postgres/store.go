// Package postgres is a Catalog Store over a single JSONB table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/showroom/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// DefaultTable holds product documents when Config.Table is empty.
const DefaultTable = "products"

// Config holds connection parameters for a Postgres store.
type Config struct {
	URL      string
	Table    string
	MaxConns int32
}

// Store implements db.Store via a pgx connection pool.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

// NewStore opens a connection pool. It does not contact the server;
// use WaitForReady for that.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}
	if !db.IsValidIdentifier(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return &Store{pool: pool, table: table}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close releases every pooled connection.
func (s *Store) Close() {
	s.pool.Close()
}

// WaitForReady polls Ping until the server responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Put upserts a document; xmax is zero only for freshly inserted rows.
func (s *Store) Put(ctx context.Context, doc db.Document) (bool, error) {
	var created bool
	err := s.pool.QueryRow(ctx, s.upsertSQL()+" RETURNING (xmax = 0)", doc.ID, doc.Data).Scan(&created)
	if err != nil {
		return false, &db.Error{Op: db.OpUpsert, Err: err}
	}
	return created, nil
}

// PutMulti upserts every document in one transaction.
func (s *Store) PutMulti(ctx context.Context, docs []db.Document) error {
	if len(docs) == 0 {
		return nil
	}
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, d := range docs {
			batch.Queue(s.upsertSQL(), d.ID, d.Data)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	return nil
}

// Get returns the stored JSON document.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, "SELECT doc FROM "+s.ident()+" WHERE id = $1", id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return data, nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM "+s.ident()+" WHERE id = $1", id)
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	if tag.RowsAffected() == 0 {
		return db.ErrKeyNotFound
	}
	return nil
}

// Find returns sorted, paginated documents.
func (s *Store) Find(ctx context.Context, q *db.FindQuery) ([]db.Document, error) {
	sql, args := buildFind(s.ident(), q)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	docs := make([]db.Document, 0, max(q.Limit, 0))
	for rows.Next() {
		var d db.Document
		if err := rows.Scan(&d.ID, &d.Data); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return docs, nil
}

// Count returns the number of matching documents.
func (s *Store) Count(ctx context.Context, q *db.CountQuery) (int, error) {
	sql, args := buildCount(s.ident(), q)
	var n int64
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, &db.Error{Op: db.OpSelect, Err: err}
	}
	return int(n), nil
}

// GroupCount counts matches per non-empty value of a text field.
func (s *Store) GroupCount(ctx context.Context, q *db.GroupQuery) ([]db.Bucket, error) {
	sql, args, err := buildGroupCount(s.ident(), q)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	buckets := []db.Bucket{}
	for rows.Next() {
		var b db.Bucket
		var n int64
		if err := rows.Scan(&b.Value, &n); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		b.Count = int(n)
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return buckets, nil
}

// Stats summarizes a numeric field over matches that carry it.
func (s *Store) Stats(ctx context.Context, q *db.StatsQuery) (db.Stats, error) {
	sql, args, err := buildStats(s.ident(), q)
	if err != nil {
		return db.Stats{}, err
	}
	var st db.Stats
	var n int64
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&n, &st.Min, &st.Max, &st.Avg); err != nil {
		return db.Stats{}, &db.Error{Op: db.OpSelect, Err: err}
	}
	st.Count = int(n)
	return st, nil
}

// Distinct returns distinct non-empty values of a text or list field in byte order.
func (s *Store) Distinct(ctx context.Context, q *db.DistinctQuery) ([]string, error) {
	sql, args, err := buildDistinct(s.ident(), q)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return values, nil
}

func (s *Store) ident() string {
	return quote(s.table)
}

func (s *Store) upsertSQL() string {
	return "INSERT INTO " + s.ident() + " (id, doc) VALUES ($1, $2) " +
		"ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()"
}
