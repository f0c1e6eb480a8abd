package showroom

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

const (
	driverMemory   = "memory"
	driverRedis    = "redis"
	driverPostgres = "postgres"
)

type clientConfig struct {
	driver    string
	addrs     []string
	password  string
	url       string
	indexName string

	seed         []Product
	maxBatchSize int
	maxPageSize  int
	popular      []string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithMemory keeps the catalog in process memory. Contents are lost on Close.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
	})
}

// WithRedis stores the catalog in Redis 8 (JSON and Query Engine).
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithPostgres stores the catalog in a Postgres JSONB table.
func WithPostgres(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverPostgres
		c.url = url
	})
}

// WithIndexName overrides the Redis index or Postgres table name.
func WithIndexName(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexName = name
	})
}

// WithSeed upserts products right after connecting. Invalid items are skipped.
func WithSeed(products []Product) Option {
	return optionFunc(func(c *clientConfig) {
		c.seed = products
	})
}

// WithMaxBatchSize sets the maximum number of products per Import call.
// Default: 100.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithMaxPageSize caps SearchParams.PageSize. Default: 100.
func WithMaxPageSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxPageSize = size
	})
}

// WithPopular replaces the popular search list returned by Popular.
func WithPopular(searches ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.popular = searches
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
