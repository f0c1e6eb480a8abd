package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_requests_total",
			Help:      "Total number of catalog searches",
		},
		[]string{"operation", "status"}, // operation: search/suggest/autocomplete
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration in seconds",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"sort"},
	)

	SearchStageErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_stage_errors_total",
			Help:      "Failed search sub-queries",
		},
		[]string{"stage"},
	)

	SuggestionsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_suggestions_returned",
			Help:      "Number of suggestions returned per request",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		},
	)

	SearchStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_stage_duration_seconds",
			Help:      "Duration of one search stage in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"stage"}, // page/count/facets/suggestions/autocomplete
	)

	SearchResultSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_matching_products",
			Help:      "Number of products matching a search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	CatalogImportTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "catalog_import_products_total",
			Help:      "Products processed by catalog imports",
		},
		[]string{"status"}, // created/updated/seeded/error
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchStageErrorsTotal)
	prometheus.MustRegister(SuggestionsReturned)
	prometheus.MustRegister(SearchStageDuration)
	prometheus.MustRegister(SearchResultSize)
	prometheus.MustRegister(CatalogImportTotal)
	searchMetricsRegistered = true
}
