// Package metrics provides Prometheus metrics for the card index.
// Scrape these at /metrics for dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardindex_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Import Metrics
	ImportRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardindex_import_runs_total",
			Help: "Total number of checklist import runs",
		},
	)

	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardindex_import_rows_total",
			Help: "Checklist rows processed by outcome",
		},
		[]string{"outcome"}, // "created", "updated", "skipped", "failed"
	)

	ImportSetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardindex_import_sets_total",
			Help: "Sets written by outcome",
		},
		[]string{"outcome"}, // "created", "updated", "failed"
	)

	ImportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cardindex_import_duration_seconds",
			Help:    "Time taken to run a checklist import",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	SlugCollisionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardindex_slug_collisions_total",
			Help: "Distinct entities that computed an already-taken slug",
		},
	)

	UnrecognizedSetNamesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardindex_unrecognized_set_names_total",
			Help: "Set names that fell through classification to the insert default",
		},
	)

	// Match Metrics
	MatchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardindex_match_requests_total",
			Help: "Smart match requests by top-result confidence",
		},
		[]string{"confidence"}, // "high", "medium", "low", "none"
	)

	MatchScoreHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cardindex_match_top_score",
			Help:    "Top candidate score per match request",
			Buckets: []float64{25, 50, 75, 100, 105, 120, 140, 160, 175},
		},
	)

	MatchCandidateCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardindex_match_candidate_cache_hits_total",
			Help: "Candidate pool cache hit count",
		},
	)

	MatchCandidateCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardindex_match_candidate_cache_misses_total",
			Help: "Candidate pool cache miss count",
		},
	)

	// Catalog Metrics
	CatalogSetsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardindex_catalog_sets_total",
			Help: "Number of sets in the catalog",
		},
	)

	CatalogCardsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardindex_catalog_cards_total",
			Help: "Number of cards in the catalog",
		},
	)
)
