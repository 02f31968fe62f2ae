// Package metrics provides Prometheus metrics for cross-reference runs
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BOM row outcomes: matched, unmatched, dropped_unknown_kind, dropped_missing_id
	RowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xref_rows_total",
			Help: "BOM rows processed by outcome",
		},
		[]string{"outcome"},
	)

	CatalogComponents = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "xref_catalog_components",
			Help: "Components in the loaded catalog",
		},
		[]string{"kind"},
	)

	CatalogRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xref_catalog_rejected_total",
			Help: "Catalog records skipped during normalization",
		},
		[]string{"reason"},
	)

	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "xref_batch_duration_seconds",
			Help:    "Duration of one BOM batch",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	EnrichCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xref_enrich_calls_total",
			Help: "Enrichment lookups by status",
		},
		[]string{"status"},
	)
)

// RecordBatch records the outcome counters of one finished batch
func RecordBatch(outcomes map[string]int, d time.Duration) {
	for k, n := range outcomes {
		RowsTotal.WithLabelValues(k).Add(float64(n))
	}
	BatchDuration.Observe(d.Seconds())
}

// SetCatalog publishes the per-kind catalog sizes
func SetCatalog(counts map[string]int) {
	for k, n := range counts {
		CatalogComponents.WithLabelValues(k).Set(float64(n))
	}
}
