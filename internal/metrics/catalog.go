package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Catalog and pamphlet Prometheus metrics.
var (
	CatalogLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "catalog_loads_total",
			Help:      "Total catalog loads by outcome",
		},
		[]string{"status"}, // "ok" / "error"
	)

	CatalogLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "catalog_load_duration_seconds",
			Help:      "Catalog fetch and normalize duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	CatalogLiveSchemes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "catalog_live_schemes",
			Help:      "Live schemes in the published snapshot",
		},
	)

	CatalogQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "catalog_queries_total",
			Help:      "Catalog queries by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	PamphletFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "pamphlet_fetches_total",
			Help:      "Pamphlet image fetches by outcome",
		},
		[]string{"outcome"},
	)

	PamphletFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "pamphlet_fetch_duration_seconds",
			Help:      "Pamphlet fetch duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

var registerOnce sync.Once

// RegisterCatalogMetrics registers catalog and pamphlet metrics on the
// default registry. Safe to call more than once.
func RegisterCatalogMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			CatalogLoadsTotal,
			CatalogLoadDuration,
			CatalogLiveSchemes,
			CatalogQueriesTotal,
			PamphletFetchesTotal,
			PamphletFetchDuration,
		)
	})
}

// CatalogRecorder reports catalog loads and queries to the default registry.
type CatalogRecorder struct{}

// LoadFinished records one load attempt. The live gauge only moves on success.
func (CatalogRecorder) LoadFinished(ok bool, duration time.Duration, live int) {
	CatalogLoadDuration.Observe(duration.Seconds())
	if !ok {
		CatalogLoadsTotal.WithLabelValues("error").Inc()
		return
	}
	CatalogLoadsTotal.WithLabelValues("ok").Inc()
	CatalogLiveSchemes.Set(float64(live))
}

// Query counts one catalog query.
func (CatalogRecorder) Query(op, outcome string) {
	CatalogQueriesTotal.WithLabelValues(op, outcome).Inc()
}
