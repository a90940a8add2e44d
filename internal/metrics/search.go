package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "search_requests_total",
			Help:      "Total number of search runs",
		},
		[]string{"kind", "path"}, // path: "all" (fast path) / "ranked"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "folio",
			Name:      "search_duration_seconds",
			Help:      "Search orchestration duration in seconds",
			Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		},
		[]string{"kind"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "folio",
			Name:      "search_results",
			Help:      "Number of ranked results per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
		[]string{"kind"},
	)

	SearchZeroResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "search_zero_results_total",
			Help:      "Searches with a non-empty query that returned nothing",
		},
		[]string{"kind"},
	)

	SnapshotReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "snapshot_reloads_total",
			Help:      "Search snapshot rebuilds",
		},
		[]string{"kind", "status"},
	)

	SnapshotItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "folio",
			Name:      "snapshot_items",
			Help:      "Items in the current search snapshot",
		},
		[]string{"kind"},
	)

	LiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "folio",
			Name:      "live_sessions",
			Help:      "Open live-search WebSocket sessions",
		},
	)

	LiveStaleDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "live_stale_results_dropped_total",
			Help:      "Live-search results discarded because a newer query superseded them",
		},
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
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(SearchZeroResultsTotal)
	prometheus.MustRegister(SnapshotReloadsTotal)
	prometheus.MustRegister(SnapshotItems)
	prometheus.MustRegister(LiveSessions)
	prometheus.MustRegister(LiveStaleDroppedTotal)
	searchMetricsRegistered = true
}
