package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard service.
type Metrics struct {
	DatasetRowsLoaded  prometheus.Gauge
	DatasetRowsSkipped prometheus.Gauge
	DatasetReady       prometheus.Gauge

	QueriesTotal     *prometheus.CounterVec // label: endpoint
	QueryDuration    prometheus.Histogram
	FilteredViewSize prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DatasetRowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "accident_dash",
			Name:      "dataset_rows_loaded",
			Help:      "Number of accident records held in the in-memory snapshot.",
		}),
		DatasetRowsSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "accident_dash",
			Name:      "dataset_rows_skipped",
			Help:      "Rows dropped during load for missing or unparseable fields.",
		}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "accident_dash",
			Name:      "dataset_ready",
			Help:      "1 once the snapshot is loaded and the API is serving.",
		}),
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accident_dash",
			Name:      "queries_total",
			Help:      "Dashboard queries served, by endpoint.",
		}, []string{"endpoint"}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "accident_dash",
			Name:      "query_duration_seconds",
			Help:      "Duration of a filter-and-aggregate recompute.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		FilteredViewSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "accident_dash",
			Name:      "filtered_view_size",
			Help:      "Number of records matching a filter selection.",
			Buckets:   []float64{0, 10, 100, 1000, 10000, 100000, 500000},
		}),
	}

	prometheus.MustRegister(
		m.DatasetRowsLoaded,
		m.DatasetRowsSkipped,
		m.DatasetReady,
		m.QueriesTotal,
		m.QueryDuration,
		m.FilteredViewSize,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DatasetRowsLoaded:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "accident_dash", Name: "dataset_rows_loaded"}),
		DatasetRowsSkipped: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "accident_dash", Name: "dataset_rows_skipped"}),
		DatasetReady:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "accident_dash", Name: "dataset_ready"}),
		QueriesTotal:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "accident_dash", Name: "queries_total"}, []string{"endpoint"}),
		QueryDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "accident_dash", Name: "query_duration_seconds"}),
		FilteredViewSize:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "accident_dash", Name: "filtered_view_size"}),
	}
}
