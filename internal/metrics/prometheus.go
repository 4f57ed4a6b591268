package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the backfill service

var (
	// Upstream call metrics
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhl_upstream_calls_total",
			Help: "Total number of upstream fetches",
		},
		[]string{"source", "endpoint", "status"},
	)

	UpstreamCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nhl_upstream_call_duration_seconds",
			Help:    "Duration of upstream fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "endpoint"},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhl_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nhl_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// Backfill stage metrics
	StagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhl_backfill_stages_total",
			Help: "Total number of backfill stage executions",
		},
		[]string{"stage", "status"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nhl_backfill_stage_duration_seconds",
			Help:    "Duration of backfill stages in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"stage"},
	)

	FallbackActivations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhl_fallback_activations_total",
			Help: "Number of times a stage fell back to the static snapshot",
		},
		[]string{"stage"},
	)

	// Row gauges per table, refreshed from the end-of-run report
	RowsIngested = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nhl_rows_ingested_total",
			Help: "Total number of rows per table",
		},
		[]string{"table"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nhl_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nhl_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhl_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nhl_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nhl_last_successful_backfill_timestamp",
			Help: "Timestamp of last backfill run that finished without fatal error",
		},
	)
)

// RecordUpstreamCall records an upstream fetch metric
func RecordUpstreamCall(source, endpoint, status string, duration float64) {
	UpstreamCallsTotal.WithLabelValues(source, endpoint, status).Inc()
	UpstreamCallDuration.WithLabelValues(source, endpoint).Observe(duration)
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordStage records a backfill stage execution
func RecordStage(stage, status string, duration float64) {
	StagesTotal.WithLabelValues(stage, status).Inc()
	StageDuration.WithLabelValues(stage).Observe(duration)
}

// RecordFallback records a fallback snapshot activation
func RecordFallback(stage string) {
	FallbackActivations.WithLabelValues(stage).Inc()
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// UpdateRowCounts publishes the per-table totals from a finished run
func UpdateRowCounts(counts map[string]int64) {
	for table, count := range counts {
		RowsIngested.WithLabelValues(table).Set(float64(count))
	}
}
