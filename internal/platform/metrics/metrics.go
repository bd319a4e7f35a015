// Package metrics exposes the Prometheus collectors shared by the HTTP layer
// and the odontogram domain packages.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	VersionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "odontograma_versions_created_total",
			Help: "Total number of odontogram versions created",
		},
	)

	FindingsWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odontograma_findings_written_total",
			Help: "Total number of chart findings inserted, upserted or deleted",
		},
		[]string{"entity", "action"},
	)

	SnapshotBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "odontograma_snapshot_bytes",
			Help:    "Size of saved version snapshots in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)

	SnapshotArchiveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odontograma_snapshot_archive_total",
			Help: "Snapshot archive attempts by result",
		},
		[]string{"result"},
	)

	AuditFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odontograma_audit_failures_total",
			Help: "Audit inserts that failed and were skipped",
		},
		[]string{"table"},
	)
)

// RecordHTTPRequest records metrics for a completed HTTP request.
func RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordFinding counts a write against a chart entity.
func RecordFinding(entity, action string) {
	FindingsWrittenTotal.WithLabelValues(entity, action).Inc()
}

// RecordAuditFailure counts an audit row that could not be written.
func RecordAuditFailure(table string) {
	AuditFailuresTotal.WithLabelValues(table).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
