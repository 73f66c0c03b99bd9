// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "weather_archive"

var (
	// IngestionsTotal counts ingestion requests by outcome
	// (ok, upstream_error, schema_error, error).
	IngestionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingestions_total",
		Help:      "Weather ingestion requests by outcome.",
	}, []string{"outcome"})

	FilesUploadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "files_uploaded_total",
		Help:      "Series files uploaded to object storage.",
	})

	// UpstreamDuration observes archive API latency by response class.
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of archive API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"class"})
)

// StatusClass buckets an HTTP status code into "2xx", "4xx", ... or "error"
// when no response was received.
func StatusClass(code int) string {
	switch {
	case code <= 0:
		return "error"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
