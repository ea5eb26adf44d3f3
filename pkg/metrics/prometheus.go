package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal  *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	residentRows  prometheus.Gauge
	errorsTotal   *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphaxis_fetches_total",
				Help: "Total number of backend range fetches",
			},
			[]string{"status"},
		),
		fetchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "graphaxis_fetch_duration_seconds",
				Help:    "Duration of backend range fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		residentRows: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "graphaxis_resident_rows",
				Help: "Number of rows currently resident in the source cache",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphaxis_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordFetch records one completed backend fetch.
func (r *Recorder) RecordFetch(status string, seconds float64) {
	r.fetchesTotal.WithLabelValues(status).Inc()
	r.fetchDuration.WithLabelValues(status).Observe(seconds)
}

// RecordResidentRows records the size of the resident row cache.
func (r *Recorder) RecordResidentRows(n int) {
	r.residentRows.Set(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
