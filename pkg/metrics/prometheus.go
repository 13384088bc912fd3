package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal      *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	upstreamCalls  *prometheus.CounterVec
	retriesTotal   *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	assetsAnalyzed *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listingpulse_runs_total",
				Help: "Total number of recompute runs by outcome",
			},
			[]string{"report", "status"},
		),
		runDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "listingpulse_run_duration_seconds",
				Help:    "Duration of recompute runs in seconds",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
			},
			[]string{"report"},
		),
		upstreamCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listingpulse_upstream_calls_total",
				Help: "Total number of upstream API calls",
			},
			[]string{"source"},
		),
		retriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listingpulse_upstream_retries_total",
				Help: "Total number of rate-limit retries against upstream APIs",
			},
			[]string{"source"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listingpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		assetsAnalyzed: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "listingpulse_assets_analyzed",
				Help: "Assets included in the last successful run",
			},
			[]string{"report"},
		),
	}
}

// RecordRun records one finished run with its outcome.
func (r *Recorder) RecordRun(report, status string) {
	r.runsTotal.WithLabelValues(report, status).Inc()
}

// RecordRunDuration records run wall-clock duration in seconds.
func (r *Recorder) RecordRunDuration(report string, seconds float64) {
	r.runDuration.WithLabelValues(report).Observe(seconds)
}

// RecordUpstreamCall records one paced upstream API call.
func (r *Recorder) RecordUpstreamCall(source string) {
	r.upstreamCalls.WithLabelValues(source).Inc()
}

// RecordRetry records a rate-limit retry.
func (r *Recorder) RecordRetry(source string) {
	r.retriesTotal.WithLabelValues(source).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordAssetsAnalyzed records how many assets the last run covered.
func (r *Recorder) RecordAssetsAnalyzed(report string, n int) {
	r.assetsAnalyzed.WithLabelValues(report).Set(float64(n))
}
