package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"CoinSentry/internal/domain/models"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal       *prometheus.CounterVec
	alertsTotal     *prometheus.CounterVec
	rejectedTotal   *prometheus.CounterVec
	confidence      *prometheus.GaugeVec
	pipelineLatency *prometheus.HistogramVec
	providerLatency *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinsentry_validation_runs_total",
				Help: "Total validation pipeline runs by terminal state",
			},
			[]string{"symbol", "state"},
		),
		alertsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinsentry_alerts_total",
				Help: "Total alerts emitted",
			},
			[]string{"severity", "type"},
		),
		rejectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinsentry_sources_rejected_total",
				Help: "Quotes rejected by schema validation",
			},
			[]string{"source", "reason"},
		),
		confidence: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coinsentry_confidence_score",
				Help: "Confidence of the most recent validation run",
			},
			[]string{"symbol"},
		),
		pipelineLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coinsentry_pipeline_duration_seconds",
				Help:    "Validation pipeline duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"state"},
		),
		providerLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coinsentry_provider_fetch_seconds",
				Help:    "Provider quote fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
	}
}

// RecordRun records a completed pipeline run.
func (r *Recorder) RecordRun(symbol string, state models.PipelineState, elapsed time.Duration) {
	r.runsTotal.WithLabelValues(symbol, string(state)).Inc()
	r.pipelineLatency.WithLabelValues(string(state)).Observe(elapsed.Seconds())
}

// RecordConfidence records the confidence of the latest run.
func (r *Recorder) RecordConfidence(symbol string, confidence int) {
	r.confidence.WithLabelValues(symbol).Set(float64(confidence))
}

// RecordAlert records an emitted alert.
func (r *Recorder) RecordAlert(severity, alertType string) {
	r.alertsTotal.WithLabelValues(severity, alertType).Inc()
}

// RecordSourceRejected records a schema-validation rejection.
func (r *Recorder) RecordSourceRejected(sourceName, reason string) {
	r.rejectedTotal.WithLabelValues(sourceName, reason).Inc()
}

// RecordProviderLatency records a provider fetch latency.
func (r *Recorder) RecordProviderLatency(sourceName string, seconds float64) {
	r.providerLatency.WithLabelValues(sourceName).Observe(seconds)
}
