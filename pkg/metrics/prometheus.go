package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	snapshotsSent *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	pipelineValue *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		snapshotsSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salespulse_snapshots_sent_total",
				Help: "Total number of forecast snapshots sent to a sink",
			},
			[]string{"sink", "pipeline"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salespulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		pipelineValue: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "salespulse_pipeline_last_value",
				Help: "Last observed total value for a pipeline",
			},
			[]string{"pipeline"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "salespulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSnapshotSent records a forecast snapshot sent to a sink.
func (r *Recorder) RecordSnapshotSent(sink, pipeline string) {
	r.snapshotsSent.WithLabelValues(sink, pipeline).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordPipelineValue records the last observed total value for a pipeline.
func (r *Recorder) RecordPipelineValue(pipeline string, value float64) {
	r.pipelineValue.WithLabelValues(pipeline).Set(value)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
