// Package metrics records generation run metrics and exports them in the
// node exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tacogips/pipelinedoc/internal/template/model"
)

const namespace = "pipelinedoc"

// Result label values.
const (
	ResultGenerated = "generated"
	ResultFailed    = "failed"
)

// Recorder collects metrics for generation runs on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	documents   *prometheus.CounterVec
	warnings    prometheus.Counter
	runs        prometheus.Counter
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
}

// NewRecorder creates a recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		documents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_total",
				Help:      "Total number of template documents processed, by result and template kind",
			},
			[]string{"result", "kind"},
		),
		warnings: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "warnings_total",
				Help:      "Total number of properties validation warnings",
			},
		),
		runs: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of generation runs",
			},
		),
		duration: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_duration_seconds",
				Help:      "Duration of the last generation run in seconds",
			},
		),
		lastSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last run without failed documents",
			},
		),
	}
}

// Registry returns the registry the recorder's collectors live on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// DocumentGenerated counts a successfully generated document.
func (r *Recorder) DocumentGenerated(kind model.Kind) {
	r.documents.WithLabelValues(ResultGenerated, kind.String()).Inc()
}

// DocumentFailed counts a document that could not be generated. Its kind is
// unknown when the template did not parse.
func (r *Recorder) DocumentFailed(kind model.Kind) {
	r.documents.WithLabelValues(ResultFailed, kind.String()).Inc()
}

// Warnings adds n validation warnings.
func (r *Recorder) Warnings(n int) {
	if n > 0 {
		r.warnings.Add(float64(n))
	}
}

// RunCompleted records the end of a run.
func (r *Recorder) RunCompleted(duration time.Duration, failed bool, now time.Time) {
	r.runs.Inc()
	r.duration.Set(duration.Seconds())
	if !failed {
		r.lastSuccess.Set(float64(now.Unix()))
	}
}

// WriteTextfile atomically writes all metrics to path for the node
// exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
