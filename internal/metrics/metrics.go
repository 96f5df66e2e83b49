// Package metrics exposes registration counters and durations to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registration paths.
const (
	PathUpload = "upload"
	PathIndex  = "index"
)

// OutcomeSuccess labels a registration that completed.
const OutcomeSuccess = "success"

// Metrics tracks registration outcomes per orchestrator path.
type Metrics struct {
	Registrations        *prometheus.CounterVec
	RegistrationDuration *prometheus.HistogramVec
	FacesDetected        prometheus.Histogram
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "face_register_registrations_total",
			Help: "Registrations by path and outcome (success or error kind)",
		}, []string{"path", "outcome"}),
		RegistrationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "face_register_registration_duration_seconds",
			Help:    "Duration of a registration pipeline run",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"path"}),
		FacesDetected: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "face_register_faces_detected",
			Help:    "Number of faces returned by the indexer per image",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		}),
	}
}

// ObserveRegistration records the outcome and duration of one run.
// Call with time.Now() taken at the start of the run. Nil receivers are ignored.
func (m *Metrics) ObserveRegistration(path, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(path, outcome).Inc()
	m.RegistrationDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
}

// ObserveFaces records how many faces one image produced.
func (m *Metrics) ObserveFaces(n int) {
	if m == nil {
		return
	}
	m.FacesDetected.Observe(float64(n))
}
