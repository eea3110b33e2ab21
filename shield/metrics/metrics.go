// Package metrics exposes Prometheus collectors for the score worker.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Job outcomes recorded on the jobs counter.
const (
	ResultSuccess  = "success"
	ResultFailed   = "failed"
	ResultRejected = "rejected"
)

// Recorder holds the score pipeline collectors.
type Recorder struct {
	registry    *prometheus.Registry
	jobs        *prometheus.CounterVec
	calculation prometheus.Histogram
	score       *prometheus.GaugeVec
}

// NewRecorder creates the collectors and registers them on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shield_score_jobs_total",
			Help: "Score jobs processed, by result.",
		}, []string{"result"}),
		calculation: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shield_score_calculation_seconds",
			Help:    "Time spent loading a snapshot and calculating its score.",
			Buckets: prometheus.DefBuckets,
		}),
		score: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "shield_security_score",
			Help: "Most recent overall security score per organization.",
		}, []string{"organization"}),
	}

	r.registry.MustRegister(r.jobs, r.calculation, r.score)
	return r
}

// JobDone counts a finished job with the given result.
func (r *Recorder) JobDone(result string) {
	r.jobs.WithLabelValues(result).Inc()
}

// ObserveCalculation records how long one calculation took.
func (r *Recorder) ObserveCalculation(d time.Duration) {
	r.calculation.Observe(d.Seconds())
}

// SetScore records an organization's latest overall score.
func (r *Recorder) SetScore(orgID string, overall int) {
	r.score.WithLabelValues(orgID).Set(float64(overall))
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the collectors in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
