// Package metrics exposes Prometheus collectors for trajectory computations.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Error kinds recorded by ObserveError.
const (
	KindConfiguration = "configuration"
	KindAnalysis      = "analysis"
	KindRequest       = "request"
)

// Recorder records trajectory computations.
type Recorder struct {
	trajectories *prometheus.CounterVec
	stalls       *prometheus.CounterVec
	errors       *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		trajectories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "optiviz",
			Name:      "trajectories_total",
			Help:      "Trajectories computed, by dimension and optimizer.",
		}, []string{"dimension", "optimizer"}),
		stalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "optiviz",
			Name:      "trajectory_stalls_total",
			Help:      "Steps frozen by numeric failures, by dimension and optimizer.",
		}, []string{"dimension", "optimizer"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "optiviz",
			Name:      "trajectory_errors_total",
			Help:      "Rejected trajectory requests, by kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "optiviz",
			Name:      "trajectory_duration_seconds",
			Help:      "Time spent analysing and computing a trajectory.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"dimension"}),
	}

	for _, c := range []prometheus.Collector{r.trajectories, r.stalls, r.errors, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveTrajectory records a completed computation.
func (r *Recorder) ObserveTrajectory(dimension int, optimizer string, stalls int, elapsed time.Duration) {
	dim := strconv.Itoa(dimension)
	r.trajectories.WithLabelValues(dim, optimizer).Inc()
	r.stalls.WithLabelValues(dim, optimizer).Add(float64(stalls))
	r.duration.WithLabelValues(dim).Observe(elapsed.Seconds())
}

// ObserveError records a rejected request.
func (r *Recorder) ObserveError(kind string) {
	r.errors.WithLabelValues(kind).Inc()
}
