package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mattjoyce/simdeck/internal/action"
	"github.com/mattjoyce/simdeck/internal/runner"
)

const (
	OutcomeSuccess = "success"
)

// Metrics holds the dispatch collectors.
type Metrics struct {
	actions  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "simdeck_actions_total",
				Help: "Dispatched actions by tag and outcome.",
			},
			[]string{"action", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "simdeck_action_duration_seconds",
				Help:    "Wall time of dispatched actions.",
				Buckets: []float64{.05, .1, .5, 1, 5, 15, 30, 60, 180},
			},
			[]string{"action"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.actions, m.duration)
	}
	return m
}

// Observe records one finished action. The outcome label is "success" or the
// failure kind.
func (m *Metrics) Observe(tag action.Tag, res runner.Result, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if !res.OK() {
		outcome = string(res.Kind)
	}
	m.actions.WithLabelValues(string(tag), outcome).Inc()
	m.duration.WithLabelValues(string(tag)).Observe(elapsed.Seconds())
}
