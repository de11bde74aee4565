package lm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for models. A nil *Metrics is valid
// and reports nothing.
type Metrics struct {
	Extends   *prometheus.CounterVec
	Lookahead *prometheus.HistogramVec
	Compiles  *prometheus.CounterVec
}

// NewMetrics creates collectors and registers them with reg. If reg is nil,
// the collectors are not registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Extends: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wcfg",
			Subsystem: "lm",
			Name:      "extends_total",
			Help:      "Number of terminals consumed by model states.",
		}, []string{"backend"}),
		Lookahead: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wcfg",
			Subsystem: "lm",
			Name:      "lookahead_duration_seconds",
			Help:      "Time to compute next-symbol weights.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"backend"}),
		Compiles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wcfg",
			Subsystem: "lm",
			Name:      "compiles_total",
			Help:      "Number of grammars compiled for a backend.",
		}, []string{"backend"}),
	}
}

func (m *Metrics) extended(b Backend) {
	if m != nil {
		m.Extends.WithLabelValues(b.String()).Inc()
	}
}

func (m *Metrics) lookedAhead(b Backend, start time.Time) {
	if m != nil {
		m.Lookahead.WithLabelValues(b.String()).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) compiled(b Backend) {
	if m != nil {
		m.Compiles.WithLabelValues(b.String()).Inc()
	}
}
