package optimizer

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "planopt"
	subsystem = "optimizer"
)

// Metrics are the prometheus collectors updated by an Engine.
type Metrics struct {
	Optimizations *prometheus.CounterVec
	RulesFired    *prometheus.CounterVec
	Passes        *prometheus.CounterVec
	Replacements  prometheus.Counter
	Duration      prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		Optimizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "optimizations_total",
			Help:      "Number of plans optimized, by outcome",
		}, []string{"result"}),
		RulesFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rules_fired_total",
			Help:      "Number of times a rule rewrote the plan",
		}, []string{"stage", "rule"}),
		Passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "passes_total",
			Help:      "Number of full passes over the plan, by stage",
		}, []string{"stage"}),
		Replacements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "replacements_total",
			Help:      "Number of plan nodes replaced",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "optimize_duration_seconds",
			Help:      "Time spent optimizing one plan",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
	}
}

// PrometheusCollectors returns the collectors to register with a prometheus registry.
func (m *Metrics) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Optimizations,
		m.RulesFired,
		m.Passes,
		m.Replacements,
		m.Duration,
	}
}
