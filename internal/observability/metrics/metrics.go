package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters/histograms for the intake conversation flow.
type IntakeMetrics struct {
	turnsTotal    *prometheus.CounterVec
	handoffsTotal *prometheus.CounterVec
	llmLatency    prometheus.Histogram
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "praxis",
			Subsystem: "intake",
			Name:      "turns_total",
			Help:      "Total processed conversation turns",
		}, []string{"outcome"}),
		handoffsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "praxis",
			Subsystem: "intake",
			Name:      "handoffs_total",
			Help:      "Total handoff dispatch attempts",
		}, []string{"status"}),
		llmLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "praxis",
			Subsystem: "intake",
			Name:      "llm_latency_seconds",
			Help:      "Latency of generation service calls",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.handoffsTotal, m.llmLatency)
	return m
}

// ObserveTurn records one processed turn by outcome
// (ok, blocked, llm_error, handoff).
func (m *IntakeMetrics) ObserveTurn(outcome string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(outcome).Inc()
}

// ObserveHandoff records one dispatch attempt by status (sent, failed).
func (m *IntakeMetrics) ObserveHandoff(status string) {
	if m == nil {
		return
	}
	m.handoffsTotal.WithLabelValues(status).Inc()
}

// ObserveLLMLatency records the duration of one generation call.
func (m *IntakeMetrics) ObserveLLMLatency(seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.Observe(seconds)
}
