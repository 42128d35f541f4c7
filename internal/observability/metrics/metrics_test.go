package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestIntakeMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIntakeMetrics(reg)
	m.ObserveTurn("ok")
	m.ObserveTurn("blocked")
	m.ObserveHandoff("sent")
	m.ObserveLLMLatency(0.25)
}

func TestIntakeMetricsNilSafe(t *testing.T) {
	var m *IntakeMetrics
	m.ObserveTurn("ok")
	m.ObserveHandoff("sent")
	m.ObserveLLMLatency(0.1)
}
