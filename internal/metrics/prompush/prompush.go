// Package prompush adapts metrics.Backend to a Prometheus Pushgateway.
// The pipeline is a short-lived batch process, so metrics are pushed at
// the end of the run instead of being scraped.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"secmar/internal/metrics"
)

// Backend pushes counters and duration summaries to a Pushgateway.
type Backend struct {
	pusher *push.Pusher

	stepCounter  *prometheus.CounterVec
	stepDuration *prometheus.SummaryVec
	rowCounter   *prometheus.CounterVec
}

// NewBackend constructs a Pushgateway backend. job is the Pushgateway
// grouping key; gatewayURL the base URL (e.g. http://localhost:9091).
func NewBackend(job, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if job == "" {
		job = "secmar_pipeline"
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "secmar_step_total",
		Help: "Pipeline step executions by entity, step and status.",
	}, []string{"entity", "step", "status"})

	stepDuration := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: "secmar_step_duration_seconds",
		Help: "Pipeline step duration by entity, step and status.",
	}, []string{"entity", "step", "status"})

	rowCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "secmar_rows_total",
		Help: "Row counts by entity and kind.",
	}, []string{"entity", "kind"})

	reg.MustRegister(stepCounter, stepDuration, rowCounter)

	return &Backend{
		pusher:       push.New(gatewayURL, job).Gatherer(reg),
		stepCounter:  stepCounter,
		stepDuration: stepDuration,
		rowCounter:   rowCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "secmar_step_total":
		b.stepCounter.With(prometheus.Labels{
			"entity": labels["entity"], "step": labels["step"], "status": labels["status"],
		}).Add(delta)
	case "secmar_rows_total":
		b.rowCounter.With(prometheus.Labels{
			"entity": labels["entity"], "kind": labels["kind"],
		}).Add(delta)
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != "secmar_step_duration_seconds" {
		return
	}
	b.stepDuration.With(prometheus.Labels{
		"entity": labels["entity"], "step": labels["step"], "status": labels["status"],
	}).Observe(value)
}

// Flush pushes all collected metrics to the gateway.
func (b *Backend) Flush() error { return b.pusher.Push() }
