// Package datadog adapts metrics.Backend to DogStatsD, translating metric
// labels into Datadog tags.
package datadog

import (
	"fmt"

	"github.com/DataDog/datadog-go/v5/statsd"

	"secmar/internal/metrics"
)

// Config holds the DogStatsD client settings.
type Config struct {
	// Addr is the agent address, e.g. "127.0.0.1:8125".
	Addr string

	// Namespace is an optional prefix for all metric names.
	Namespace string

	// GlobalTags apply to every metric, e.g. []string{"service:secmar"}.
	GlobalTags []string
}

// Backend forwards counters and histograms to a Datadog agent.
type Backend struct {
	client *statsd.Client
}

func NewBackend(cfg Config) (*Backend, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("datadog: Addr is required")
	}
	opts := []statsd.Option{}
	if cfg.Namespace != "" {
		opts = append(opts, statsd.WithNamespace(cfg.Namespace))
	}
	if len(cfg.GlobalTags) > 0 {
		opts = append(opts, statsd.WithTags(cfg.GlobalTags))
	}
	c, err := statsd.New(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("datadog: %w", err)
	}
	return &Backend{client: c}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	_ = b.client.Count(name, int64(delta), toTags(labels), 1)
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	_ = b.client.Histogram(name, value, toTags(labels), 1)
}

func (b *Backend) Flush() error { return b.client.Flush() }

func toTags(labels metrics.Labels) []string {
	tags := make([]string, 0, len(labels))
	for k, v := range labels {
		tags = append(tags, k+":"+v)
	}
	return tags
}
