// Package metrics is a small, backend-agnostic instrumentation layer for
// the ingestion pipeline. A global, pluggable backend defaults to a no-op
// implementation so call sites never need nil checks; concrete systems
// (Prometheus Pushgateway, Datadog) live in subpackages and are installed
// once at startup via SetBackend.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface a metrics system must implement.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered metrics for backends that need it (Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the current one.
func SetBackend(b Backend) {
	if b != nil {
		backend = b
	}
}

// Flush delegates to the current backend.
func Flush() error { return backend.Flush() }

// RecordStep measures one pipeline step for one entity: latency plus a
// success/failure counter. Steps mirror the orchestrator stages (extract,
// clean, persist, rehydrate, validate, load).
func RecordStep(entity, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"entity": entity, "step": step, "status": status}
	backend.IncCounter("secmar_step_total", 1, lbls)
	backend.ObserveHistogram("secmar_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRows counts rows per entity and kind ("extracted", "cleaned",
// "deduplicated", "validated", "inserted").
func RecordRows(entity, kind string, n int64) {
	backend.IncCounter("secmar_rows_total", float64(n), Labels{"entity": entity, "kind": kind})
}
