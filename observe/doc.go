// Package observe provides observability primitives for the status control
// plane.
//
// It is a pure instrumentation library: no checking, no transport, no I/O
// beyond exporter setup. The orchestrator wires the observer in and opens
// one span per check, counts executions, failures and retries, and logs
// outcomes with check-scoped fields. Exporters are selected by name:
// stdout, otlp, prometheus, or none.
package observe
