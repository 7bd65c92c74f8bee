// Package otel binds sessionauth counters and the validate latency
// histogram to OpenTelemetry observable instruments.
//
// [NewOTelExporter] registers one Int64ObservableCounter per counter and
// one Int64ObservableGauge per histogram bucket. A single callback reads
// the engine snapshot on each collection cycle. Engines also report a
// sessionauth_sessions_live gauge carrying a role attribute.
//
// Callers own the MeterProvider and supply the Meter.
package otel
