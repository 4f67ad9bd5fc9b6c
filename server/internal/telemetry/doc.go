// Package telemetry installs the OpenTelemetry tracer provider. Tracing is
// opt-in: without an endpoint the global no-op provider stays in place and
// compute spans cost nothing.
package telemetry
