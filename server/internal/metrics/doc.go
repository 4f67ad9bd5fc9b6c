// Package metrics keeps process-wide request counters and renders them in
// the Prometheus text exposition format.
//
// Counters are expvar values so the same map can be published on
// /debug/vars; Families converts them to client_model metric families and
// Handler encodes those with expfmt.
package metrics
