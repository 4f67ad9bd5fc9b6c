// Package random provides the uniform integer sources used to fill value
// arrays.
//
// Source is the single-method capability the aggregator depends on. Rand is a
// PCG generator owned by one goroutine; Locked makes any Source safe to share;
// Fixed replays a known sequence so tests can pin the generated values.
package random
