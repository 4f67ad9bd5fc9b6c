// Package types defines the Result triple shared by the server and the agent,
// together with its plain-text encoding:
//
//	Processed {size} numbers
//	Result: {sum}
//	Time: {elapsed}
//
// The server writes it with Result.String; the agent reads it back with
// ParseResult. FormatDuration renders elapsed time with two decimals and a
// unit scaled to the magnitude (ns, µs, ms, s).
//
// metrics.go names the counters the server exports on /metrics, so the
// agent reads exactly what the server writes.
package types
