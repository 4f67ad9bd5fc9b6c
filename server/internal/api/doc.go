// Package api implements the HTTP surface of computedemo-server.
//
// New(aggregator, metrics) returns an http.Handler that serves:
//
//	GET /                the embedded demo page (text/html)
//	GET /compute?size=N  run one aggregation, reply in plain text:
//	                     "Processed N numbers\nResult: S\nTime: T"
//
// A missing or malformed size resolves to compute.DefaultSize; it is never
// reported to the client as an error. Routing is method-aware, so other
// methods on these paths get 405 and unknown paths get 404 from the mux.
// No external HTTP framework is used.
package api
