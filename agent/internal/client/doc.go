// Package client calls a computedemo server's /compute route and decodes the
// plain-text reply into a types.Result.
//
// Sweep issues several sizes concurrently, the way the demo page's three
// buttons can be clicked in quick succession, and returns the results in
// request order.
package client
