// Package scraper reads a computedemo server's /metrics endpoint.
//
// Fetch performs the HTTP GET and parses the Prometheus text exposition into
// metric families; Scrape reduces those families to a Snapshot of the
// server's counters. A family missing from the exposition reads as zero.
package scraper
