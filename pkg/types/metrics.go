package types

// Metric names exported by computedemo-server on /metrics and read back by
// the agent's scraper.
const (
	MetricPageRequests    = "computedemo_page_requests_total"
	MetricComputeRequests = "computedemo_compute_requests_total"
	MetricComputeFailures = "computedemo_compute_failures_total"
	MetricValuesProcessed = "computedemo_values_processed_total"
	MetricComputeSeconds  = "computedemo_compute_seconds_total"
	MetricComputeInflight = "computedemo_compute_inflight"
)
