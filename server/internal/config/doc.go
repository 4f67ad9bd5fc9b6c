// Package config loads the server configuration.
//
// Sources, applied in order:
//   - built-in defaults
//   - the `server:` section of an optional YAML file
//   - environment variables: PORT (uint16, default 8080) and
//     COMPUTEDEMO_OTEL_ENDPOINT (OTLP/HTTP trace endpoint, empty disables tracing)
//
// YAML fields:
//   - log_level        : debug | info | warn | error (default info)
//   - shutdown_timeout : graceful shutdown budget (default 10s)
//   - compute.workers  : partitions per request; 0 means GOMAXPROCS
//   - metrics.enabled  : serve /metrics and /debug/vars (default true)
//
// A PORT value that is set but not a valid uint16 (including the empty
// string) is an error, so the server refuses to start rather than guessing.
//
// Watch(ctx, path, onChange) re-runs Load whenever the file is written.
package config
