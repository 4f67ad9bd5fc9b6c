package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

// withEnv runs load against an explicit environment instead of the process one.
func withEnv(t *testing.T, path string, vars map[string]string) (*Config, error) {
	t.Helper()
	return load(path, env.Options{Environment: vars})
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := withEnv(t, "", map[string]string{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("port: got %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.Server.LogLevel != DefaultLogLevel {
		t.Errorf("log_level: got %q, want %q", cfg.Server.LogLevel, DefaultLogLevel)
	}
	if cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("shutdown_timeout: got %v, want %v", cfg.Server.ShutdownTimeout, DefaultShutdownTimeout)
	}
	if !cfg.Server.Metrics.Enabled {
		t.Error("metrics.enabled: got false, want true")
	}
	if cfg.TracingEndpoint != "" {
		t.Errorf("tracing endpoint: got %q, want empty", cfg.TracingEndpoint)
	}
}

func TestLoad_PortFromEnv(t *testing.T) {
	cfg, err := withEnv(t, "", map[string]string{"PORT": "9000"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("port: got %d, want 9000", cfg.Port)
	}
}

func TestLoad_InvalidPortIsFatal(t *testing.T) {
	for _, v := range []string{"", "abc", "-1", "70000", "80.5"} {
		if _, err := withEnv(t, "", map[string]string{"PORT": v}); err == nil {
			t.Errorf("PORT=%q: expected error, got nil", v)
		}
	}
}

func TestLoad_EmptyPortInProcessEnvironment(t *testing.T) {
	t.Setenv("PORT", "")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for empty PORT, got nil")
	}
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("PORT", "8181")
	t.Setenv("COMPUTEDEMO_OTEL_ENDPOINT", "http://collector:4318")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8181 {
		t.Errorf("port: got %d, want 8181", cfg.Port)
	}
	if cfg.TracingEndpoint != "http://collector:4318" {
		t.Errorf("tracing endpoint: got %q", cfg.TracingEndpoint)
	}
}

func TestLoad_FullServer(t *testing.T) {
	p := writeConfig(t, `server:
  log_level: debug
  shutdown_timeout: 30s
  compute:
    workers: 6
  metrics:
    enabled: false
`)
	cfg, err := withEnv(t, p, map[string]string{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Level() != slog.LevelDebug {
		t.Errorf("level: got %v, want debug", cfg.Server.Level())
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("shutdown_timeout: got %v, want 30s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.Compute.Workers != 6 {
		t.Errorf("compute.workers: got %d, want 6", cfg.Server.Compute.Workers)
	}
	if cfg.Server.Metrics.Enabled {
		t.Error("metrics.enabled: got true, want false")
	}
	if cfg.Port != DefaultPort {
		t.Errorf("port: got %d, want %d", cfg.Port, DefaultPort)
	}
}

func TestLoad_UnknownLogLevel(t *testing.T) {
	p := writeConfig(t, "server:\n  log_level: chatty\n")
	if _, err := withEnv(t, p, map[string]string{}); err == nil {
		t.Fatal("expected error for unknown log level, got nil")
	}
}

func TestLoad_NegativeWorkers(t *testing.T) {
	p := writeConfig(t, "server:\n  compute:\n    workers: -2\n")
	if _, err := withEnv(t, p, map[string]string{}); err == nil {
		t.Fatal("expected error for negative workers, got nil")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestWatch_Reloads(t *testing.T) {
	p := writeConfig(t, "server:\n  log_level: info\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 64)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, p, func(c *Config) {
			select {
			case got <- c:
			default:
			}
		})
	}()

	// The watcher registers asynchronously; keep rewriting until it notices.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case c := <-got:
			// A truncating write can be observed before the new content lands.
			if c.Server.LogLevel != "warn" {
				continue
			}
			cancel()
			if err := <-done; err != nil {
				t.Errorf("Watch: %v", err)
			}
			return
		case <-tick.C:
			if err := os.WriteFile(p, []byte("server:\n  log_level: warn\n"), 0o600); err != nil {
				t.Fatalf("rewrite config: %v", err)
			}
		case <-deadline:
			t.Fatal("no reload observed within 5s")
		}
	}
}
