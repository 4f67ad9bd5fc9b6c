package main

import (
	"context"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/obsidianstack/computedemo/server/internal/api"
	"github.com/obsidianstack/computedemo/server/internal/compute"
	"github.com/obsidianstack/computedemo/server/internal/config"
	"github.com/obsidianstack/computedemo/server/internal/metrics"
	"github.com/obsidianstack/computedemo/server/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	var level slog.LevelVar
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: &level}))
	slog.SetDefault(logger)

	slog.Info("computedemo-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	level.Set(cfg.Server.Level())

	slog.Info("config loaded",
		"port", cfg.Port,
		"log_level", cfg.Server.LogLevel,
		"workers", cfg.Server.Compute.Workers,
		"metrics", cfg.Server.Metrics.Enabled,
		"tracing", cfg.TracingEndpoint != "",
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, "computedemo-server", cfg.TracingEndpoint)
	if err != nil {
		slog.Error("failed to set up tracing", "err", err)
		os.Exit(1)
	}
	defer shutdownTracing(context.Background()) //nolint:errcheck

	agg := compute.New(compute.WithWorkers(cfg.Server.Compute.Workers))
	m := metrics.New()

	// Hot-reload: log level and worker count follow the file; the port and
	// tracing endpoint are fixed for the life of the process.
	if *configPath != "" {
		go func() {
			if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
				level.Set(updated.Server.Level())
				agg.SetWorkers(updated.Server.Compute.Workers)
				slog.Info("config hot-reloaded",
					"log_level", updated.Server.LogLevel,
					"workers", agg.Workers(),
				)
			}); err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	httpMux := http.NewServeMux()
	httpMux.Handle("/", api.New(agg, m))
	if cfg.Server.Metrics.Enabled {
		expvar.Publish("computedemo", m.Vars())
		httpMux.Handle("GET /metrics", m.Handler())
		httpMux.Handle("GET /debug/vars", expvar.Handler())
	}

	// Bind before serving so that a busy port is fatal at startup.
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		slog.Error("failed to listen on HTTP port", "port", cfg.Port, "err", err)
		os.Exit(1)
	}

	httpSrv := &http.Server{
		Handler:           httpMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "addr", fmt.Sprintf("http://0.0.0.0:%d", cfg.Port))
		if err := httpSrv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("computedemo-server shutting down")

	sctx, scancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer scancel()
	if err := httpSrv.Shutdown(sctx); err != nil {
		slog.Warn("HTTP server shutdown incomplete", "err", err)
	}
}
