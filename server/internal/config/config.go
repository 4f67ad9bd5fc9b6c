package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultPort            = 8080
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 10 * time.Second
)

// Config is the full server configuration.
type Config struct {
	// Port is the TCP port the HTTP server binds on all interfaces.
	Port uint16 `yaml:"-" env:"PORT" envDefault:"8080"`

	// TracingEndpoint is the OTLP/HTTP URL spans are exported to.
	TracingEndpoint string `yaml:"-" env:"COMPUTEDEMO_OTEL_ENDPOINT"`

	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds the settings read from the `server:` YAML section.
type ServerConfig struct {
	// LogLevel is one of: debug | info | warn | error.
	LogLevel string `yaml:"log_level"`

	// ShutdownTimeout bounds how long in-flight requests may run after a
	// termination signal.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	Compute ComputeConfig `yaml:"compute"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ComputeConfig tunes the aggregator.
type ComputeConfig struct {
	// Workers is the number of partitions per request. Zero selects GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// MetricsConfig controls the metrics endpoints.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Level returns the slog level named by LogLevel. Load has already
// validated the name.
func (s ServerConfig) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty) and the process environment.
func Load(path string) (*Config, error) {
	return load(path, env.Options{})
}

// load is Load with explicit env options so tests can supply an environment.
func load(path string, opts env.Options) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("server config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("server config: parse yaml: %w", err)
		}
	}

	if v, ok := lookupEnv(opts, "PORT"); ok && v == "" {
		return nil, fmt.Errorf("server config: PORT is set but empty")
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("server config: parse env: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}
	return cfg, nil
}

// lookupEnv reads key from the environment env.Parse will see.
func lookupEnv(opts env.Options, key string) (string, bool) {
	if opts.Environment != nil {
		v, ok := opts.Environment[key]
		return v, ok
	}
	return os.LookupEnv(key)
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Port: DefaultPort,
		Server: ServerConfig{
			LogLevel:        DefaultLogLevel,
			ShutdownTimeout: DefaultShutdownTimeout,
			Metrics:         MetricsConfig{Enabled: true},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	switch strings.ToLower(cfg.Server.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("server.log_level %q unknown: want debug|info|warn|error", cfg.Server.LogLevel)
	}
	if cfg.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	if cfg.Server.Compute.Workers < 0 {
		return fmt.Errorf("server.compute.workers %d must not be negative", cfg.Server.Compute.Workers)
	}
	return nil
}
