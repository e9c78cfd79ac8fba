// Package config loads service configuration from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Supported store backends.
const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// Config is the full service configuration.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `env:"VIGIL_ADDR, default=0.0.0.0:8660"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// LogFormat selects console (default) or json output.
	LogFormat string `env:"LOG_FORMAT, default=console"`

	// DBBackend selects the store implementation: bolt or sqlite.
	DBBackend string `env:"VIGIL_DB_BACKEND, default=bolt"`

	// DBPath is the database file path.
	DBPath string `env:"VIGIL_DB_PATH, default=vigil.db"`

	// TracingEnabled turns on the OTLP trace exporter.
	TracingEnabled bool `env:"VIGIL_TRACING_ENABLED, default=false"`

	// NotifyURL is the base URL of the messaging service. Empty disables
	// outbound notifications.
	NotifyURL string `env:"VIGIL_NOTIFY_URL"`

	// SMTP fallback for notifications when the messaging service is
	// unreachable. Empty host disables it.
	SMTPHost string `env:"VIGIL_SMTP_HOST"`
	SMTPPort int    `env:"VIGIL_SMTP_PORT, default=587"`
	SMTPUser string `env:"VIGIL_SMTP_USER"`
	SMTPPass string `env:"VIGIL_SMTP_PASS"`
	SMTPFrom string `env:"VIGIL_SMTP_FROM"`

	// MetricsInterval is how often queue gauges are refreshed.
	MetricsInterval time.Duration `env:"VIGIL_METRICS_INTERVAL, default=30s"`
}

// Load reads configuration from the environment.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if cfg.DBBackend != BackendBolt && cfg.DBBackend != BackendSQLite {
		return nil, fmt.Errorf("unknown VIGIL_DB_BACKEND %q (want bolt or sqlite)", cfg.DBBackend)
	}
	return &cfg, nil
}
