package logging

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	ServiceName string // defaults to "authd"
	Environment string // defaults to "dev"
	Level       string // debug|info|warn|error, case-insensitive
}

// NewLogger builds the process-wide JSON logger. Every line carries the
// service and environment so aggregated logs from multiple deployments
// stay attributable.
func NewLogger(cfg Config) *slog.Logger {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "authd"
	}
	if cfg.Environment == "" {
		cfg.Environment = "dev"
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})

	return slog.New(handler).With(
		slog.String("service", cfg.ServiceName),
		slog.String("env", cfg.Environment),
	)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
