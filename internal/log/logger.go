package log

import (
	"log/slog"
	"os"
	"strings"
)

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Component string
	Handler   slog.Handler
}

// DefaultConfig returns sensible defaults for logging
func DefaultConfig() Config {
	return Config{
		Level:     LevelFromEnv(),
		Component: "app",
	}
}

// New creates a logger with the given configuration. Every record
// carries the component name so the binaries can share one output.
func New(config Config) *slog.Logger {
	handler := config.Handler
	if handler == nil {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: config.Level,
		})
	}

	return slog.New(handler).With("component", config.Component)
}

// ForComponent returns a child logger tagged with a component name.
func ForComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}

// LevelFromEnv reads LOG_LEVEL, defaulting to info.
func LevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetDefault installs the logger as the process-wide default.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
