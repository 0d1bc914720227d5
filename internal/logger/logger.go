package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alkime/visualizer/internal/config"
)

// SetupLogger configures structured logging based on settings and installs
// it as the default logger. Stdout belongs to the visualizer, so records go
// to the configured log file as JSON, or to stderr as text. The returned
// closer releases the log file, if any.
func SetupLogger(cfg *config.Settings, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	// Determine log level
	logLevel := ParseLevel(cfg.LogLevel)
	if cfg.Env == config.EnvDevelopment {
		logLevel = slog.LevelDebug
	}

	var (
		handler slog.Handler
		closer  io.Closer = nopCloser{}
	)

	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		handler = slog.NewJSONHandler(f, opts)
		closer = f
	} else {
		handler = slog.NewTextHandler(stderr, opts)
	}

	logger := slog.New(handler)

	// Set as default logger
	slog.SetDefault(logger)

	return logger, closer, nil
}

// ParseLevel maps a level name to a slog level, defaulting to warn.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
