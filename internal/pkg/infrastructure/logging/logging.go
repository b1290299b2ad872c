package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	o11ylogging "github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

// NewLogger writes to w, which should never be stdout since that carries the
// observation document.
func NewLogger(w io.Writer, format string, level slog.Level, serviceName, serviceVersion string) *slog.Logger {
	var h slog.Handler

	if format == "json" {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		h = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}

	return slog.New(h).With(
		"service", serviceName,
		"version", serviceVersion,
	)
}

// NewRunContext tags the logger with a run id and stores it in ctx so that
// downstream code finds it through the chassis logging helpers.
func NewRunContext(ctx context.Context, logger *slog.Logger) (context.Context, *slog.Logger) {
	logger = logger.With("run_id", uuid.NewString())
	return o11ylogging.NewContextWithLogger(ctx, logger), logger
}

func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", "text":
		return "text", nil
	case "json":
		return f, nil
	default:
		return "", fmt.Errorf("invalid LOG_FORMAT %q (allowed: text, json)", s)
	}
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
