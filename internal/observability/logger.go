package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"sales-dashboard/internal/config"
)

func NewLogger(cfg config.LoggerConfig) *slog.Logger {
	return NewLoggerTo(os.Stdout, cfg)
}

// NewLoggerTo builds the configured handler on top of out.
func NewLoggerTo(out io.Writer, cfg config.LoggerConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(cfg.Level),
		AddSource: true,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	return slog.New(handler).With("service", "sales-dashboard")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

type contextKey string

const RequestIDKey contextKey = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
