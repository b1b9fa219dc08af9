package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/polkiloo/leatherdesk/internal/config"
)

// New creates a JSON slog.Logger honouring the configured level.
func New(cfg *config.Config) *slog.Logger {
	level := "info"
	if cfg != nil {
		level = cfg.LogLevel
	}
	return newWithWriter(os.Stdout, level)
}

func newWithWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(handler).With(slog.String("service", "leatherdesk"))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
