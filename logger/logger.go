package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-galaxy/config"
)

// New builds the process logger from the log section of the config, installs it as the slog default
// and returns it. Output goes to stdout.
//
// Parameters:
//   - cfg: the log configuration
//
// Returns:
//   - *slog.Logger: the installed logger
func New(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(os.Stdout, cfg)
	slog.SetDefault(logger)
	logger.Debug("logger initialized", "level", cfg.Level, "format", cfg.Format)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
