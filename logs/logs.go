package logs

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"contactus-backend/config"
)

// New builds a logger from config. Output fans out to stdout and, when
// enabled, a size-rotated file.
func New(cfg *config.Config) *slog.Logger {
	return NewWithWriter(cfg, nil)
}

// NewWithWriter is New with an extra writer appended to the outputs.
func NewWithWriter(cfg *config.Config, extra io.Writer) *slog.Logger {
	isDev := cfg.IsDevelopment()
	out := cfg.Logging

	var writers []io.Writer
	if out.Stdout || (!out.File.Enabled && extra == nil) {
		writers = append(writers, os.Stdout)
	}
	if out.File.Enabled {
		writers = append(writers, &lumberjack.Logger{
			Filename:   out.File.Path,
			MaxSize:    out.File.MaxSizeMB,
			MaxBackups: out.File.MaxBackups,
			MaxAge:     out.File.MaxAgeDays,
			Compress:   out.File.Compress,
		})
	}
	if extra != nil {
		writers = append(writers, extra)
	}

	w := io.MultiWriter(writers...)
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(out.Level),
		AddSource: isDev,
	}

	var h slog.Handler
	if strings.EqualFold(out.Format, "text") && isDev {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h).With(
		slog.String("service", "contactus"),
		slog.String("env", cfg.Server.Environment),
	)
}

func Default() *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(h).With(slog.String("service", "contactus"))
}

func ParseLevel(s string) slog.Level {
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
