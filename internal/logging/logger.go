// Package logging builds the leveled slog.Logger used across ssim. Records
// are rendered by charmbracelet/log so they match the rest of the terminal
// output.
package logging

import (
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// LevelTrace sits below Debug and enables per-event logging.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps "trace", "debug", "info", "warn" and "error"
// (case-insensitive) to a slog.Level. Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace
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

type Options struct {
	Level  string
	JSON   bool
	Prefix string
}

func NewLogger(w io.Writer, opts Options) *slog.Logger {
	formatter := charmlog.TextFormatter
	if opts.JSON {
		formatter = charmlog.JSONFormatter
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(ParseLevel(opts.Level)),
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
		Formatter:       formatter,
	})

	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
