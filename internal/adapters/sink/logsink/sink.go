package logsink

import (
	"context"
	"log/slog"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/bnema/sessionsim/internal/logging"
	"github.com/bnema/sessionsim/internal/ports"
)

// Sink writes each event as one structured log record at trace level unless
// another level is given.
type Sink struct {
	logger *slog.Logger
	level  slog.Level
}

var _ ports.EventSink = (*Sink)(nil)

func New(logger *slog.Logger, level *slog.Level) *Sink {
	lvl := logging.LevelTrace
	if level != nil {
		lvl = *level
	}
	return &Sink{logger: logger.With("component", "events"), level: lvl}
}

func (s *Sink) Deliver(ctx context.Context, event domain.Event) error {
	if !s.logger.Enabled(ctx, s.level) {
		return nil
	}

	s.logger.Log(ctx, s.level, "event",
		"name", event.Name,
		"session", event.SessionID,
		"terminal", event.Terminal,
		"value", event.Value,
		"location", event.Params["location"],
		"generation", event.Generation,
	)
	return nil
}
