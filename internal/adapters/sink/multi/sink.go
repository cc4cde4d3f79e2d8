package multi

import (
	"context"
	"errors"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/bnema/sessionsim/internal/ports"
)

// Sink fans an event out to every wrapped sink. Delivery counts as failed if
// any of them fails.
type Sink struct {
	sinks []ports.EventSink
}

var _ ports.EventSink = (*Sink)(nil)

func New(sinks ...ports.EventSink) *Sink {
	filtered := make([]ports.EventSink, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			filtered = append(filtered, sink)
		}
	}
	return &Sink{sinks: filtered}
}

func (s *Sink) Deliver(ctx context.Context, event domain.Event) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Deliver(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
