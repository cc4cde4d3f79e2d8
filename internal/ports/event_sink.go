package ports

import (
	"context"

	"github.com/bnema/sessionsim/internal/domain"
)

// EventSink receives delivered events. Implementations must be safe for use
// from the emitter's dispatcher goroutine.
type EventSink interface {
	Deliver(ctx context.Context, event domain.Event) error
}
