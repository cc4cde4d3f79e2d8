package memory

import (
	"context"
	"sync"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/bnema/sessionsim/internal/ports"
)

// Sink keeps every delivered event in memory. A non-nil Fail hook lets tests
// reject selected events.
type Sink struct {
	mu     sync.Mutex
	events []domain.Event
	Fail   func(domain.Event) error
}

var _ ports.EventSink = (*Sink)(nil)

func New() *Sink {
	return &Sink{}
}

func (s *Sink) Deliver(ctx context.Context, event domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Fail != nil {
		if err := s.Fail(event); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *Sink) Events() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Event(nil), s.events...)
}

func (s *Sink) Count(name domain.EventName) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, event := range s.events {
		if event.Name == name {
			n++
		}
	}
	return n
}

func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
