package jsonl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/bnema/sessionsim/internal/ports"
)

const (
	fileMode = 0o600
	dirMode  = 0o700
)

type record struct {
	domain.Event
	Query string `json:"query"`
}

// Sink appends delivered events to a local file, one JSON object per line.
type Sink struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

var _ ports.EventSink = (*Sink)(nil)

func Open(path string) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return nil, fmt.Errorf("create events directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return nil, fmt.Errorf("open events file: %w", err)
	}

	return &Sink{file: file, enc: json.NewEncoder(file)}, nil
}

func (s *Sink) Deliver(ctx context.Context, event domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return os.ErrClosed
	}
	if err := s.enc.Encode(record{Event: event, Query: event.Query()}); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
