package logsink

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/bnema/sessionsim/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkLogsAtConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&buf, logging.Options{Level: "info"})
	level := slog.LevelInfo
	sink := New(logger, &level)

	err := sink.Deliver(context.Background(), domain.Event{
		SessionID: "s-1",
		Name:      domain.EventPageView,
		Params:    map[string]string{"location": "https://target.example/news"},
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "page_view")
	assert.Contains(t, buf.String(), "s-1")
}

func TestSinkDefaultsToTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	sink := New(logging.NewLogger(&buf, logging.Options{Level: "debug"}), nil)

	require.NoError(t, sink.Deliver(context.Background(), domain.Event{Name: domain.EventScroll}))
	assert.Empty(t, buf.String())
}
