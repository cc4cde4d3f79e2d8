package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkRecordsEvents(t *testing.T) {
	sink := New()

	require.NoError(t, sink.Deliver(context.Background(), domain.Event{Name: domain.EventPageView}))
	require.NoError(t, sink.Deliver(context.Background(), domain.Event{Name: domain.EventScroll}))
	require.NoError(t, sink.Deliver(context.Background(), domain.Event{Name: domain.EventPageView}))

	assert.Equal(t, 3, sink.Len())
	assert.Equal(t, 2, sink.Count(domain.EventPageView))
	assert.Equal(t, domain.EventScroll, sink.Events()[1].Name)
}

func TestSinkFailHookAndCancelledContext(t *testing.T) {
	sink := New()
	sink.Fail = func(event domain.Event) error {
		if event.Name == domain.EventConversion {
			return errors.New("rejected")
		}
		return nil
	}

	require.Error(t, sink.Deliver(context.Background(), domain.Event{Name: domain.EventConversion}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sink.Deliver(ctx, domain.Event{Name: domain.EventScroll}), context.Canceled)

	assert.Zero(t, sink.Len())
}
