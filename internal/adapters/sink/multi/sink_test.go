package multi

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/sessionsim/internal/adapters/sink/memory"
	"github.com/bnema/sessionsim/internal/domain"
	"github.com/bnema/sessionsim/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSinkDeliversToEverySink(t *testing.T) {
	first := memory.New()
	second := memory.New()
	sink := New(first, nil, second)

	require.NoError(t, sink.Deliver(context.Background(), domain.Event{Name: domain.EventScroll}))

	assert.Equal(t, 1, first.Len())
	assert.Equal(t, 1, second.Len())
}

func TestSinkJoinsErrorsButKeepsDelivering(t *testing.T) {
	failing := mocks.NewMockEventSink(t)
	boom := errors.New("boom")
	failing.EXPECT().Deliver(mock.Anything, mock.Anything).Return(boom).Once()
	after := memory.New()

	err := New(failing, after).Deliver(context.Background(), domain.Event{Name: domain.EventScroll})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, after.Len())
}
