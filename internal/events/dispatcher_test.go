package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/linkdao/reputation/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSyncDispatcher(t *testing.T) *events.Dispatcher {
	t.Helper()

	return events.NewDispatcher(events.ModeSync, nil, zap.NewNop())
}

func TestPublish_InvokesHandler(t *testing.T) {
	t.Parallel()

	dispatcher := newSyncDispatcher(t)

	var received *events.ReviewRecorded

	dispatcher.Register(events.NameReviewRecorded, func(_ context.Context, payload []byte) error {
		decoded, err := events.Decode[events.ReviewRecorded](payload)
		if err != nil {
			return err
		}

		received = decoded

		return nil
	})

	err := dispatcher.Publish(t.Context(), events.NameReviewRecorded, events.ReviewRecorded{
		ReviewID:    "rev-1",
		OrderID:     "ord-1",
		RevieweeKey: "0xseller",
		Rating:      5,
	})
	require.NoError(t, err)

	require.NotNil(t, received)
	assert.Equal(t, "rev-1", received.ReviewID)
	assert.Equal(t, "0xseller", received.RevieweeKey)
	assert.Equal(t, int32(5), received.Rating)
}

func TestPublish_HandlerErrorPropagates(t *testing.T) {
	t.Parallel()

	dispatcher := newSyncDispatcher(t)
	handlerErr := errors.New("apply failed")

	dispatcher.Register(events.NameOrderCompleted, func(context.Context, []byte) error {
		return handlerErr
	})

	err := dispatcher.Publish(t.Context(), events.NameOrderCompleted, events.OrderCompleted{
		OrderID: "ord-1",
	})
	require.ErrorIs(t, err, handlerErr)
}

func TestPublish_NoHandlersIsNoOp(t *testing.T) {
	t.Parallel()

	dispatcher := newSyncDispatcher(t)

	err := dispatcher.Publish(t.Context(), "nonexistent_event_type", struct{}{})
	require.NoError(t, err)
}

func TestPublish_MultipleHandlersRunInOrder(t *testing.T) {
	t.Parallel()

	dispatcher := newSyncDispatcher(t)

	var order []string

	dispatcher.Register(events.NameDisputeResolved, func(context.Context, []byte) error {
		order = append(order, "first")
		return nil
	})
	dispatcher.Register(events.NameDisputeResolved, func(context.Context, []byte) error {
		order = append(order, "second")
		return nil
	})

	err := dispatcher.Publish(t.Context(), events.NameDisputeResolved, events.DisputeResolved{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDispatch_SyncModeDefersToPublish(t *testing.T) {
	t.Parallel()

	dispatcher := newSyncDispatcher(t)

	invoked := false

	dispatcher.Register(events.NameOrderCompleted, func(context.Context, []byte) error {
		invoked = true
		return nil
	})

	err := dispatcher.Dispatch(t.Context(), nil, events.NameOrderCompleted, events.OrderCompleted{
		OrderID: "ord-1",
	})
	require.NoError(t, err)
	assert.False(t, invoked, "handlers must not run before the originating write commits")
}

func TestPublish_OutboxModeIsNoOp(t *testing.T) {
	t.Parallel()

	dispatcher := events.NewDispatcher(events.ModeOutbox, nil, zap.NewNop())

	invoked := false

	dispatcher.Register(events.NameOrderCompleted, func(context.Context, []byte) error {
		invoked = true
		return nil
	})

	err := dispatcher.Publish(t.Context(), events.NameOrderCompleted, events.OrderCompleted{
		OrderID: "ord-1",
	})
	require.NoError(t, err)
	assert.False(t, invoked, "outbox mode delivers through the worker, not inline")
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected events.Mode
		wantErr  bool
	}{
		{"", events.ModeSync, false},
		{"sync", events.ModeSync, false},
		{"outbox", events.ModeOutbox, false},
		{"queue", events.ModeSync, true},
	}

	for _, tt := range tests {
		mode, err := events.ParseMode(tt.input)
		if tt.wantErr {
			require.Error(t, err)
			continue
		}

		require.NoError(t, err)
		assert.Equal(t, tt.expected, mode)
	}
}
