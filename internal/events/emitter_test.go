package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []*Event
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel()

	l, _ := logger.NewTestLogger()

	t.Run("no handlers", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(l)
		event, err := NewEvent(TypeSessionEnded, SessionEndedPayload{})
		require.NoError(t, err)
		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("all handlers see the event", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(l)
		first := &recordingHandler{err: errors.New("first failed")}
		second := &recordingHandler{}
		emitter.RegisterHandler(first)
		emitter.RegisterHandler(second)

		event, err := NewEvent(TypeSessionEnded, SessionEndedPayload{})
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.EqualError(t, err, "first failed")
		assert.Len(t, first.events, 1)
		require.Len(t, second.events, 1)
		assert.Same(t, event, second.events[0])
	})

	t.Run("handler funcs", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(nil)
		var seen string
		emitter.RegisterHandler(HandlerFunc(func(_ context.Context, e *Event) error {
			seen = e.Type
			return nil
		}))

		event, err := NewEvent(TypeSessionEnded, nil)
		require.NoError(t, err)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, TypeSessionEnded, seen)
	})
}

func TestSessionEndedPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	payload := SessionEndedPayload{
		UserID:         uuid.New(),
		SessionID:      uuid.New(),
		EndedAt:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		TotalCards:     12,
		CorrectAnswers: 10,
	}
	event, err := NewEvent(TypeSessionEnded, payload)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)

	var decoded SessionEndedPayload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)
}
