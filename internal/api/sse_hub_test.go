package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"levelup/internal/logx"
)

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(logx.NewDefaultLogger())

	a := make(chan Event, 16)
	b := make(chan Event, 16)
	hub.register <- SSEClient{Channel: a}
	hub.register <- SSEClient{Channel: b}

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(EventTimerTick, map[string]interface{}{"remaining": 42})

	for _, ch := range []chan Event{a, b} {
		select {
		case ev := <-ch:
			assert.Equal(t, EventTimerTick, ev.EventType)
			assert.EqualValues(t, 42, ev.Data["remaining"])
			assert.False(t, ev.Timestamp.IsZero())
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestHubUnregisterClosesChannel(t *testing.T) {
	hub := NewHub(nil)

	ch := make(chan Event, 16)
	hub.register <- SSEClient{Channel: ch}
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.unregister <- SSEClient{Channel: ch}
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-ch
	assert.False(t, open)
}

func TestHubDropsWhenClientIsFull(t *testing.T) {
	hub := NewHub(nil)

	// Capacity 1 so the second event has nowhere to go.
	ch := make(chan Event, 1)
	hub.register <- SSEClient{Channel: ch}
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(EventWarning, map[string]interface{}{"n": 1})
	hub.Broadcast(EventWarning, map[string]interface{}{"n": 2})

	require.Eventually(t, func() bool { return len(ch) == 1 }, time.Second, 5*time.Millisecond)
	ev := <-ch
	assert.EqualValues(t, 1, ev.Data["n"])
}
