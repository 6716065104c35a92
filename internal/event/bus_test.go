package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBus(t *testing.T) {
	t.Run("delivers to all subscribers", func(t *testing.T) {
		bus := NewBus()

		first, cancelFirst := bus.Subscribe()
		defer cancelFirst()
		second, cancelSecond := bus.Subscribe()
		defer cancelSecond()

		bus.Publish(Event{ID: "e1", Type: TypeUserSignedIn})

		select {
		case e := <-first:
			assert.Equal(t, "e1", e.ID)
		case <-time.After(time.Second):
			t.Fatal("first subscriber did not receive the event")
		}

		select {
		case e := <-second:
			assert.Equal(t, "e1", e.ID)
		case <-time.After(time.Second):
			t.Fatal("second subscriber did not receive the event")
		}
	})

	t.Run("unsubscribe closes the channel", func(t *testing.T) {
		bus := NewBus()

		events, unsubscribe := bus.Subscribe()
		unsubscribe()

		_, open := <-events
		assert.False(t, open)
	})

	t.Run("publish does not block when a subscriber is saturated", func(t *testing.T) {
		bus := NewBus()

		_, unsubscribe := bus.Subscribe()
		defer unsubscribe()

		done := make(chan struct{})
		go func() {
			for i := 0; i < 500; i++ {
				bus.Publish(Event{Type: TypeUserSignedIn})
			}
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("publish blocked on a slow subscriber")
		}
	})

	t.Run("unsubscribe twice is safe", func(t *testing.T) {
		bus := NewBus()

		_, unsubscribe := bus.Subscribe()
		require.NotPanics(t, func() {
			unsubscribe()
			unsubscribe()
		})
	})
}
