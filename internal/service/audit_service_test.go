package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-auth-service/internal/event"
	"go-auth-service/internal/model"
)

type memAuditStore struct {
	mu      sync.Mutex
	entries []model.AuditEntry
}

func (s *memAuditStore) Log(ctx context.Context, entry model.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *memAuditStore) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]model.AuditEntry(nil), s.entries...)
	return out, model.Meta{Total: len(out)}, nil
}

func (s *memAuditStore) wait(t *testing.T, n int) []model.AuditEntry {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		if len(s.entries) >= n {
			out := append([]model.AuditEntry(nil), s.entries...)
			s.mu.Unlock()
			return out
		}
		s.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d audit entries", n)
	return nil
}

func TestAuditRecorder_Run(t *testing.T) {
	bus := event.NewBus()
	store := &memAuditStore{}
	recorder := NewAuditRecorder(store, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go recorder.Run(ctx)

	// Give Run a moment to subscribe before publishing.
	time.Sleep(20 * time.Millisecond)

	bus.Publish(event.Event{
		ID:        "e1",
		Type:      event.TypeUserSignedIn,
		ActorID:   "u1",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Payload:   AuthEventPayload{Email: "a@x.com", Role: model.RoleNormal, DeviceID: "d1"},
	})
	bus.Publish(event.Event{
		ID:        "e2",
		Type:      event.TypeSignInFailed,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Payload:   AuthEventPayload{Email: "ghost@x.com", DeviceID: "d1", Error: "unknown email"},
	})

	entries := store.wait(t, 2)

	assert.Equal(t, string(event.TypeUserSignedIn), entries[0].Action)
	assert.Equal(t, "success", entries[0].Status)
	assert.Equal(t, "u1", entries[0].Actor.UserID)
	assert.Equal(t, "a@x.com", entries[0].Actor.Email)
	assert.Equal(t, "d1", entries[0].DeviceID)

	assert.Equal(t, string(event.TypeSignInFailed), entries[1].Action)
	assert.Equal(t, "failure", entries[1].Status)
	assert.Equal(t, "unknown email", entries[1].Error)
}

func TestEntryFromEvent(t *testing.T) {
	t.Run("marks failure on error payloads", func(t *testing.T) {
		entry := entryFromEvent(event.Event{
			Type:    event.TypeSignInFailed,
			Payload: AuthEventPayload{Error: "password mismatch"},
		})
		assert.Equal(t, "failure", entry.Status)
	})

	t.Run("ignores foreign payload types", func(t *testing.T) {
		entry := entryFromEvent(event.Event{
			Type:    event.TypeUserSignedOut,
			ActorID: "u1",
			Payload: map[string]string{"unexpected": "shape"},
		})
		require.Equal(t, "u1", entry.Actor.UserID)
		assert.Equal(t, "success", entry.Status)
		assert.Empty(t, entry.DeviceID)
	})
}
