package service

import (
	"context"
	"log/slog"
	"strings"

	"go-auth-service/internal/event"
	"go-auth-service/internal/model"
)

// AuditRecorder drains auth events off the bus and persists them. Requests
// never wait on the audit write; a failed write is logged and dropped.
type AuditRecorder struct {
	repo AuditStore
	bus  event.Bus
}

type AuditStore interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}

func NewAuditRecorder(repo AuditStore, bus event.Bus) *AuditRecorder {
	return &AuditRecorder{repo: repo, bus: bus}
}

// Run consumes the bus until ctx is cancelled. Call in its own goroutine.
func (r *AuditRecorder) Run(ctx context.Context) {
	events, unsubscribe := r.bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := r.repo.Log(ctx, entryFromEvent(e)); err != nil {
				slog.Error("audit write failed", "type", string(e.Type), "error", err)
			}
		}
	}
}

func (r *AuditRecorder) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	return r.repo.Query(ctx, query)
}

func entryFromEvent(e event.Event) model.AuditEntry {
	entry := model.AuditEntry{
		Action:     string(e.Type),
		OccurredAt: e.Timestamp,
		Status:     "success",
		Actor:      model.AuditActor{UserID: e.ActorID},
	}

	if payload, ok := e.Payload.(AuthEventPayload); ok {
		entry.Actor.Email = payload.Email
		entry.Actor.Role = payload.Role
		entry.DeviceID = payload.DeviceID
		entry.Error = payload.Error
	}

	if strings.HasSuffix(string(e.Type), ".failed") || entry.Error != "" {
		entry.Status = "failure"
	}

	return entry
}
