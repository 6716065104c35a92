package cache

import (
	"context"
	"time"
)

// TokenCache is the ephemeral access-token store: one entry per
// (user, device), displaced on every new issue and removed on logout.
// Save and Remove mirror the refresh store's delete-if-present semantics.
type TokenCache interface {
	Save(ctx context.Context, userID string, deviceID string, token string, ttl time.Duration) error
	Get(ctx context.Context, userID string, deviceID string) (string, bool, error)
	Remove(ctx context.Context, userID string, deviceID string) error
}
