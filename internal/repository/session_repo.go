package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-auth-service/internal/model"
)

// SessionRepository is the durable refresh-token store. The primary key on
// (user_id, device_id) keeps at most one live token per device; Save
// displaces whatever was there before.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Save(ctx context.Context, userID string, deviceID string, token string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO refresh_sessions (user_id, device_id, token, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, device_id)
		 DO UPDATE SET token = EXCLUDED.token,
		               created_at = EXCLUDED.created_at,
		               expires_at = EXCLUDED.expires_at`,
		userID, deviceID, token, time.Now().UTC(), expiresAt)
	if err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, userID string, deviceID string) (model.RefreshSession, error) {
	var s model.RefreshSession
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, device_id, token, created_at, expires_at
		 FROM refresh_sessions
		 WHERE user_id = $1 AND device_id = $2 AND expires_at > now()`,
		userID, deviceID).
		Scan(&s.UserID, &s.DeviceID, &s.Token, &s.CreatedAt, &s.ExpiresAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.RefreshSession{}, model.ErrTokenNotFound
	}
	if err != nil {
		return model.RefreshSession{}, fmt.Errorf("get refresh session: %w", err)
	}
	return s, nil
}

// Delete is delete-if-present: removing a session that does not exist is
// not an error.
func (r *SessionRepository) Delete(ctx context.Context, userID string, deviceID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM refresh_sessions WHERE user_id = $1 AND device_id = $2`,
		userID, deviceID)
	if err != nil {
		return fmt.Errorf("delete refresh session: %w", err)
	}
	return nil
}

func (r *SessionRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM refresh_sessions WHERE expires_at > now()`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active sessions: %w", err)
	}
	return count, nil
}

func (r *SessionRepository) CleanExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM refresh_sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("clean expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
