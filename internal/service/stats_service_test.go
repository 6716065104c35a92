package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-auth-service/internal/model"
)

type stubUserCounter struct {
	total  int
	admins int
	recent int
	err    error
}

func (s *stubUserCounter) Count(ctx context.Context) (int, error) {
	return s.total, s.err
}

func (s *stubUserCounter) CountByRole(ctx context.Context, role string) (int, error) {
	return s.admins, s.err
}

func (s *stubUserCounter) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return s.recent, s.err
}

type stubSessionCounter struct {
	active int
	err    error
}

func (s *stubSessionCounter) CountActive(ctx context.Context) (int, error) {
	return s.active, s.err
}

func TestStatsService_Snapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("gathers all counters", func(t *testing.T) {
		svc := NewStatsService(
			&stubUserCounter{total: 42, admins: 3, recent: 7},
			&stubSessionCounter{active: 12},
			24*time.Hour,
		)

		stats, err := svc.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.Stats{TotalUsers: 42, AdminUsers: 3, ActiveSessions: 12, RecentSignUps: 7}, stats)
	})

	t.Run("any counter failure aborts the snapshot", func(t *testing.T) {
		svc := NewStatsService(
			&stubUserCounter{total: 42},
			&stubSessionCounter{err: errors.New("db down")},
			24*time.Hour,
		)

		_, err := svc.Snapshot(ctx)
		assert.ErrorContains(t, err, "db down")
	})
}
