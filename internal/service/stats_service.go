package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"go-auth-service/internal/model"
)

type UserCounter interface {
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role string) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

type SessionCounter interface {
	CountActive(ctx context.Context) (int, error)
}

// StatsService aggregates the admin dashboard counters. The four counts are
// independent reads, gathered concurrently.
type StatsService struct {
	users        UserCounter
	sessions     SessionCounter
	signUpWindow time.Duration
}

func NewStatsService(users UserCounter, sessions SessionCounter, signUpWindow time.Duration) *StatsService {
	if signUpWindow <= 0 {
		signUpWindow = 24 * time.Hour
	}
	return &StatsService{users: users, sessions: sessions, signUpWindow: signUpWindow}
}

func (s *StatsService) Snapshot(ctx context.Context) (model.Stats, error) {
	var stats model.Stats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.users.Count(gctx)
		stats.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.users.CountByRole(gctx, model.RoleAdmin)
		stats.AdminUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.sessions.CountActive(gctx)
		stats.ActiveSessions = n
		return err
	})
	g.Go(func() error {
		n, err := s.users.CountCreatedSince(gctx, time.Now().UTC().Add(-s.signUpWindow))
		stats.RecentSignUps = n
		return err
	})

	if err := g.Wait(); err != nil {
		return model.Stats{}, err
	}
	return stats, nil
}
