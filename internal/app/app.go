package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-auth-service/internal/cache"
	"go-auth-service/internal/config"
	"go-auth-service/internal/database"
	"go-auth-service/internal/event"
	"go-auth-service/internal/handler"
	"go-auth-service/internal/middleware"
	"go-auth-service/internal/repository"
	"go-auth-service/internal/router"
	"go-auth-service/internal/service"
	"go-auth-service/internal/token"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	slog.Info("database ready")

	issuer, err := token.NewIssuer(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	tokenCache := cache.NewMemoryTokenCache()
	bus := event.NewBus()

	authService := service.NewAuthService(userRepo, sessionRepo, tokenCache, issuer, bus)
	if err := authService.SeedAdmin(context.Background(), cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed initial admin: %w", err)
	}
	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)

	auditRecorder := service.NewAuditRecorder(auditRepo, bus)
	auditHandler := handler.NewAuditHandler(auditRecorder)

	statsService := service.NewStatsService(userRepo, sessionRepo, cfg.StatsSignUpWindow)
	statsHandler := handler.NewStatsHandler(statsService)
	userHandler := handler.NewUserHandler(userRepo)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:  authHandler,
		User:  userHandler,
		Stats: statsHandler,
		Audit: auditHandler,
	})

	backgroundCtx, backgroundCancel := context.WithCancel(context.Background())
	go auditRecorder.Run(backgroundCtx)
	go tokenCache.StartCleanupTicker(backgroundCtx, cfg.CacheCleanupInterval)
	go sweepExpiredSessions(backgroundCtx, sessionRepo, cfg.SessionSweepInterval)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				backgroundCancel()
			},
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		for _, cleanup := range a.cleanupFuncs {
			cleanup()
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}

// sweepExpiredSessions periodically clears refresh rows past expiry so the
// table does not grow without bound.
func sweepExpiredSessions(ctx context.Context, sessions *repository.SessionRepository, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sessions.CleanExpired(ctx)
			if err != nil {
				slog.Error("session sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("expired sessions removed", "count", removed)
			}
		}
	}
}
