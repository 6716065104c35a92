package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-auth-service/internal/config"
	"go-auth-service/internal/handler"
	"go-auth-service/internal/middleware"
	"go-auth-service/internal/model"
)

type Handlers struct {
	Auth  *handler.AuthHandler
	User  *handler.UserHandler
	Stats *handler.StatsHandler
	Audit *handler.AuditHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, handlers Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/signup", handlers.Auth.SignUp)
			auth.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleAdmin)).Post("/signup-admin", handlers.Auth.SignUpAdmin)
			auth.Post("/signin", handlers.Auth.SignIn)
			auth.Post("/refresh", handlers.Auth.Refresh)
			auth.With(authMiddleware.RequireAuth).Post("/logout", handlers.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", handlers.Auth.Me)
		})

		api.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleAdmin)).Get("/users", handlers.User.List)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleAdmin)).Get("/stats", handlers.Stats.Get)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleAdmin)).Get("/audit", handlers.Audit.List)
	})

	return r
}
