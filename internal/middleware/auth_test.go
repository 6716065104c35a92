package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-auth-service/internal/model"
)

type stubValidator struct {
	claims *model.AuthClaims
	err    error
	seen   string
}

func (v *stubValidator) ValidateAccess(ctx context.Context, tokenString string) (*model.AuthClaims, error) {
	v.seen = tokenString
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func okHandler(t *testing.T, wantClaims *model.AuthClaims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantClaims, claims)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	claims := &model.AuthClaims{UserID: "u1", DeviceID: "d1", Role: model.RoleNormal}

	t.Run("passes a valid bearer token and stores claims", func(t *testing.T) {
		validator := &stubValidator{claims: claims}
		mw := NewAuthMiddleware(validator)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer the-token")
		rec := httptest.NewRecorder()

		mw.RequireAuth(okHandler(t, claims)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "the-token", validator.seen)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		mw := NewAuthMiddleware(&stubValidator{claims: claims})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		rec := httptest.NewRecorder()

		mw.RequireAuth(okHandler(t, claims)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a non-bearer scheme", func(t *testing.T) {
		mw := NewAuthMiddleware(&stubValidator{claims: claims})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()

		mw.RequireAuth(okHandler(t, claims)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects when the validator fails", func(t *testing.T) {
		mw := NewAuthMiddleware(&stubValidator{err: errors.New("expired")})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer stale-token")
		rec := httptest.NewRecorder()

		mw.RequireAuth(okHandler(t, claims)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthMiddleware_RequireRoles(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allows a matching role", func(t *testing.T) {
		validator := &stubValidator{claims: &model.AuthClaims{UserID: "u1", DeviceID: "d1", Role: model.RoleAdmin}}
		mw := NewAuthMiddleware(validator)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		req.Header.Set("Authorization", "Bearer t")
		rec := httptest.NewRecorder()

		mw.RequireAuth(mw.RequireRoles(model.RoleAdmin)(next)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("forbids a non-matching role", func(t *testing.T) {
		validator := &stubValidator{claims: &model.AuthClaims{UserID: "u1", DeviceID: "d1", Role: model.RoleNormal}}
		mw := NewAuthMiddleware(validator)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		req.Header.Set("Authorization", "Bearer t")
		rec := httptest.NewRecorder()

		mw.RequireAuth(mw.RequireRoles(model.RoleAdmin)(next)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("requires authentication first", func(t *testing.T) {
		mw := NewAuthMiddleware(&stubValidator{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		rec := httptest.NewRecorder()

		mw.RequireRoles(model.RoleAdmin)(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
