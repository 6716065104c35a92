package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go-auth-service/internal/middleware"
	"go-auth-service/internal/model"
	"go-auth-service/pkg/apierror"
)

// AuthFlows is the operation surface the HTTP layer needs from the
// orchestrator.
type AuthFlows interface {
	SignUp(ctx context.Context, email string, password string, deviceID string) (model.AuthResult, error)
	SignUpAdmin(ctx context.Context, email string, password string, deviceID string) (model.AuthResult, error)
	SignIn(ctx context.Context, email string, password string, deviceID string) (model.AuthResult, error)
	Logout(ctx context.Context, userID string, deviceID string) error
	Refresh(ctx context.Context, userID string, deviceID string) (model.TokenPair, error)
	ValidateRefresh(ctx context.Context, tokenString string) (*model.AuthClaims, error)
	GetUserByID(ctx context.Context, userID string) (model.AuthUser, error)
}

type AuthHandler struct {
	service AuthFlows
}

func NewAuthHandler(service AuthFlows) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	result, err := h.service.SignUp(r.Context(), payload.Email, payload.Password, payload.DeviceID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, result, nil)
}

func (h *AuthHandler) SignUpAdmin(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	result, err := h.service.SignUpAdmin(r.Context(), payload.Email, payload.Password, payload.DeviceID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, result, nil)
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	result, err := h.service.SignIn(r.Context(), payload.Email, payload.Password, payload.DeviceID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

// Refresh rotates the session identified by the presented refresh token;
// the (user, device) pair comes out of the token claims.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	payload.RefreshToken = strings.TrimSpace(payload.RefreshToken)
	if payload.RefreshToken == "" {
		writeError(w, apierror.New("BAD_REQUEST", "refresh_token is required", "refresh_token", http.StatusBadRequest))
		return
	}

	claims, err := h.service.ValidateRefresh(r.Context(), payload.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.service.Refresh(r.Context(), claims.UserID, claims.DeviceID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, pair, nil)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	// Body may name another device of the same user; default is the
	// device the access token was issued for.
	deviceID := claims.DeviceID
	var payload model.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.DeviceID) != "" {
		deviceID = strings.TrimSpace(payload.DeviceID)
	}

	if err := h.service.Logout(r.Context(), claims.UserID, deviceID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"logged_out": true}, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	user, err := h.service.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}
