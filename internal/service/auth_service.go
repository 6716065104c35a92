package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"go-auth-service/internal/cache"
	"go-auth-service/internal/event"
	"go-auth-service/internal/model"
	"go-auth-service/pkg/apierror"
)

const bcryptCost = bcrypt.DefaultCost

// UserStore is the user-record collaborator of the auth service.
type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindCredentialsByEmail(ctx context.Context, email string) (model.Credentials, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
	CountByRole(ctx context.Context, role string) (int, error)
}

// SessionStore is the durable refresh-token collaborator, keyed by
// (user, device). Delete must be delete-if-present.
type SessionStore interface {
	Save(ctx context.Context, userID string, deviceID string, token string, expiresAt time.Time) error
	Get(ctx context.Context, userID string, deviceID string) (model.RefreshSession, error)
	Delete(ctx context.Context, userID string, deviceID string) error
}

// TokenIssuer mints and validates signed token pairs.
type TokenIssuer interface {
	Generate(user model.User, deviceID string) (model.TokenPair, error)
	Validate(tokenString string, expectedType string) (*model.AuthClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// AuthService orchestrates sign-up, sign-in, logout and refresh over the
// user store, the refresh-token store and the access-token cache. Per
// (user, device) there is at most one live session; sign-in always
// displaces whatever session the device held before.
type AuthService struct {
	users    UserStore
	sessions SessionStore
	tokens   cache.TokenCache
	issuer   TokenIssuer
	bus      event.Bus
}

func NewAuthService(users UserStore, sessions SessionStore, tokens cache.TokenCache, issuer TokenIssuer, bus event.Bus) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		issuer:   issuer,
		bus:      bus,
	}
}

// AuthEventPayload rides on the event bus; the audit recorder persists it.
type AuthEventPayload struct {
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	DeviceID string `json:"device_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// SeedAdmin creates the initial admin account when no admin exists yet.
// The signup-admin endpoint is admin-gated, so a fresh database needs one
// seeded account to ever reach it. No-op once any admin is present.
func (s *AuthService) SeedAdmin(ctx context.Context, email string, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	admins, err := s.users.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if admins > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash seed admin password: %w", err)
	}

	now := time.Now().UTC()
	if err := s.users.Create(ctx, model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return fmt.Errorf("create seed admin: %w", err)
	}

	slog.Info("seeded initial admin account", "email", email)
	return nil
}

func (s *AuthService) SignUp(ctx context.Context, email string, password string, deviceID string) (model.AuthResult, error) {
	return s.signUp(ctx, email, password, deviceID, model.RoleNormal)
}

// SignUpAdmin forces the admin role and re-verifies the stored hash against
// the plaintext before issuing a session. The self-check guards against a
// hashing failure; when it trips, the user row is already persisted but no
// session is created.
func (s *AuthService) SignUpAdmin(ctx context.Context, email string, password string, deviceID string) (model.AuthResult, error) {
	return s.signUp(ctx, email, password, deviceID, model.RoleAdmin)
}

func (s *AuthService) signUp(ctx context.Context, email string, password string, deviceID string, role string) (model.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateSignUpInput(email, password, deviceID); err != nil {
		return model.AuthResult{}, err
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.AuthResult{}, err
	}
	if exists {
		return model.AuthResult{}, apierror.Conflict("email already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.AuthResult{}, err
	}

	if role == model.RoleAdmin {
		if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
			return model.AuthResult{}, apierror.Unauthorized()
		}
	}

	pair, err := s.issuer.Generate(user, deviceID)
	if err != nil {
		return model.AuthResult{}, err
	}

	// A failure here leaves the user created without a valid session; the
	// caller signs in again. No rollback is attempted.
	if err := s.storeSession(ctx, user.ID, deviceID, pair); err != nil {
		return model.AuthResult{}, err
	}

	s.publish(event.TypeUserSignedUp, user.ID, AuthEventPayload{
		Email:    user.Email,
		Role:     user.Role,
		DeviceID: deviceID,
	})

	return model.AuthResult{User: user.Public(), Tokens: pair}, nil
}

func (s *AuthService) SignIn(ctx context.Context, email string, password string, deviceID string) (model.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || strings.TrimSpace(deviceID) == "" {
		return model.AuthResult{}, apierror.New("BAD_REQUEST", "email, password and device_id are required", "", http.StatusBadRequest)
	}

	creds, err := s.users.FindCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// Same error as a wrong password, so callers cannot probe
			// which emails are registered.
			s.publish(event.TypeSignInFailed, "", AuthEventPayload{Email: email, DeviceID: deviceID, Error: "unknown email"})
			return model.AuthResult{}, apierror.Unauthorized()
		}
		return model.AuthResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		s.publish(event.TypeSignInFailed, creds.ID, AuthEventPayload{Email: email, DeviceID: deviceID, Error: "password mismatch"})
		return model.AuthResult{}, apierror.Unauthorized()
	}

	// The credentials projection only carried id and hash; fetch the full
	// record for the response and the token claims.
	user, err := s.users.FindByID(ctx, creds.ID)
	if err != nil {
		return model.AuthResult{}, err
	}

	pair, err := s.issuer.Generate(user, deviceID)
	if err != nil {
		return model.AuthResult{}, err
	}

	// Displace any prior session for this device before writing the new
	// one; the store holds at most one record per (user, device).
	if err := s.clearSession(ctx, user.ID, deviceID); err != nil {
		return model.AuthResult{}, err
	}
	if err := s.storeSession(ctx, user.ID, deviceID, pair); err != nil {
		return model.AuthResult{}, err
	}

	s.publish(event.TypeUserSignedIn, user.ID, AuthEventPayload{
		Email:    user.Email,
		Role:     user.Role,
		DeviceID: deviceID,
	})

	return model.AuthResult{User: user.Public(), Tokens: pair}, nil
}

// Logout removes both halves of the device session. Logging out a device
// with no session is not an error.
func (s *AuthService) Logout(ctx context.Context, userID string, deviceID string) error {
	if err := s.clearSession(ctx, userID, deviceID); err != nil {
		return err
	}

	s.publish(event.TypeUserSignedOut, userID, AuthEventPayload{DeviceID: deviceID})
	return nil
}

// Refresh rotates both tokens for an active device session and returns
// only the new pair.
func (s *AuthService) Refresh(ctx context.Context, userID string, deviceID string) (model.TokenPair, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.clearSession(ctx, user.ID, deviceID); err != nil {
		return model.TokenPair{}, err
	}

	pair, err := s.issuer.Generate(user, deviceID)
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.storeSession(ctx, user.ID, deviceID, pair); err != nil {
		return model.TokenPair{}, err
	}

	s.publish(event.TypeTokensRefreshed, user.ID, AuthEventPayload{
		Email:    user.Email,
		Role:     user.Role,
		DeviceID: deviceID,
	})

	return pair, nil
}

// ValidateAccess checks a presented access token for the middleware. A
// cached token that differs means a newer sign-in displaced this session;
// a cache miss is not proof of logout, the cache being ephemeral.
func (s *AuthService) ValidateAccess(ctx context.Context, tokenString string) (*model.AuthClaims, error) {
	claims, err := s.issuer.Validate(tokenString, "access")
	if err != nil {
		return nil, err
	}

	cached, found, err := s.tokens.Get(ctx, claims.UserID, claims.DeviceID)
	if err != nil {
		return nil, err
	}
	if found && cached != tokenString {
		return nil, apierror.Unauthorized()
	}

	return claims, nil
}

// ValidateRefresh checks a presented refresh token's signature, expiry and
// type, and that it is the live token for its device session. A rotated or
// logged-out token fails here even when its signature is still valid.
func (s *AuthService) ValidateRefresh(ctx context.Context, tokenString string) (*model.AuthClaims, error) {
	claims, err := s.issuer.Validate(tokenString, "refresh")
	if err != nil {
		return nil, err
	}

	stored, err := s.sessions.Get(ctx, claims.UserID, claims.DeviceID)
	if err != nil {
		if errors.Is(err, model.ErrTokenNotFound) {
			return nil, apierror.Unauthorized()
		}
		return nil, err
	}
	if stored.Token != tokenString {
		return nil, apierror.Unauthorized()
	}

	return claims, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID string) (model.AuthUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.AuthUser{}, err
	}
	return user.Public(), nil
}

// storeSession writes the refresh record and the cache entry concurrently.
// The two stores are independent; both must succeed, the first failure
// aborts the flow. No compensating rollback is attempted when only one
// write lands.
func (s *AuthService) storeSession(ctx context.Context, userID string, deviceID string, pair model.TokenPair) error {
	expiresAt := time.Now().UTC().Add(s.issuer.RefreshTTL())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.sessions.Save(gctx, userID, deviceID, pair.RefreshToken, expiresAt)
	})
	g.Go(func() error {
		return s.tokens.Save(gctx, userID, deviceID, pair.AccessToken, s.issuer.AccessTTL())
	})
	return g.Wait()
}

// clearSession removes both halves concurrently; both deletes are
// idempotent.
func (s *AuthService) clearSession(ctx context.Context, userID string, deviceID string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.sessions.Delete(gctx, userID, deviceID)
	})
	g.Go(func() error {
		return s.tokens.Remove(gctx, userID, deviceID)
	})
	return g.Wait()
}

func (s *AuthService) publish(typ event.Type, actorID string, payload AuthEventPayload) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		ActorID:   actorID,
	})
}

func validateSignUpInput(email string, password string, deviceID string) error {
	if email == "" || password == "" {
		return apierror.New("BAD_REQUEST", "email and password are required", "", http.StatusBadRequest)
	}
	if !strings.Contains(email, "@") {
		return apierror.New("BAD_REQUEST", "invalid email", email, http.StatusBadRequest)
	}
	if len(password) < 8 {
		return apierror.New("BAD_REQUEST", "password must be at least 8 characters", "", http.StatusBadRequest)
	}
	if strings.TrimSpace(deviceID) == "" {
		return apierror.New("BAD_REQUEST", "device_id is required", "", http.StatusBadRequest)
	}
	return nil
}
