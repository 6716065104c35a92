package token

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-auth-service/internal/model"
	"go-auth-service/pkg/apierror"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Issuer mints HS256-signed access/refresh token pairs for a
// (user, device) and validates presented tokens.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL time.Duration, refreshTTL time.Duration) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("token signing secret is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive")
	}

	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

func (i *Issuer) AccessTTL() time.Duration {
	return i.accessTTL
}

func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

// Generate returns a fresh token pair for the user on the given device.
// Each call produces new jti values, so pairs are never repeated.
func (i *Issuer) Generate(user model.User, deviceID string) (model.TokenPair, error) {
	now := time.Now().UTC()

	accessToken, err := i.sign(jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"did":   deviceID,
		"typ":   TypeAccess,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(i.accessTTL).Unix(),
	})
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := i.sign(jwt.MapClaims{
		"sub": user.ID,
		"did": deviceID,
		"typ": TypeRefresh,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(i.refreshTTL).Unix(),
	})
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(i.accessTTL.Seconds()),
	}, nil
}

func (i *Issuer) sign(claims jwt.MapClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Validate checks the signature, expiry and typ claim of a presented token
// and extracts the claims the middleware and refresh endpoint need.
func (i *Issuer) Validate(tokenString string, expectedType string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierror.New("UNAUTHORIZED", "invalid token signing method", "", http.StatusUnauthorized)
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apierror.New("UNAUTHORIZED", "invalid token", "", http.StatusUnauthorized)
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.New("UNAUTHORIZED", "invalid token claims", "", http.StatusUnauthorized)
	}

	typ, _ := claimsMap["typ"].(string)
	if expectedType != "" && typ != expectedType {
		return nil, apierror.New("UNAUTHORIZED", "invalid token type", "", http.StatusUnauthorized)
	}

	claims := &model.AuthClaims{Type: typ}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Email, _ = claimsMap["email"].(string)
	claims.Role, _ = claimsMap["role"].(string)
	claims.DeviceID, _ = claimsMap["did"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, apierror.New("UNAUTHORIZED", "invalid token subject", "", http.StatusUnauthorized)
	}
	if claims.DeviceID == "" {
		return nil, apierror.New("UNAUTHORIZED", "invalid token device", "", http.StatusUnauthorized)
	}

	return claims, nil
}
