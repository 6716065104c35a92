package model

import "time"

const (
	RoleNormal = "normal"
	RoleAdmin  = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Credentials is the narrow sign-in projection: only what password
// verification needs. The full user is re-fetched by id afterwards.
type Credentials struct {
	ID           string
	PasswordHash string
}

// AuthUser is the public projection returned by the auth endpoints.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u User) Public() AuthUser {
	return AuthUser{ID: u.ID, Email: u.Email, Role: u.Role}
}

type AuthClaims struct {
	UserID   string `json:"sub"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	DeviceID string `json:"did"`
	Type     string `json:"typ"`
	TokenID  string `json:"jti"`
}
