package model

import "time"

// RefreshSession is the durable half of a device session: at most one row
// per (user_id, device_id). Writing a new one displaces the previous token.
type RefreshSession struct {
	UserID    string    `json:"user_id"`
	DeviceID  string    `json:"device_id"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthResult is what sign-up and sign-in return: the user projection plus
// a fresh token pair for the device.
type AuthResult struct {
	User   AuthUser  `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

type Stats struct {
	TotalUsers     int `json:"total_users"`
	AdminUsers     int `json:"admin_users"`
	ActiveSessions int `json:"active_sessions"`
	RecentSignUps  int `json:"recent_sign_ups"`
}
