package model

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")

	// ErrTokenNotFound covers both an absent and an expired refresh record;
	// the store's read path filters on expiry.
	ErrTokenNotFound = errors.New("token not found")
)
