package apierror

import (
	"fmt"
	"net/http"
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// Unauthorized covers bad credentials, unknown users at sign-in and the
// defensive hash re-check during admin sign-up. The message stays generic so
// callers cannot tell an unknown email apart from a wrong password.
func Unauthorized() *APIError {
	return New("UNAUTHORIZED", "invalid credentials", "", http.StatusUnauthorized)
}

func Conflict(message string, details string) *APIError {
	return New("ALREADY_EXISTS", message, details, http.StatusConflict)
}

func NotFound(message string, details string) *APIError {
	return New("NOT_FOUND", message, details, http.StatusNotFound)
}
