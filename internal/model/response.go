package model

// APIResponse is the envelope every endpoint returns: exactly one of Data
// or Error is set, and Meta rides along on paginated lists only.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *Meta     `json:"meta,omitempty"`
}

// APIError is the wire shape of a failure. The HTTP status travels in the
// response code, not the body; Code is the stable machine-readable key.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Meta carries pagination counters for the audit listing.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
