package middleware

import (
	"encoding/json"
	"net/http"
)

// jsonEncode writes value to w. The middleware error paths (recovery,
// auth rejection, rate limiting) share it so their bodies stay in the
// standard response envelope.
func jsonEncode(w http.ResponseWriter, value any) error {
	return json.NewEncoder(w).Encode(value)
}
