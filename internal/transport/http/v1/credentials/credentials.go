package credentials

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// FromRequest extracts the session credential from the Authorization
// header. Returns an empty string when none is present; the caller
// decides whether that means guest or unauthorized.
func FromRequest(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, bearerPrefix) {
		return ""
	}

	return strings.TrimPrefix(auth, bearerPrefix)
}
