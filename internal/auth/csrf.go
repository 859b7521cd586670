package auth

import "github.com/google/uuid"

// NewCSRFToken returns a fresh opaque token for the double-submit cookie
// scheme. The value carries no meaning; it only has to be unguessable and
// unreadable cross-origin.
func NewCSRFToken() string {
	return uuid.NewString()
}
