package session

import "strings"

const (
	// the demo backend ships with a single hardcoded admin account;
	// the admin flag is a UI gate only, the server makes its own checks
	adminUsername = "admin"

	// FallbackAccountNumber is used when the login response carries no
	// account number (and always after a bare token resume).
	FallbackAccountNumber = "UNKNOWN"
)

// Session is the in-memory record of the authenticated user. All fields
// are set and cleared together; a non-empty Token means authenticated.
type Session struct {
	Token         string
	Username      string
	IsAdmin       bool
	AccountNumber string
}

// Authenticated reports whether the session holds a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// isAdminUsername derives the admin flag from the username. Never
// persisted, always recomputed.
func isAdminUsername(username string) bool {
	return strings.EqualFold(username, adminUsername)
}
