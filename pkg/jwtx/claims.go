package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the credential bundle issued at login and presented as a
// bearer token on subsequent requests. It names the session and carries a
// snapshot of the user for routing decisions; the session store remains the
// source of truth for validity, which is why the bundle has no expiry of its
// own.
type SessionClaims struct {
	jwt.RegisteredClaims

	Session SessionRef `json:"session"`
	User    UserRef    `json:"user"`

	// Scope lists the role kinds the user held at login ("admin",
	// "account"). Authorization re-checks roles on each request; scope is
	// only a cheap routing hint.
	Scope []string `json:"scope,omitempty"`
}

// SessionRef names a session by id plus its secret key.
type SessionRef struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// UserRef is the user snapshot embedded at login time.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// NewSessionClaims builds the credential bundle for a fresh login.
func NewSessionClaims(
	sessionID, sessionKey string,
	userID, username string,
	scope []string,
	issuer string,
	now time.Time,
) SessionClaims {
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Session: SessionRef{ID: sessionID, Key: sessionKey},
		User:    UserRef{ID: userID, Username: username},
		Scope:   scope,
	}
}
