package domain

import "time"

// Session is one authenticated login. The secret key is generated at
// creation, returned to the caller exactly once, and only its hash is ever
// persisted.
type Session struct {
	ID         string
	UserID     string
	Key        string // plaintext; set on the value returned by Create, never stored
	KeyHash    string // argon2 encoded
	IP         string
	UserAgent  string
	CreatedAt  time.Time
	LastActive time.Time
}
