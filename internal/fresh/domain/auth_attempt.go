package domain

import "time"

// AuthAttempt records one failed login. Rows are append-only and are only
// ever removed by housekeeping; the guard counts them inside a sliding
// window to decide throttling.
type AuthAttempt struct {
	ID        string
	IP        string
	Username  string
	CreatedAt time.Time
}
