package domain

import "time"

// Status is an assignable account state, identified by a "{pivot}-{name}"
// slug (e.g. "account-happy").
type Status struct {
	ID        string
	Pivot     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusID builds the canonical slug id for a pivot/name pair.
func StatusID(pivot, name string) string {
	return slugify(pivot) + "-" + slugify(name)
}
