package domain

import "time"

// NoteEntry is one free-text note on an account, stamped with the admin who
// wrote it. The note log is append-only.
type NoteEntry struct {
	ID        string
	Data      string
	AdminID   string
	AdminName string
	CreatedAt time.Time
}

// StatusEntry is one status assignment, stamped with the admin who set it.
// The newest entry doubles as the account's current status; the full list
// is the append-only history.
type StatusEntry struct {
	ID        string
	StatusID  string
	Name      string
	AdminID   string
	AdminName string
	CreatedAt time.Time
}

// Account is the customer role record.
type Account struct {
	ID        string
	Name      Name
	User      *UserLink
	Status    *StatusEntry // current status, nil until first assignment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns the account's display name.
func (a *Account) FullName() string { return a.Name.Full() }
