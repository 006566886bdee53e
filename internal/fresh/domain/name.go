package domain

import "strings"

// Name splits a display name into first/last fields the way the account and
// admin records store it.
type Name struct {
	First string
	Last  string
}

// ParseName splits a free-form display name on the first space. A single
// word becomes the first name with an empty last name.
func ParseName(full string) Name {
	full = strings.TrimSpace(full)
	first, last, found := strings.Cut(full, " ")
	if !found {
		return Name{First: full}
	}
	return Name{First: first, Last: strings.TrimSpace(last)}
}

// Full joins the name fields back into a display name.
func (n Name) Full() string {
	if n.Last == "" {
		return n.First
	}
	return n.First + " " + n.Last
}
