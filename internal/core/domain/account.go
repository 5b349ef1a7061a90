package domain

import (
	"slices"
	"time"
)

// Account models a registered identity.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the account was assigned r.
func (a *Account) HasRole(r Role) bool {
	return slices.Contains(a.Roles, r)
}

// Principal is the authenticated caller extracted from a validated session
// token. It is passed explicitly to every authorization-dependent call.
type Principal struct {
	Identity string
	Roles    []Role
}

// HasRole reports whether the principal carries r.
func (p Principal) HasRole(r Role) bool {
	return slices.Contains(p.Roles, r)
}
