package domain

import "strings"

// Role is a named permission group attached to an Account.
// The set is closed: only the constants below are valid.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// authorityPrefix is the form roles take when rendered as authorities
// (e.g. "ROLE_ADMIN"). ParseRole accepts both forms.
const authorityPrefix = "ROLE_"

// AllRoles returns every registry member in a stable order.
func AllRoles() []Role {
	return []Role{RoleUser, RoleAdmin}
}

// Valid reports whether r is a member of the role enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Authority renders the role in "ROLE_<NAME>" form.
func (r Role) Authority() string { return authorityPrefix + string(r) }

// ParseRole converts s into a Role. Matching is case-insensitive and tolerates
// the "ROLE_" authority prefix.
func ParseRole(s string) (Role, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, authorityPrefix)
	r := Role(name)
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

// RoleRecord is the persisted registry entry for a Role.
type RoleRecord struct {
	ID   string `json:"id"`
	Name Role   `json:"name"`
}

// RoleNames converts roles to their string identifiers.
func RoleNames(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// ParseRoles converts string identifiers back into roles, failing on the first
// value that is not a registry member.
func ParseRoles(names []string) ([]Role, error) {
	out := make([]Role, 0, len(names))
	for _, n := range names {
		r, err := ParseRole(n)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
