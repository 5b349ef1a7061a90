package security

import (
	"slices"

	"github.com/storefront/accounts-api/internal/core/domain"
)

// Authorize permits when required is one of roles. Roles are flat: ADMIN does
// not imply USER.
func Authorize(roles []domain.Role, required domain.Role) bool {
	return slices.Contains(roles, required)
}

// AuthorizeAny permits when at least one of allowed passes Authorize.
func AuthorizeAny(roles []domain.Role, allowed ...domain.Role) bool {
	for _, r := range allowed {
		if Authorize(roles, r) {
			return true
		}
	}
	return false
}
