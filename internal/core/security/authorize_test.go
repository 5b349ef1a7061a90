package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storefront/accounts-api/internal/core/domain"
	"github.com/storefront/accounts-api/internal/core/security"
)

func TestAuthorize(t *testing.T) {
	user := []domain.Role{domain.RoleUser}
	admin := []domain.Role{domain.RoleAdmin}
	both := []domain.Role{domain.RoleUser, domain.RoleAdmin}

	assert.True(t, security.Authorize(user, domain.RoleUser))
	assert.False(t, security.Authorize(user, domain.RoleAdmin))

	// roles are flat
	assert.True(t, security.Authorize(admin, domain.RoleAdmin))
	assert.False(t, security.Authorize(admin, domain.RoleUser))

	assert.True(t, security.Authorize(both, domain.RoleUser))
	assert.True(t, security.Authorize(both, domain.RoleAdmin))

	assert.False(t, security.Authorize(nil, domain.RoleUser))
}

func TestAuthorizeAny(t *testing.T) {
	admin := []domain.Role{domain.RoleAdmin}

	assert.True(t, security.AuthorizeAny(admin, domain.RoleUser, domain.RoleAdmin))
	assert.False(t, security.AuthorizeAny(admin, domain.RoleUser))
	assert.False(t, security.AuthorizeAny(admin))
}
