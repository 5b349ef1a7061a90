package ports

import (
	"time"

	"github.com/storefront/accounts-api/internal/core/domain"
)

// PasswordHasher produces and checks one-way salted password digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify never fails loudly: a malformed digest simply does not match.
	Verify(plaintext, digest string) bool
}

// TokenIssuer mints signed session tokens.
type TokenIssuer interface {
	Issue(identity string, roles []domain.Role, now time.Time) (string, error)
	TTL() time.Duration
}

// TokenValidator decodes and verifies session tokens.
type TokenValidator interface {
	Validate(token string, now time.Time) (domain.Principal, error)
}

// TokenManager issues and validates tokens with the same key.
type TokenManager interface {
	TokenIssuer
	TokenValidator
}
