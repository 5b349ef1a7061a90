package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateUsername  = errors.New("username is already taken")
	ErrDuplicateEmail     = errors.New("email is already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAccountNotFound    = errors.New("account not found")

	// ErrRoleNotSeeded means registration ran before the role registry was
	// bootstrapped. It is an ordering fault, not a user error.
	ErrRoleNotSeeded = errors.New("role registry not seeded")
	ErrRoleNotFound  = errors.New("role not found")
	ErrUnknownRole   = errors.New("unknown role")

	ErrMalformedToken   = errors.New("malformed token")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenIssuance    = errors.New("token issuance failed")

	ErrForbidden = errors.New("access forbidden")

	ErrDuplicateKey    = errors.New("duplicate key")
	ErrProductNotFound = errors.New("product not found")
)

// DuplicateKeyError is returned by stores when an insert violates a unique
// constraint. Field names the violated key ("username", "email", "name").
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key on %s", e.Field)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// IsUnauthenticated reports whether err is one of the token validation failures.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrSignatureInvalid) ||
		errors.Is(err, ErrTokenExpired)
}
