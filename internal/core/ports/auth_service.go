package ports

import (
	"context"
	"time"

	"github.com/storefront/accounts-api/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
	Account   *domain.Account
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	ValidateToken(token string) (domain.Principal, error)
}

type AccountService interface {
	Me(ctx context.Context, principal domain.Principal) (*domain.Account, error)
	List(ctx context.Context, principal domain.Principal) ([]*domain.Account, error)
}
