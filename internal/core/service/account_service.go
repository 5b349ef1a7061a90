package service

import (
	"context"

	"github.com/storefront/accounts-api/internal/core/domain"
	"github.com/storefront/accounts-api/internal/core/ports"
	"github.com/storefront/accounts-api/internal/core/security"
)

// AccountService exposes read access to registered accounts.
type AccountService struct {
	store ports.CredentialStore
}

func NewAccountService(store ports.CredentialStore) *AccountService {
	return &AccountService{store: store}
}

// Me returns the caller's own account.
func (s *AccountService) Me(ctx context.Context, principal domain.Principal) (*domain.Account, error) {
	return s.store.FindByUsername(ctx, principal.Identity)
}

// List returns every account. Only ADMIN may call it.
func (s *AccountService) List(ctx context.Context, principal domain.Principal) ([]*domain.Account, error) {
	if !security.Authorize(principal.Roles, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	return s.store.ListAccounts(ctx)
}
