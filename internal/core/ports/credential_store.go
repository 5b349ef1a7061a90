package ports

import (
	"context"

	"github.com/storefront/accounts-api/internal/core/domain"
)

// CredentialStore is the durable home of Account and Role records.
//
// Insert and InsertRole must enforce uniqueness atomically and report a
// violation with *domain.DuplicateKeyError. The Exists* methods are only an
// early exit for callers; they do not guard against concurrent inserts.
type CredentialStore interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// FindByUsername returns domain.ErrAccountNotFound when absent.
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	Insert(ctx context.Context, account *domain.Account) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)

	RoleStore
}

// RoleStore is the subset of CredentialStore used by the role registry.
type RoleStore interface {
	CountRoles(ctx context.Context) (int64, error)
	InsertRole(ctx context.Context, role domain.Role) (*domain.RoleRecord, error)
	// FindRoleByName returns domain.ErrRoleNotFound when absent.
	FindRoleByName(ctx context.Context, name domain.Role) (*domain.RoleRecord, error)
}
