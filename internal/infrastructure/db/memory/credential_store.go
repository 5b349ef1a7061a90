// Package memory provides in-process stores for development and tests. They
// honour the same uniqueness guarantees as the Mongo repositories.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/accounts-api/internal/core/domain"
)

// CredentialStore implements ports.CredentialStore in memory.
type CredentialStore struct {
	mu        sync.RWMutex
	accounts  map[string]*domain.Account // keyed by username
	emails    map[string]struct{}
	order     []string
	roles     map[domain.Role]*domain.RoleRecord
	roleOrder []domain.Role
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		accounts: make(map[string]*domain.Account),
		emails:   make(map[string]struct{}),
		roles:    make(map[domain.Role]*domain.RoleRecord),
	}
}

func (s *CredentialStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[username]
	return ok, nil
}

func (s *CredentialStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.emails[emailKey(email)]
	return ok, nil
}

func (s *CredentialStore) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

// Insert checks and writes under one lock so concurrent inserts of the same
// username or email cannot both succeed.
func (s *CredentialStore) Insert(_ context.Context, account *domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.Username]; ok {
		return nil, &domain.DuplicateKeyError{Field: "username"}
	}
	if _, ok := s.emails[emailKey(account.Email)]; ok {
		return nil, &domain.DuplicateKeyError{Field: "email"}
	}

	stored := cloneAccount(account)
	stored.ID = primitive.NewObjectID().Hex()
	s.accounts[stored.Username] = stored
	s.emails[emailKey(stored.Email)] = struct{}{}
	s.order = append(s.order, stored.Username)
	return cloneAccount(stored), nil
}

// ListAccounts returns accounts in insertion order.
func (s *CredentialStore) ListAccounts(_ context.Context) ([]*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Account, 0, len(s.order))
	for _, username := range s.order {
		out = append(out, cloneAccount(s.accounts[username]))
	}
	return out, nil
}

func (s *CredentialStore) CountRoles(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.roles)), nil
}

func (s *CredentialStore) InsertRole(_ context.Context, role domain.Role) (*domain.RoleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[role]; ok {
		return nil, &domain.DuplicateKeyError{Field: "name"}
	}
	rec := &domain.RoleRecord{ID: primitive.NewObjectID().Hex(), Name: role}
	s.roles[role] = rec
	s.roleOrder = append(s.roleOrder, role)
	clone := *rec
	return &clone, nil
}

func (s *CredentialStore) FindRoleByName(_ context.Context, name domain.Role) (*domain.RoleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.roles[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	clone := *rec
	return &clone, nil
}

// Roles returns the seeded role records in insertion order.
func (s *CredentialStore) Roles() []domain.RoleRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.RoleRecord, 0, len(s.roleOrder))
	for _, r := range s.roleOrder {
		out = append(out, *s.roles[r])
	}
	return out
}

// emailKey folds case so "A@x.com" and "a@x.com" collide, matching the
// case-insensitive collation of the Mongo email index.
func emailKey(email string) string {
	return strings.ToLower(email)
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.Roles = slices.Clone(a.Roles)
	return &clone
}
