package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/storefront/accounts-api/internal/core/domain"
	"github.com/storefront/accounts-api/internal/core/ports"
)

// RoleRegistry owns the persisted copy of the role enumeration.
type RoleRegistry struct {
	store ports.RoleStore
	log   zerolog.Logger
}

func NewRoleRegistry(store ports.RoleStore, log zerolog.Logger) *RoleRegistry {
	return &RoleRegistry{store: store, log: log}
}

// SeedIfEmpty inserts one record per role when the registry holds none. It
// reports whether it seeded. A unique violation means another process seeded
// concurrently and counts as success.
func (r *RoleRegistry) SeedIfEmpty(ctx context.Context) (bool, error) {
	n, err := r.store.CountRoles(ctx)
	if err != nil {
		return false, fmt.Errorf("count roles: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	for _, role := range domain.AllRoles() {
		if _, err := r.store.InsertRole(ctx, role); err != nil {
			if errors.Is(err, domain.ErrDuplicateKey) {
				continue
			}
			return false, fmt.Errorf("insert role %s: %w", role, err)
		}
	}

	r.log.Info().Strs("roles", domain.RoleNames(domain.AllRoles())).Msg("roles seeded")
	return true, nil
}

// FindByName returns domain.ErrRoleNotFound when the role was never seeded.
func (r *RoleRegistry) FindByName(ctx context.Context, name domain.Role) (*domain.RoleRecord, error) {
	return r.store.FindRoleByName(ctx, name)
}
