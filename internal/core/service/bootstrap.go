package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/accounts-api/internal/core/domain"
	"github.com/storefront/accounts-api/internal/core/ports"
)

const (
	bootstrapLockKey = "accounts:bootstrap:lock"
	bootstrapLockTTL = 30 * time.Second
)

// SeedAccount describes an account created at startup when missing.
type SeedAccount struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// Bootstrapper prepares the credential store before the service accepts
// traffic: it seeds the role registry and, optionally, demo accounts.
type Bootstrapper struct {
	registry *RoleRegistry
	store    ports.CredentialStore
	hasher   ports.PasswordHasher
	locker   ports.Locker
	accounts []SeedAccount
	log      zerolog.Logger
}

// NewBootstrapper returns a Bootstrapper. locker may be nil for single-process
// deployments.
func NewBootstrapper(
	registry *RoleRegistry,
	store ports.CredentialStore,
	hasher ports.PasswordHasher,
	locker ports.Locker,
	accounts []SeedAccount,
	log zerolog.Logger,
) *Bootstrapper {
	return &Bootstrapper{
		registry: registry,
		store:    store,
		hasher:   hasher,
		locker:   locker,
		accounts: accounts,
		log:      log,
	}
}

// Run must complete before registrations or logins are served.
func (b *Bootstrapper) Run(ctx context.Context) error {
	if b.locker != nil {
		release, err := b.locker.Acquire(ctx, bootstrapLockKey, bootstrapLockTTL)
		if err != nil {
			return fmt.Errorf("bootstrap: acquire lock: %w", err)
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				b.log.Warn().Err(err).Msg("failed to release bootstrap lock")
			}
		}()
	}

	if _, err := b.registry.SeedIfEmpty(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	for _, acc := range b.accounts {
		if err := b.seedAccount(ctx, acc); err != nil {
			return fmt.Errorf("bootstrap: seed %s: %w", acc.Username, err)
		}
	}
	return nil
}

func (b *Bootstrapper) seedAccount(ctx context.Context, acc SeedAccount) error {
	if acc.Password == "" {
		b.log.Warn().Str("username", acc.Username).Msg("seed account has no password, skipping")
		return nil
	}

	exists, err := b.store.ExistsByEmail(ctx, acc.Email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	role, err := b.registry.FindByName(ctx, acc.Role)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return domain.ErrRoleNotSeeded
		}
		return err
	}

	digest, err := b.hasher.Hash(acc.Password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = b.store.Insert(ctx, &domain.Account{
		Username:     acc.Username,
		Email:        acc.Email,
		PasswordHash: digest,
		Roles:        []domain.Role{role.Name},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil
		}
		return err
	}

	b.log.Info().Str("username", acc.Username).Str("role", string(acc.Role)).Msg("seed account created")
	return nil
}
