package service

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/accounts-api/internal/core/domain"
	"github.com/storefront/accounts-api/internal/core/ports"
	"github.com/storefront/accounts-api/internal/infrastructure/db/memory"
)

type stubLocker struct {
	acquired []string
	released int
	err      error
}

func (l *stubLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(context.Context) error, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired = append(l.acquired, key)
	return func(context.Context) error {
		l.released++
		return nil
	}, nil
}

func newBootstrapper(t *testing.T, store *memory.CredentialStore, locker *stubLocker, accounts []SeedAccount) *Bootstrapper {
	t.Helper()
	var l ports.Locker
	if locker != nil {
		l = locker
	}
	return NewBootstrapper(NewRoleRegistry(store, zerolog.Nop()), store, newHasher(t), l, accounts, zerolog.Nop())
}

func TestBootstrapper_Run_SeedsRolesAndAccounts(t *testing.T) {
	store := memory.NewCredentialStore()
	locker := &stubLocker{}
	accounts := []SeedAccount{
		{Username: "admin", Email: "admin@example.com", Password: "admin123", Role: domain.RoleAdmin},
		{Username: "user", Email: "user@example.com", Password: "user123", Role: domain.RoleUser},
	}
	ctx := context.Background()

	if err := newBootstrapper(t, store, locker, accounts).Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !slices.Equal(locker.acquired, []string{bootstrapLockKey}) || locker.released != 1 {
		t.Fatalf("lock not acquired and released once: %+v", locker)
	}
	if n, _ := store.CountRoles(ctx); n != 2 {
		t.Fatalf("expected 2 roles, got %d", n)
	}

	admin, err := store.FindByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if !slices.Equal(admin.Roles, []domain.Role{domain.RoleAdmin}) {
		t.Fatalf("admin roles = %v", admin.Roles)
	}
	user, err := store.FindByUsername(ctx, "user")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if !slices.Equal(user.Roles, []domain.Role{domain.RoleUser}) {
		t.Fatalf("user roles = %v", user.Roles)
	}
}

func TestBootstrapper_Run_Idempotent(t *testing.T) {
	store := memory.NewCredentialStore()
	accounts := []SeedAccount{{Username: "admin", Email: "admin@example.com", Password: "pw", Role: domain.RoleAdmin}}
	ctx := context.Background()

	for range 2 {
		if err := newBootstrapper(t, store, nil, accounts).Run(ctx); err != nil {
			t.Fatalf("run: %v", err)
		}
	}

	if n, _ := store.CountRoles(ctx); n != 2 {
		t.Fatalf("expected 2 roles, got %d", n)
	}
	all, _ := store.ListAccounts(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 account, got %d", len(all))
	}
}

func TestBootstrapper_Run_SkipsAccountWithoutPassword(t *testing.T) {
	store := memory.NewCredentialStore()
	accounts := []SeedAccount{{Username: "admin", Email: "admin@example.com", Role: domain.RoleAdmin}}
	ctx := context.Background()

	if err := newBootstrapper(t, store, nil, accounts).Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if exists, _ := store.ExistsByUsername(ctx, "admin"); exists {
		t.Fatalf("account without password must be skipped")
	}
}

func TestBootstrapper_Run_LockFailure(t *testing.T) {
	store := memory.NewCredentialStore()
	lockErr := errors.New("redis down")

	err := newBootstrapper(t, store, &stubLocker{err: lockErr}, nil).Run(context.Background())
	if !errors.Is(err, lockErr) {
		t.Fatalf("expected lock error, got %v", err)
	}
	if n, _ := store.CountRoles(context.Background()); n != 0 {
		t.Fatalf("roles must not be seeded without the lock")
	}
}
