package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/storefront/accounts-api/internal/core/domain"
	"github.com/storefront/accounts-api/internal/core/ports"
	"github.com/storefront/accounts-api/internal/core/security"
)

const tokenTypeBearer = "Bearer"

// dummyPassword is hashed once at construction so that logins for unknown
// usernames spend the same time in the hasher as logins with a bad password.
const dummyPassword = "accounts-api/timing-equaliser"

var validate = validator.New()

// AuthService implements registration, login and token validation.
type AuthService struct {
	store       ports.CredentialStore
	hasher      ports.PasswordHasher
	tokens      ports.TokenManager
	log         zerolog.Logger
	now         func() time.Time
	dummyDigest string
}

func NewAuthService(store ports.CredentialStore, hasher ports.PasswordHasher, tokens ports.TokenManager, log zerolog.Logger) *AuthService {
	s := &AuthService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		log:    log,
		now:    time.Now,
	}
	if digest, err := hasher.Hash(dummyPassword); err == nil {
		s.dummyDigest = digest
	}
	return s
}

// Register creates an account with the default USER role. The existence
// checks only short-circuit the common case; the store's insert is what
// actually guarantees uniqueness under concurrency.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	taken, err := s.store.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("register: check username: %w", err)
	}
	if taken {
		return nil, domain.ErrDuplicateUsername
	}

	taken, err = s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: check email: %w", err)
	}
	if taken {
		return nil, domain.ErrDuplicateEmail
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	role, err := s.store.FindRoleByName(ctx, domain.RoleUser)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			s.log.Error().Str("role", string(domain.RoleUser)).Msg("registration attempted before role registry was seeded")
			return nil, domain.ErrRoleNotSeeded
		}
		return nil, fmt.Errorf("register: find role: %w", err)
	}

	now := s.now().UTC()
	created, err := s.store.Insert(ctx, &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		Roles:        []domain.Role{role.Name},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, translateDuplicate(err)
	}

	s.log.Info().Str("username", created.Username).Str("account_id", created.ID).Msg("account registered")
	return created, nil
}

// Login verifies the credentials and issues a session token. Unknown
// usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	username = strings.TrimSpace(username)

	account, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.hasher.Verify(password, s.dummyDigest)
			s.log.Debug().Str("username", username).Msg("login failed")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: find account: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.log.Debug().Str("username", username).Msg("login failed")
		return nil, domain.ErrInvalidCredentials
	}

	// Token timestamps carry whole seconds; issuing at a second boundary keeps
	// the session valid for exactly TTL from its iat claim.
	now := s.now().UTC().Truncate(time.Second)
	token, err := s.tokens.Issue(account.Username, account.Roles, now)
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("token issuance failed")
		if !errors.Is(err, domain.ErrTokenIssuance) {
			err = fmt.Errorf("%w: %v", domain.ErrTokenIssuance, err)
		}
		return nil, err
	}

	return &ports.LoginResult{
		Token:     token,
		TokenType: tokenTypeBearer,
		ExpiresAt: now.Add(s.tokens.TTL()),
		Account:   account,
	}, nil
}

// ValidateToken decodes token against the service clock.
func (s *AuthService) ValidateToken(token string) (domain.Principal, error) {
	return s.tokens.Validate(token, s.now())
}

func validateRegistration(username, email, password string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: email must be a valid address", domain.ErrInvalidInput)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	if len(password) > security.MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, security.MaxPasswordBytes)
	}
	return nil
}

// translateDuplicate maps a store-level unique violation to the
// registration error for the offending field.
func translateDuplicate(err error) error {
	var dup *domain.DuplicateKeyError
	if errors.As(err, &dup) {
		switch dup.Field {
		case "username":
			return domain.ErrDuplicateUsername
		case "email":
			return domain.ErrDuplicateEmail
		}
	}
	return fmt.Errorf("register: insert account: %w", err)
}
