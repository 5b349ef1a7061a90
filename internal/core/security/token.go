package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/storefront/accounts-api/internal/core/domain"
)

const (
	DefaultTokenTTL = 24 * time.Hour
	DefaultIssuer   = "accounts-api"
)

// sessionClaims is the JWT payload of a session token.
type sessionClaims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// JWTManager issues and validates HS256 session tokens with a single
// process-wide key. It holds no mutable state and is safe for concurrent use.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewJWTManager returns a manager signing with secret. A non-positive ttl
// falls back to DefaultTokenTTL and an empty issuer to DefaultIssuer.
func NewJWTManager(secret string, ttl time.Duration, issuer string) (*JWTManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl, issuer: issuer}, nil
}

func (m *JWTManager) TTL() time.Duration { return m.ttl }

// Issue signs a token for identity carrying roles, valid from now until
// now+TTL. The JWT encoding keeps whole seconds only, so callers must pass a
// now without a fractional second or the token expires up to 1s early.
func (m *JWTManager) Issue(identity string, roles []domain.Role, now time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Roles: domain.RoleNames(roles),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenIssuance, err)
	}
	return signed, nil
}

// Validate verifies the signature of token and checks it has not expired at
// now. The embedded identity and roles are trusted as-is.
func (m *JWTManager) Validate(token string, now time.Time) (domain.Principal, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return domain.Principal{}, mapJWTError(err)
	}

	if claims.Subject == "" || claims.ExpiresAt == nil {
		return domain.Principal{}, domain.ErrMalformedToken
	}
	if !now.Before(claims.ExpiresAt.Time) {
		return domain.Principal{}, domain.ErrTokenExpired
	}

	roles, err := domain.ParseRoles(claims.Roles)
	if err != nil {
		return domain.Principal{}, domain.ErrMalformedToken
	}

	return domain.Principal{Identity: claims.Subject, Roles: roles}, nil
}

// mapJWTError translates jwt library errors to domain errors.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.ErrSignatureInvalid
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrSignatureInvalid
	default:
		return domain.ErrMalformedToken
	}
}
