// Package auth verifies bearer credentials and derives the owner id used to
// scope ingestion and search.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
)

// DefaultAudience is the audience claim expected on access tokens.
const DefaultAudience = "authenticated"

// TokenConfig configures signing and verification of access tokens.
type TokenConfig struct {
	// Secret is the pre-shared HMAC signing secret. Required; the process
	// must not start without it.
	Secret string
	// Audience is the expected audience claim. Defaults to
	// DefaultAudience.
	Audience string
	// TTL is the lifetime of issued tokens. Defaults to 1 hour.
	TTL time.Duration
}

// TokenService issues and verifies HS256-signed access tokens. It holds no
// per-request state; verification is a pure step.
type TokenService struct {
	secret   []byte
	audience string
	ttl      time.Duration
}

// NewTokenService creates a TokenService. The secret must be non-empty.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("signing secret is required")
	}
	audience := cfg.Audience
	if audience == "" {
		audience = DefaultAudience
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = time.Hour
	}
	return &TokenService{
		secret:   []byte(cfg.Secret),
		audience: audience,
		ttl:      ttl,
	}, nil
}

// Verify validates the token's signature, expiry and audience and returns
// the subject as the owner id. Every failure mode, including a missing
// subject, collapses to domain.ErrUnauthorized so callers cannot
// distinguish verification internals.
func (s *TokenService) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", domain.ErrUnauthorized
	}
	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", domain.ErrUnauthorized
	}
	return subject, nil
}

// Issue mints a signed access token for the given owner id.
func (s *TokenService) Issue(ownerID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   ownerID,
		Audience:  jwt.ClaimStrings{s.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

var _ domain.Verifier = (*TokenService)(nil)
