package auth

import (
	"context"
)

// Auther orchestrates credential verification, token minting and revocation
type Auther struct {
	provider IdentityProvider
	tokens   *TokenService
	registry *RevocationRegistry
	logger   Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, tokens *TokenService, registry *RevocationRegistry) *Auther {
	return &Auther{
		provider: provider,
		tokens:   tokens,
		registry: registry,
		logger:   defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() *TokenService {
	return s.tokens
}

// Registry returns the revocation registry consulted on every verification
func (s *Auther) Registry() *RevocationRegistry {
	return s.registry
}

// Login verifies the identifier/password pair and mints a fresh token
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Warn("login verify identity failed: %v", err)
		return "", err
	}

	return s.tokens.Generate(identity)
}

// Verify runs the full validation pipeline on a presented token: signature,
// then expiry, then revocation. The ordering matters for the error a caller
// sees: a forged token never learns whether it would also have been expired.
func (s *Auther) Verify(raw string) (*JWTClaims, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}

	if s.tokens.IsExpired(claims) {
		return nil, ErrTokenExpired
	}

	if s.registry.IsRevoked(raw) {
		s.logger.Warn("revoked token presented subject=%s issuer=%s", claims.Subject(), claims.Issuer)
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// Refresh exchanges a still-valid token for a fresh one carrying the same
// subject and role. The old token is revoked as part of the exchange, so at
// most one live token descends from it: two refreshes racing on the same
// token produce exactly one winner.
func (s *Auther) Refresh(ctx context.Context, raw string) (string, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return "", err
	}

	if s.tokens.IsExpired(claims) {
		return "", ErrTokenExpired
	}

	if !s.registry.RevokeIfActive(raw, claims.Expires()) {
		return "", ErrTokenRevoked
	}

	return s.tokens.Renew(claims)
}

// Logout revokes the token. It is idempotent: revoking an already-revoked
// token succeeds, only a token too mangled to carry an expiry is rejected.
func (s *Auther) Logout(raw string) error {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return err
	}

	s.registry.Revoke(raw, claims.Expires())
	return nil
}

var _ Authenticator = (*Auther)(nil)
