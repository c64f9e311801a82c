package auth

import (
	"crypto/sha256"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenService signs claim sets into compact JWTs and verifies them back.
// Verification checks structure and signature only; expiry is an explicit,
// separate check so callers can tell a forged token from a stale one.
// The signing key is loaded once and never mutated, so a single instance is
// safe for concurrent use across requests.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	clock      Clock
	logger     Logger
}

// NewTokenService creates a TokenService. The key must be at least as long
// as the HMAC hash output to rule out key-length downgrade attacks.
func NewTokenService(signingKey []byte, ttl time.Duration, issuer string, clock Clock, logger Logger) (*TokenService, error) {
	if len(signingKey) < sha256.Size {
		return nil, errors.New("signing key shorter than HMAC-SHA256 output", errors.CategoryInternal).
			WithMetadata(map[string]any{"key_len": len(signingKey), "min_len": sha256.Size})
	}

	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	if clock == nil {
		clock = systemClock{}
	}

	if logger == nil {
		logger = defLogger{}
	}

	return &TokenService{
		signingKey: signingKey,
		ttl:        ttl,
		issuer:     issuer,
		clock:      clock,
		logger:     logger,
	}, nil
}

// TTL returns the configured token time-to-live
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// Generate mints a token for an identity with a fresh issued-at and expiry
func (ts *TokenService) Generate(identity Identity) (string, error) {
	return ts.SignClaims(ts.newClaims(identity.Email(), identity.Role()))
}

// Renew mints a token carrying the same subject and role as prior claims,
// with a fresh issued-at and expiry.
func (ts *TokenService) Renew(prior *JWTClaims) (string, error) {
	role, ok := prior.Role()
	if !ok {
		return "", ErrInvalidRole
	}
	return ts.SignClaims(ts.newClaims(prior.Subject(), role))
}

// SignClaims signs arbitrary JWT claims using the configured signing key
func (ts *TokenService) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// Verify parses a token and recomputes the signature. It does NOT reject
// expired tokens; run IsExpired on the returned claims for that.
func (ts *TokenService) Verify(raw string) (*JWTClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(raw, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Warn("token verify rejected signing method: %v", t.Header["alg"])
			return nil, ErrBadSignature
		}
		return ts.signingKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrBadSignature
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token verify could not decode claims")
		return nil, ErrTokenMalformed
	}

	if ts.issuer != "" && claims.Issuer != ts.issuer {
		ts.logger.Warn("token verify issuer mismatch issuer=%s subject=%s", claims.Issuer, claims.Subject())
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// IsExpired reports whether claims are past expiry. Validity is exclusive of
// the expiry instant: a token is invalid exactly at expiry.
func (ts *TokenService) IsExpired(claims *JWTClaims) bool {
	exp := claims.Expires()
	if exp.IsZero() {
		return true
	}
	return !ts.clock.Now().Before(exp)
}

func (ts *TokenService) newClaims(subject string, role Role) *JWTClaims {
	now := ts.clock.Now()

	return &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
		UserRole: string(role),
	}
}
