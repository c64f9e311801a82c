package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims is the signed claim set carried by every token: subject, role,
// issuer, issued-at and expiry.
type JWTClaims struct {
	jwt.RegisteredClaims
	UserRole string `json:"role,omitempty"`
}

// Subject returns the principal identifier the token was minted for
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Role returns the decoded role. Tokens minted by this service always carry
// a member of the closed set; anything else comes back invalid.
func (c *JWTClaims) Role() (Role, bool) {
	return ParseRole(c.UserRole)
}

// Expires returns the expiry instant, zero if the claim is absent
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued-at instant, zero if the claim is absent
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
