package auth

import "github.com/goliatone/go-errors"

const (
	TextCodeTokenMalformed     = "auth_token_malformed"
	TextCodeBadSignature       = "auth_bad_signature"
	TextCodeTokenExpired       = "auth_token_expired"
	TextCodeTokenRevoked       = "auth_token_revoked"
	TextCodeInvalidCredentials = "auth_invalid_credentials"
	TextCodeAccountDisabled    = "auth_account_disabled"
	TextCodeAuthRequired       = "auth_required"
	TextCodeRouteForbidden     = "auth_route_forbidden"
	TextCodeInvalidRole        = "auth_invalid_role"
)

// ErrTokenMalformed is returned when a token cannot be parsed at all.
var ErrTokenMalformed = errors.New("malformed token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrBadSignature is returned when the signature does not verify against the
// configured key, or the token claims an unsupported algorithm.
var ErrBadSignature = errors.New("invalid token signature", errors.CategoryAuth).
	WithTextCode(TextCodeBadSignature).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a structurally valid token is past its
// expiry. Kept distinct from ErrBadSignature so clients can refresh instead
// of logging in again.
var ErrTokenExpired = errors.New("token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenRevoked is returned for tokens invalidated before natural expiry.
var ErrTokenRevoked = errors.New("token revoked", errors.CategoryAuth).
	WithTextCode(TextCodeTokenRevoked).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidCredentials covers both unknown identifier and wrong password so
// responses cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrAccountDisabled is returned when the credential record is inactive.
var ErrAccountDisabled = errors.New("account disabled", errors.CategoryAuth).
	WithTextCode(TextCodeAccountDisabled).
	WithCode(errors.CodeUnauthorized)

// ErrAuthRequired is returned when a protected route is hit without a token.
var ErrAuthRequired = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeAuthRequired).
	WithCode(errors.CodeUnauthorized)

// ErrRouteForbidden is returned when an authenticated principal lacks the
// role a route requires.
var ErrRouteForbidden = errors.New("insufficient role for route", errors.CategoryAuthz).
	WithTextCode(TextCodeRouteForbidden).
	WithCode(errors.CodeForbidden)

// ErrInvalidRole is returned when a token carries a role outside the closed set.
var ErrInvalidRole = errors.New("unknown or invalid role", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidRole).
	WithCode(errors.CodeUnauthorized)

// IsAuthError reports whether err belongs to the expected authentication or
// authorization class, as opposed to a system fault.
func IsAuthError(err error) bool {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	return rich.Category == errors.CategoryAuth || rich.Category == errors.CategoryAuthz
}
