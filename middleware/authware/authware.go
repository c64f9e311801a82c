// Package authware is the per-request authentication gate. Every request
// walks the same pipeline: token extraction, signature verification, the
// explicit expiry check, the revocation check, then route authorization.
// Preflight OPTIONS requests bypass the pipeline entirely; they carry no
// credentials and only negotiate transport permissions.
package authware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/healthsoc/blogapi/auth"
)

const (
	defaultContextKey  = "claims"
	defaultAuthScheme  = "Bearer"
	defaultTokenLookup = "header:" + fiber.HeaderAuthorization

	// HeaderTokenExpired marks 401 responses caused by expiry, so clients
	// know a refresh may succeed where the original token did not.
	HeaderTokenExpired = "X-Token-Expired"
)

// ErrMissingToken means no extractor produced a token
var ErrMissingToken = errors.New("missing or malformed bearer token")

// TokenVerifier mirrors the TokenService surface the gate needs
type TokenVerifier interface {
	Verify(raw string) (*auth.JWTClaims, error)
	IsExpired(claims *auth.JWTClaims) bool
}

// Revocations is the registry lookup consulted after signature and expiry
type Revocations interface {
	IsRevoked(token string) bool
}

type Config struct {
	// Verifier is required
	Verifier TokenVerifier
	// Registry is required
	Registry Revocations
	// Policy is required; it answers both "is this route public" and
	// "which role does it need"
	Policy *auth.Policy

	// ContextKey is where verified claims land in fiber locals
	ContextKey string
	// TokenLookup is a comma list of extractor specs,
	// e.g. "header:Authorization,query:token"
	TokenLookup string
	AuthScheme  string

	Logger auth.Logger

	// ErrorHandler converts gate failures into responses
	ErrorHandler fiber.ErrorHandler
}

// New builds the gate middleware
func New(config ...Config) fiber.Handler {
	cfg := configDefaults(config...)
	extractors := buildExtractors(cfg.TokenLookup, cfg.AuthScheme)

	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		raw := extractRawToken(c, extractors)

		// a bad credential never makes a public route less reachable:
		// failures on public routes degrade to an anonymous pass-through,
		// so a stale Authorization header cannot lock a client out of
		// login or refresh
		isPublic := cfg.Policy.IsPublic(c.Method(), c.Path())

		if raw == "" {
			if isPublic {
				return c.Next()
			}
			return cfg.ErrorHandler(c, auth.ErrAuthRequired)
		}

		claims, err := cfg.Verifier.Verify(raw)
		if err != nil {
			if isPublic {
				return c.Next()
			}
			// the raw token never reaches the log
			cfg.Logger.Warn("token verification failed: %v", err)
			return cfg.ErrorHandler(c, err)
		}

		if cfg.Verifier.IsExpired(claims) {
			if isPublic {
				return c.Next()
			}
			cfg.Logger.Warn("expired token presented subject=%s issuer=%s",
				claims.Subject(), claims.Issuer)
			c.Set(HeaderTokenExpired, "true")
			return cfg.ErrorHandler(c, auth.ErrTokenExpired)
		}

		if cfg.Registry.IsRevoked(raw) {
			if isPublic {
				return c.Next()
			}
			cfg.Logger.Warn("revoked token presented subject=%s issuer=%s",
				claims.Subject(), claims.Issuer)
			return cfg.ErrorHandler(c, auth.ErrTokenRevoked)
		}

		role, ok := claims.Role()
		if !ok {
			if isPublic {
				return c.Next()
			}
			return cfg.ErrorHandler(c, auth.ErrInvalidRole)
		}

		if err := cfg.Policy.Allows(c.Method(), c.Path(), role, true); err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)
		c.SetUserContext(auth.WithClaimsContext(c.UserContext(), claims))

		return c.Next()
	}
}

// ClaimsFromCtx returns the claims the gate attached to the request, nil for
// anonymous requests.
func ClaimsFromCtx(c *fiber.Ctx, key string) *auth.JWTClaims {
	if key == "" {
		key = defaultContextKey
	}
	claims, _ := c.Locals(key).(*auth.JWTClaims)
	return claims
}

func configDefaults(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Verifier == nil {
		panic("AUTH: gate middleware configuration: Verifier is required.")
	}

	if cfg.Registry == nil {
		panic("AUTH: gate middleware configuration: Registry is required.")
	}

	if cfg.Policy == nil {
		panic("AUTH: gate middleware configuration: Policy is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = defaultContextKey
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = defaultAuthScheme
	}

	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = DefaultErrorHandler
	}

	return cfg
}

// DefaultErrorHandler maps gate failures onto HTTP statuses: authentication
// failures are 401, authorization failures 403, anything else is treated as
// a system fault and surfaces as 500 with no token detail.
func DefaultErrorHandler(c *fiber.Ctx, err error) error {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	status := fiber.StatusInternalServerError
	switch rich.Category {
	case goerrors.CategoryAuth:
		status = fiber.StatusUnauthorized
	case goerrors.CategoryAuthz:
		status = fiber.StatusForbidden
	}

	return c.Status(status).JSON(fiber.Map{
		"error": rich.Message,
		"code":  rich.TextCode,
	})
}

type extractor func(c *fiber.Ctx) string

func extractRawToken(c *fiber.Ctx, extractors []extractor) string {
	for _, ex := range extractors {
		if raw := ex(c); raw != "" {
			return raw
		}
	}
	return ""
}

// buildExtractors parses a lookup spec like
// "header:Authorization,cookie:jwt,query:auth_token,param:token"
func buildExtractors(tokenLookup, authScheme string) []extractor {
	extractors := make([]extractor, 0)

	for _, spec := range strings.Split(tokenLookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(spec), ":", 2)
		if len(parts) != 2 {
			continue
		}

		source, name := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

		switch source {
		case "header":
			extractors = append(extractors, tokenFromHeader(name, authScheme))
		case "query":
			extractors = append(extractors, func(c *fiber.Ctx) string { return c.Query(name) })
		case "param":
			extractors = append(extractors, func(c *fiber.Ctx) string { return c.Params(name) })
		case "cookie":
			extractors = append(extractors, func(c *fiber.Ctx) string { return c.Cookies(name) })
		}
	}

	return extractors
}

func tokenFromHeader(header, authScheme string) extractor {
	scheme := strings.TrimSpace(authScheme)
	return func(c *fiber.Ctx) string {
		value := c.Get(header)
		if len(value) > len(scheme)+1 && strings.EqualFold(value[:len(scheme)], scheme) {
			return strings.TrimSpace(value[len(scheme):])
		}
		return ""
	}
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
