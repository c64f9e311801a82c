package authware_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthsoc/blogapi/auth"
	"github.com/healthsoc/blogapi/middleware/authware"
)

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type identity struct {
	email string
	role  auth.Role
}

func (i identity) ID() string       { return "7c9e6679-7425-40de-944b-e07fc1f90ae7" }
func (i identity) Username() string { return "editor" }
func (i identity) Email() string    { return i.email }
func (i identity) Role() auth.Role  { return i.role }

type gateFixture struct {
	app      *fiber.App
	tokens   *auth.TokenService
	registry *auth.RevocationRegistry
	clock    *fakeClock
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	tokens, err := auth.NewTokenService(testSigningKey, 15*time.Minute, "test-issuer", clock, nil)
	require.NoError(t, err)

	registry := auth.NewRevocationRegistry(clock)

	policy := auth.MustPolicy(
		auth.Rule{Pattern: "/public", Methods: []string{"GET"}, Public: true},
		auth.Rule{Pattern: "/admin/**", MinRole: auth.RoleAdmin},
		auth.Rule{Pattern: "/super/**", MinRole: auth.RoleSuperAdmin},
	)

	app := fiber.New()
	app.Use(authware.New(authware.Config{
		Verifier: tokens,
		Registry: registry,
		Policy:   policy,
	}))

	ok := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	}

	app.Get("/public", ok)
	app.Get("/admin/dashboard", ok)
	app.Get("/super/danger", ok)
	app.Options("/admin/dashboard", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/claims", func(c *fiber.Ctx) error {
		claims := authware.ClaimsFromCtx(c, "")
		if claims == nil {
			return c.JSON(fiber.Map{"subject": ""})
		}
		return c.JSON(fiber.Map{"subject": claims.Subject()})
	})

	return &gateFixture{app: app, tokens: tokens, registry: registry, clock: clock}
}

func (f *gateFixture) mint(t *testing.T, role auth.Role) string {
	t.Helper()

	token, err := f.tokens.Generate(identity{email: "editor@example.com", role: role})
	require.NoError(t, err)
	return token
}

func (f *gateFixture) request(t *testing.T, method, path, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	res, err := f.app.Test(req)
	require.NoError(t, err)

	return res
}

func TestGate_PublicRoute(t *testing.T) {
	f := newGateFixture(t)

	res := f.request(t, "GET", "/public", "")
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestGate_MissingToken(t *testing.T) {
	f := newGateFixture(t)

	res := f.request(t, "GET", "/admin/dashboard", "")
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestGate_ValidToken(t *testing.T) {
	f := newGateFixture(t)
	token := f.mint(t, auth.RoleAdmin)

	res := f.request(t, "GET", "/admin/dashboard", token)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestGate_ExpiredToken(t *testing.T) {
	f := newGateFixture(t)
	token := f.mint(t, auth.RoleAdmin)

	f.clock.Advance(16 * time.Minute)

	res := f.request(t, "GET", "/admin/dashboard", token)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "true", res.Header.Get(authware.HeaderTokenExpired))
}

func TestGate_ExpiryBoundary(t *testing.T) {
	f := newGateFixture(t)
	token := f.mint(t, auth.RoleAdmin)

	t.Run("valid one second before expiry", func(t *testing.T) {
		f.clock.Advance(15*time.Minute - time.Second)
		res := f.request(t, "GET", "/admin/dashboard", token)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("invalid exactly at expiry", func(t *testing.T) {
		f.clock.Advance(time.Second)
		res := f.request(t, "GET", "/admin/dashboard", token)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})
}

func TestGate_RevokedToken(t *testing.T) {
	f := newGateFixture(t)
	token := f.mint(t, auth.RoleAdmin)

	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	f.registry.Revoke(token, claims.Expires())

	res := f.request(t, "GET", "/admin/dashboard", token)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	assert.Empty(t, res.Header.Get(authware.HeaderTokenExpired))
}

func TestGate_InsufficientRole(t *testing.T) {
	f := newGateFixture(t)

	t.Run("regular cannot reach admin routes", func(t *testing.T) {
		token := f.mint(t, auth.RoleRegular)
		res := f.request(t, "GET", "/admin/dashboard", token)
		assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
	})

	t.Run("admin cannot reach super admin routes", func(t *testing.T) {
		token := f.mint(t, auth.RoleAdmin)
		res := f.request(t, "GET", "/super/danger", token)
		assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
	})

	t.Run("super admin clears every gate", func(t *testing.T) {
		token := f.mint(t, auth.RoleSuperAdmin)

		res := f.request(t, "GET", "/admin/dashboard", token)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)

		res = f.request(t, "GET", "/super/danger", token)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})
}

func TestGate_PublicRouteToleratesBadCredentials(t *testing.T) {
	f := newGateFixture(t)

	t.Run("expired token still reaches a public route", func(t *testing.T) {
		token := f.mint(t, auth.RoleAdmin)
		f.clock.Advance(time.Hour)

		res := f.request(t, "GET", "/public", token)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("garbage token still reaches a public route", func(t *testing.T) {
		res := f.request(t, "GET", "/public", "not-a-token")
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})
}

func TestGate_OptionsBypass(t *testing.T) {
	f := newGateFixture(t)

	res := f.request(t, "OPTIONS", "/admin/dashboard", "")
	assert.Equal(t, fiber.StatusNoContent, res.StatusCode)
}

func TestGate_ClaimsInLocals(t *testing.T) {
	f := newGateFixture(t)
	token := f.mint(t, auth.RoleAdmin)

	req := httptest.NewRequest("GET", "/claims", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	res, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestGate_MalformedScheme(t *testing.T) {
	f := newGateFixture(t)
	token := f.mint(t, auth.RoleAdmin)

	req := httptest.NewRequest("GET", "/admin/dashboard", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Basic "+token)

	res, err := f.app.Test(req)
	require.NoError(t, err)

	// wrong scheme means no token was presented at all
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestGate_RequiredConfig(t *testing.T) {
	assert.Panics(t, func() {
		authware.New(authware.Config{})
	})
}
