package server_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/healthsoc/blogapi/auth"
	"github.com/healthsoc/blogapi/server"
)

func TestDefaultPolicy_PublicSurface(t *testing.T) {
	policy := server.DefaultPolicy()

	public := []struct{ method, path string }{
		{"POST", "/api/v1/admin/auth/login"},
		{"POST", "/api/v1/admin/auth/refresh"},
		{"POST", "/api/v1/admin/auth/logout"},
		{"GET", "/api/v1/articles/published"},
		{"GET", "/api/v1/articles/featured"},
		{"GET", "/api/v1/articles/7c9e6679-7425-40de-944b-e07fc1f90ae7"},
		{"GET", "/api/v1/events"},
		{"GET", "/api/v1/events/upcoming"},
		{"GET", "/api/v1/members"},
		{"POST", "/api/v1/newsletter/subscribe"},
		{"POST", "/api/v1/newsletter/unsubscribe"},
		{"GET", "/api/v1/newsletter/verify/some-code"},
		{"GET", "/healthz"},
	}

	for _, route := range public {
		assert.True(t, policy.IsPublic(route.method, route.path),
			"%s %s should be public", route.method, route.path)
	}
}

func TestDefaultPolicy_AdminSurface(t *testing.T) {
	policy := server.DefaultPolicy()

	adminOnly := []struct{ method, path string }{
		{"GET", "/api/v1/admin/auth/verify"},
		{"GET", "/api/v1/articles/admin"},
		{"POST", "/api/v1/articles/admin"},
		{"PUT", "/api/v1/articles/admin/7c9e6679-7425-40de-944b-e07fc1f90ae7"},
		{"DELETE", "/api/v1/articles/admin/7c9e6679-7425-40de-944b-e07fc1f90ae7"},
		{"POST", "/api/v1/events/admin"},
		{"POST", "/api/v1/members/admin"},
		{"GET", "/api/v1/newsletter/subscribers"},
	}

	for _, route := range adminOnly {
		assert.False(t, policy.IsPublic(route.method, route.path),
			"%s %s should not be public", route.method, route.path)

		assert.Error(t, policy.Allows(route.method, route.path, auth.RoleRegular, true),
			"%s %s should refuse REGULAR", route.method, route.path)

		assert.NoError(t, policy.Allows(route.method, route.path, auth.RoleAdmin, true),
			"%s %s should admit ADMIN", route.method, route.path)
	}
}

func TestDefaultPolicy_SuperAdminSurface(t *testing.T) {
	policy := server.DefaultPolicy()

	path := "/api/v1/newsletter/subscribers/7c9e6679-7425-40de-944b-e07fc1f90ae7"

	assert.False(t, policy.IsPublic("DELETE", path))
	assert.Error(t, policy.Allows("DELETE", path, auth.RoleAdmin, true))
	assert.NoError(t, policy.Allows("DELETE", path, auth.RoleSuperAdmin, true))
}

func TestDefaultPolicy_AnonymousIsRefused(t *testing.T) {
	policy := server.DefaultPolicy()

	assert.Error(t, policy.Allows("GET", "/api/v1/articles/admin", "", false))
	assert.Error(t, policy.Allows("GET", "/api/v1/newsletter/subscribers", "", false))
	assert.Error(t, policy.Allows("GET", "/not-in-the-table", "", false))
}
