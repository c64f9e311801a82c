package server

import "github.com/healthsoc/blogapi/auth"

// DefaultPolicy is the route authorization table. Rules are evaluated in
// order and the first match wins, so the specific admin patterns sit above
// the public catch-alls. Anything the table does not name requires an
// authenticated caller.
func DefaultPolicy() *auth.Policy {
	return auth.MustPolicy([]auth.Rule{
		// session endpoints: login, refresh and logout take no live token
		// (logout of an already-revoked token still answers 200), only
		// verify requires an admin session
		{Pattern: "/api/v1/admin/auth/login", Methods: []string{"POST"}, Public: true},
		{Pattern: "/api/v1/admin/auth/refresh", Methods: []string{"POST"}, Public: true},
		{Pattern: "/api/v1/admin/auth/logout", Methods: []string{"POST"}, Public: true},
		{Pattern: "/api/v1/admin/auth/**", MinRole: auth.RoleAdmin},

		// articles: published content is public, the admin surface is not
		{Pattern: "/api/v1/articles/published", Methods: []string{"GET"}, Public: true},
		{Pattern: "/api/v1/articles/featured", Methods: []string{"GET"}, Public: true},
		{Pattern: "/api/v1/articles/admin/**", MinRole: auth.RoleAdmin},
		{Pattern: "/api/v1/articles/*", Methods: []string{"GET"}, Public: true},

		// events and committee roster
		{Pattern: "/api/v1/events/admin/**", MinRole: auth.RoleAdmin},
		{Pattern: "/api/v1/events/**", Methods: []string{"GET"}, Public: true},
		{Pattern: "/api/v1/members/admin/**", MinRole: auth.RoleAdmin},
		{Pattern: "/api/v1/members", Methods: []string{"GET"}, Public: true},

		// newsletter: deleting a subscriber outranks listing them
		{Pattern: "/api/v1/newsletter/subscribers/*", Methods: []string{"DELETE"}, MinRole: auth.RoleSuperAdmin},
		{Pattern: "/api/v1/newsletter/subscribers", Methods: []string{"GET"}, MinRole: auth.RoleAdmin},
		{Pattern: "/api/v1/newsletter/**", Public: true},

		{Pattern: "/healthz", Methods: []string{"GET"}, Public: true},
	}...)
}
