package auth

// Role is the closed set of principal roles. It is decoded exactly once, at
// token verification, and never re-parsed downstream.
type Role string

const (
	// RoleRegular is an end user of the public site
	RoleRegular Role = "REGULAR"
	// RoleAdmin can manage content
	RoleAdmin Role = "ADMIN"
	// RoleSuperAdmin can additionally manage destructive operations
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

var roleHierarchy = map[Role]int{
	RoleRegular:    0,
	RoleAdmin:      1,
	RoleSuperAdmin: 2,
}

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	_, ok := roleHierarchy[r]
	return ok
}

// IsAtLeast checks if this role meets the minimum required level. Unknown
// roles never satisfy any requirement.
func (r Role) IsAtLeast(min Role) bool {
	current, ok := roleHierarchy[r]
	if !ok {
		return false
	}

	required, ok := roleHierarchy[min]
	if !ok {
		return false
	}

	return current >= required
}

// AllRoles returns the predefined roles in hierarchical order
func AllRoles() []Role {
	return []Role{RoleRegular, RoleAdmin, RoleSuperAdmin}
}

// ParseRole safely parses a string into a Role
func ParseRole(raw string) (Role, bool) {
	role := Role(raw)
	return role, role.IsValid()
}
