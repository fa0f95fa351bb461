package security

import (
	"strings"

	"github.com/kiarashjv/task-management-system/internal/domain"
)

// RolePrefix is prepended to role names when rendering authorities for
// rule evaluation and deny reasons. It never appears on the wire.
const RolePrefix = "ROLE_"

// Principal is the verified identity attached to a request. Derived from a
// decoded claim set, lives for one request, never persisted.
type Principal struct {
	Username string
	Roles    []domain.Role
}

// NewPrincipal builds a Principal from a verified claim set
func NewPrincipal(claims *ClaimSet) *Principal {
	return &Principal{
		Username: claims.Subject,
		Roles:    claims.Roles,
	}
}

// HasRole reports whether the principal holds the given role
func (p *Principal) HasRole(role domain.Role) bool {
	return domain.HasRole(p.Roles, role)
}

// HasAnyRole reports whether the principal holds at least one of the roles
func (p *Principal) HasAnyRole(roles ...domain.Role) bool {
	for _, role := range roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}

// Authorities renders the principal's roles with the internal prefix
func (p *Principal) Authorities() []string {
	out := make([]string, 0, len(p.Roles))
	for _, role := range p.Roles {
		out = append(out, RolePrefix+string(role))
	}
	return out
}

// ParseRoles splits a space-joined roles claim into known roles and the
// unknown names that were rejected.
func ParseRoles(claim string) (roles []domain.Role, unknown []string) {
	for _, name := range strings.Fields(claim) {
		role, ok := domain.ParseRole(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		roles = append(roles, role)
	}
	return roles, unknown
}
