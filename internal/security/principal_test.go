package security

import (
	"testing"

	"github.com/kiarashjv/task-management-system/internal/domain"
)

func TestParseRoles(t *testing.T) {
	t.Run("known roles", func(t *testing.T) {
		roles, unknown := ParseRoles("ADMIN USER PROJECT_MANAGER")
		if len(unknown) != 0 {
			t.Errorf("ParseRoles() unknown = %v, want none", unknown)
		}
		want := []domain.Role{domain.RoleAdmin, domain.RoleUser, domain.RoleProjectManager}
		if len(roles) != len(want) {
			t.Fatalf("ParseRoles() roles = %v, want %v", roles, want)
		}
		for i, role := range want {
			if roles[i] != role {
				t.Errorf("ParseRoles() roles[%d] = %v, want %v", i, roles[i], role)
			}
		}
	})

	t.Run("unknown names are rejected, not guessed", func(t *testing.T) {
		roles, unknown := ParseRoles("ADMIN supervisor role_user")
		if len(roles) != 1 || roles[0] != domain.RoleAdmin {
			t.Errorf("ParseRoles() roles = %v, want [ADMIN]", roles)
		}
		if len(unknown) != 2 {
			t.Errorf("ParseRoles() unknown = %v, want two entries", unknown)
		}
	})

	t.Run("empty claim", func(t *testing.T) {
		roles, unknown := ParseRoles("")
		if len(roles) != 0 || len(unknown) != 0 {
			t.Errorf("ParseRoles(\"\") = %v, %v, want empty", roles, unknown)
		}
	})
}

func TestPrincipal_Roles(t *testing.T) {
	p := &Principal{
		Username: "alice",
		Roles:    []domain.Role{domain.RoleUser, domain.RoleProjectManager},
	}

	if !p.HasRole(domain.RoleUser) {
		t.Error("HasRole(USER) = false, want true")
	}
	if p.HasRole(domain.RoleAdmin) {
		t.Error("HasRole(ADMIN) = true, want false")
	}
	if !p.HasAnyRole(domain.RoleAdmin, domain.RoleProjectManager) {
		t.Error("HasAnyRole(ADMIN, PROJECT_MANAGER) = false, want true")
	}
	if p.HasAnyRole(domain.RoleAdmin) {
		t.Error("HasAnyRole(ADMIN) = true, want false")
	}

	authorities := p.Authorities()
	if len(authorities) != 2 || authorities[0] != "ROLE_USER" || authorities[1] != "ROLE_PROJECT_MANAGER" {
		t.Errorf("Authorities() = %v, want [ROLE_USER ROLE_PROJECT_MANAGER]", authorities)
	}
}
