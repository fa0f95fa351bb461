package security

import (
	"context"
	"errors"
	"testing"

	"github.com/kiarashjv/task-management-system/internal/domain"
)

func principalWith(username string, roles ...domain.Role) *Principal {
	return &Principal{Username: username, Roles: roles}
}

func TestRequireAnyRole(t *testing.T) {
	rule := RequireAnyRole(domain.RoleAdmin, domain.RoleProjectManager)
	ctx := context.Background()

	tests := []struct {
		name      string
		principal *Principal
		wantAllow bool
	}{
		{"admin allowed", principalWith("alice", domain.RoleAdmin), true},
		{"project manager allowed", principalWith("bob", domain.RoleProjectManager), true},
		{"plain user denied", principalWith("carol", domain.RoleUser), false},
		{"no roles denied", principalWith("dave"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := rule(ctx, tt.principal)
			if err != nil {
				t.Fatalf("rule() error = %v", err)
			}
			if decision.Allow != tt.wantAllow {
				t.Errorf("rule() allow = %v, want %v (reason: %s)", decision.Allow, tt.wantAllow, decision.Reason)
			}
			if !decision.Allow && decision.Reason == "" {
				t.Error("deny decision carries no reason")
			}
		})
	}
}

func ownerIs(owner string) OwnershipFunc {
	return func(ctx context.Context, username string) (bool, error) {
		return username == owner, nil
	}
}

func TestAdminOrOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("admin bypasses ownership", func(t *testing.T) {
		called := false
		rule := AdminOrOwner(func(ctx context.Context, username string) (bool, error) {
			called = true
			return false, nil
		})

		decision, err := rule(ctx, principalWith("root", domain.RoleAdmin))
		if err != nil {
			t.Fatalf("rule() error = %v", err)
		}
		if !decision.Allow {
			t.Error("rule() allow = false, want true for admin")
		}
		if called {
			t.Error("ownership predicate was evaluated for an admin")
		}
	})

	t.Run("owning user allowed", func(t *testing.T) {
		rule := AdminOrOwner(ownerIs("alice"))
		decision, err := rule(ctx, principalWith("alice", domain.RoleUser))
		if err != nil {
			t.Fatalf("rule() error = %v", err)
		}
		if !decision.Allow {
			t.Error("rule() allow = false, want true for owner")
		}
	})

	t.Run("non-owning user denied", func(t *testing.T) {
		rule := AdminOrOwner(ownerIs("alice"))
		decision, err := rule(ctx, principalWith("bob", domain.RoleUser))
		if err != nil {
			t.Fatalf("rule() error = %v", err)
		}
		if decision.Allow {
			t.Error("rule() allow = true, want false for non-owner")
		}
	})

	t.Run("missing resource is a deny, not an error", func(t *testing.T) {
		// Predicate reports false for a resource that does not exist
		rule := AdminOrOwner(func(ctx context.Context, username string) (bool, error) {
			return false, nil
		})
		decision, err := rule(ctx, principalWith("alice", domain.RoleUser))
		if err != nil {
			t.Fatalf("rule() error = %v, want nil", err)
		}
		if decision.Allow {
			t.Error("rule() allow = true, want false")
		}
	})

	t.Run("lookup failure propagates, never denies", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		rule := AdminOrOwner(func(ctx context.Context, username string) (bool, error) {
			return false, storeErr
		})
		_, err := rule(ctx, principalWith("alice", domain.RoleUser))
		if !errors.Is(err, storeErr) {
			t.Errorf("rule() error = %v, want wrapped %v", err, storeErr)
		}
	})

	t.Run("non-user role without admin denied", func(t *testing.T) {
		rule := AdminOrOwner(ownerIs("alice"))
		decision, err := rule(ctx, principalWith("alice", domain.RoleProjectManager))
		if err != nil {
			t.Fatalf("rule() error = %v", err)
		}
		if decision.Allow {
			t.Error("rule() allow = true, want false for PROJECT_MANAGER without USER role")
		}
	})
}

func TestAdminOrSelf(t *testing.T) {
	ctx := context.Background()

	t.Run("admin allowed", func(t *testing.T) {
		rule := AdminOrSelf(ownerIs("someone-else"))
		decision, err := rule(ctx, principalWith("root", domain.RoleAdmin))
		if err != nil {
			t.Fatalf("rule() error = %v", err)
		}
		if !decision.Allow {
			t.Error("rule() allow = false, want true for admin")
		}
	})

	t.Run("self allowed regardless of role", func(t *testing.T) {
		rule := AdminOrSelf(ownerIs("alice"))
		decision, err := rule(ctx, principalWith("alice", domain.RoleProjectManager))
		if err != nil {
			t.Fatalf("rule() error = %v", err)
		}
		if !decision.Allow {
			t.Error("rule() allow = false, want true for self")
		}
	})

	t.Run("other user denied", func(t *testing.T) {
		rule := AdminOrSelf(ownerIs("alice"))
		decision, err := rule(ctx, principalWith("bob", domain.RoleUser))
		if err != nil {
			t.Fatalf("rule() error = %v", err)
		}
		if decision.Allow {
			t.Error("rule() allow = true, want false for another user")
		}
	})

	t.Run("lookup failure propagates", func(t *testing.T) {
		storeErr := errors.New("timeout")
		rule := AdminOrSelf(func(ctx context.Context, username string) (bool, error) {
			return false, storeErr
		})
		_, err := rule(ctx, principalWith("alice", domain.RoleUser))
		if !errors.Is(err, storeErr) {
			t.Errorf("rule() error = %v, want wrapped %v", err, storeErr)
		}
	})
}
