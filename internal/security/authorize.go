package security

import (
	"context"
	"fmt"
	"strings"

	"github.com/kiarashjv/task-management-system/internal/domain"
)

// Decision is the outcome of evaluating a rule for a principal.
// Ephemeral; computed per request and never stored.
type Decision struct {
	Allow  bool
	Reason string
}

// OwnershipFunc correlates the principal's username with the target
// resource's recorded owner. It must return (false, nil) when the resource
// does not exist, and an error only when the lookup itself fails.
type OwnershipFunc func(ctx context.Context, username string) (bool, error)

// Rule decides whether a principal may perform an operation. A returned
// error means the decision could not be made (infrastructure failure) and
// must not be treated as a deny.
type Rule func(ctx context.Context, principal *Principal) (Decision, error)

// RequireAnyRole allows a principal holding at least one of the given roles
func RequireAnyRole(roles ...domain.Role) Rule {
	authorities := make([]string, 0, len(roles))
	for _, role := range roles {
		authorities = append(authorities, RolePrefix+string(role))
	}
	required := strings.Join(authorities, ", ")

	return func(ctx context.Context, principal *Principal) (Decision, error) {
		if principal.HasAnyRole(roles...) {
			return Decision{Allow: true}, nil
		}
		return Decision{
			Allow:  false,
			Reason: fmt.Sprintf("requires any of [%s]", required),
		}, nil
	}
}

// AdminOrSelf allows an ADMIN unconditionally, and any principal when the
// ownership predicate holds for the target resource.
func AdminOrSelf(ownership OwnershipFunc) Rule {
	return func(ctx context.Context, principal *Principal) (Decision, error) {
		if principal.HasRole(domain.RoleAdmin) {
			return Decision{Allow: true}, nil
		}

		owns, err := ownership(ctx, principal.Username)
		if err != nil {
			return Decision{}, fmt.Errorf("ownership check failed: %w", err)
		}
		if owns {
			return Decision{Allow: true}, nil
		}
		return Decision{Allow: false, Reason: "not the resource owner"}, nil
	}
}

// AdminOrOwner allows an ADMIN unconditionally, and a USER when the
// ownership predicate holds for the target resource.
func AdminOrOwner(ownership OwnershipFunc) Rule {
	return func(ctx context.Context, principal *Principal) (Decision, error) {
		if principal.HasRole(domain.RoleAdmin) {
			return Decision{Allow: true}, nil
		}

		if principal.HasRole(domain.RoleUser) {
			owns, err := ownership(ctx, principal.Username)
			if err != nil {
				return Decision{}, fmt.Errorf("ownership check failed: %w", err)
			}
			if owns {
				return Decision{Allow: true}, nil
			}
			return Decision{Allow: false, Reason: "not the resource owner"}, nil
		}

		return Decision{
			Allow:  false,
			Reason: fmt.Sprintf("requires %sADMIN or owning %sUSER", RolePrefix, RolePrefix),
		}, nil
	}
}
