package domain

import (
	"context"
	"fmt"
)

// RoleName is one of the assignable roles, or RoleUser for an account without one.
type RoleName string

const (
	RoleAdmin       RoleName = "Admin"
	RoleOrganizer   RoleName = "Organizer"
	RoleParticipant RoleName = "Participant"
	// RoleUser is the effective role of an account with no membership. It cannot be assigned.
	RoleUser RoleName = "User"
)

// AssignableRoles lists the roles an account can hold, highest precedence first.
var AssignableRoles = []RoleName{RoleAdmin, RoleOrganizer, RoleParticipant}

// ParseRoleName accepts only the exact names of the assignable roles.
func ParseRoleName(name string) (RoleName, error) {
	for _, r := range AssignableRoles {
		if RoleName(name) == r {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, name)
}

// ResolveEffectiveRole applies the fixed precedence Admin > Organizer > Participant > User.
// Superusers are always Admin.
func ResolveEffectiveRole(isSuperuser bool, memberships []RoleName) RoleName {
	if isSuperuser {
		return RoleAdmin
	}
	held := make(map[RoleName]bool, len(memberships))
	for _, m := range memberships {
		held[m] = true
	}
	for _, r := range AssignableRoles {
		if held[r] {
			return r
		}
	}
	return RoleUser
}

// Role is a named group accounts can be members of.
type Role struct {
	ID   string   `json:"id"`
	Name RoleName `json:"name"`
}

// RoleRepository defines storage for roles and account memberships.
type RoleRepository interface {
	GetByName(ctx context.Context, name RoleName) (*Role, error)
	ListByAccountID(ctx context.Context, accountID string) ([]*Role, error)
	AddMembership(ctx context.Context, accountID, roleID string) error
	ClearMemberships(ctx context.Context, accountID string) error
	CountMembers(ctx context.Context) (map[RoleName]int, error)
}

// RoleService owns role assignment. An account holds at most one role at a time.
type RoleService interface {
	AssignRole(ctx context.Context, accountID, roleName string) error
	RemoveRole(ctx context.Context, accountID string) error
	EffectiveRole(ctx context.Context, accountID string) (RoleName, error)
	CountByRole(ctx context.Context) (map[RoleName]int, error)
}
