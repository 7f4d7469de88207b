package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gymhub/internal/apperr"
	"gymhub/internal/identity"
)

func actor(id int, role identity.Role) identity.Actor {
	return identity.Actor{ID: id, Role: role, Status: identity.StatusActive}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name    string
		actor   identity.Actor
		action  Action
		chain   Chain
		allowed bool
	}{
		{
			name:    "super admin always allowed",
			actor:   actor(1, identity.RoleSuperAdmin),
			action:  ActionDelete,
			chain:   Chain{},
			allowed: true,
		},
		{
			name:    "gym owner allowed on own gym",
			actor:   actor(7, identity.RoleGymOwner),
			action:  ActionUpdate,
			chain:   OwnedByGym(7),
			allowed: true,
		},
		{
			name:    "gym owner denied on foreign gym",
			actor:   actor(7, identity.RoleGymOwner),
			action:  ActionUpdate,
			chain:   OwnedByGym(8),
			allowed: false,
		},
		{
			name:    "assigned staff allowed",
			actor:   actor(3, identity.RoleReceptionist),
			action:  ActionCreate,
			chain:   OwnedByGym(7).WithStaffAssignment(true),
			allowed: true,
		},
		{
			name:    "unassigned staff denied",
			actor:   actor(3, identity.RoleTrainer),
			action:  ActionCreate,
			chain:   OwnedByGym(7).WithStaffAssignment(false),
			allowed: false,
		},
		{
			name:    "self service allowed",
			actor:   actor(42, identity.RoleMember),
			action:  ActionCancel,
			chain:   OwnedByGym(7).WithSubject(42),
			allowed: true,
		},
		{
			name:    "member denied on another member's resource",
			actor:   actor(42, identity.RoleMember),
			action:  ActionCancel,
			chain:   OwnedByGym(7).WithSubject(43),
			allowed: false,
		},
		{
			name:    "member with no chain context denied",
			actor:   actor(42, identity.RoleMember),
			action:  ActionView,
			chain:   Chain{},
			allowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.action, tt.chain)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.True(t, apperr.IsUnauthorized(err))
			}
		})
	}
}

func TestDenialNamesConsultedRules(t *testing.T) {
	err := Authorize(actor(5, identity.RoleMember), ActionBook, Chain{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "super-admin")
	assert.Contains(t, err.Error(), "self")
}
