package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanCreate(t *testing.T) {
	tests := []struct {
		creator Role
		target  Role
		allowed bool
	}{
		{RoleSuperAdmin, RoleAdminStaff, true},
		{RoleSuperAdmin, RoleGymOwner, true},
		{RoleSuperAdmin, RoleMember, false},
		{RoleGymOwner, RoleReceptionist, true},
		{RoleGymOwner, RoleTrainer, true},
		{RoleGymOwner, RoleGymOwner, false},
		{RoleReceptionist, RoleMember, true},
		{RoleReceptionist, RoleTrainer, false},
		{RoleTrainer, RoleMember, false},
		{RoleMember, RoleMember, false},
	}

	for _, tt := range tests {
		got := CanCreate(tt.creator, tt.target)
		assert.Equal(t, tt.allowed, got, "%s creating %s", tt.creator, tt.target)
	}
}

func TestSelfRegisterStatus(t *testing.T) {
	status, ok := SelfRegisterStatus(RoleMember)
	assert.True(t, ok)
	assert.Equal(t, StatusActive, status)

	status, ok = SelfRegisterStatus(RoleGymOwner)
	assert.True(t, ok)
	assert.Equal(t, StatusPendingApproval, status)

	_, ok = SelfRegisterStatus(RoleSuperAdmin)
	assert.False(t, ok)

	_, ok = SelfRegisterStatus(RoleTrainer)
	assert.False(t, ok)
}

func TestStaffRole(t *testing.T) {
	assert.True(t, StaffRole(RoleReceptionist))
	assert.True(t, StaffRole(RoleTrainer))
	assert.False(t, StaffRole(RoleMember))
	assert.False(t, StaffRole(RoleGymOwner))
}

func TestActorHelpers(t *testing.T) {
	admin := Actor{ID: 1, Role: RoleSuperAdmin, Status: StatusActive}
	assert.True(t, admin.IsSuperAdmin())
	assert.True(t, admin.IsActive())

	suspended := Actor{ID: 2, Role: RoleMember, Status: StatusSuspended}
	assert.False(t, suspended.IsSuperAdmin())
	assert.False(t, suspended.IsActive())
}
