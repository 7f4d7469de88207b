package identity

// Role is the platform-wide role carried by every user account.
type Role string

const (
	RoleSuperAdmin   Role = "SUPER_ADMIN"
	RoleAdminStaff   Role = "ADMIN_STAFF"
	RoleGymOwner     Role = "GYM_OWNER"
	RoleReceptionist Role = "RECEPTIONIST"
	RoleTrainer      Role = "TRAINER"
	RoleMember       Role = "MEMBER"
)

type AccountStatus string

const (
	StatusActive          AccountStatus = "ACTIVE"
	StatusInactive        AccountStatus = "INACTIVE"
	StatusPendingApproval AccountStatus = "PENDING_APPROVAL"
	StatusSuspended       AccountStatus = "SUSPENDED"
	StatusDeleted         AccountStatus = "DELETED"
)

// Actor is the authenticated principal a request acts as, resolved from the
// bearer token by the auth middleware and passed down to every service.
type Actor struct {
	ID     int
	Role   Role
	Status AccountStatus
}

func (a Actor) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

func (a Actor) IsActive() bool {
	return a.Status == StatusActive
}

var validRoles = map[Role]bool{
	RoleSuperAdmin:   true,
	RoleAdminStaff:   true,
	RoleGymOwner:     true,
	RoleReceptionist: true,
	RoleTrainer:      true,
	RoleMember:       true,
}

func ValidRole(r Role) bool {
	return validRoles[r]
}

var validStatuses = map[AccountStatus]bool{
	StatusActive:          true,
	StatusInactive:        true,
	StatusPendingApproval: true,
	StatusSuspended:       true,
	StatusDeleted:         true,
}

func ValidStatus(s AccountStatus) bool {
	return validStatuses[s]
}

// creatableRoles is the role-creation matrix: who may provision accounts
// with which roles. SUPER_ADMIN provisions platform staff and gym owners,
// a gym owner provisions branch staff for gyms they own, and a
// receptionist registers members at branches they are assigned to.
var creatableRoles = map[Role][]Role{
	RoleSuperAdmin:   {RoleAdminStaff, RoleGymOwner},
	RoleGymOwner:     {RoleReceptionist, RoleTrainer},
	RoleReceptionist: {RoleMember},
}

// CanCreate reports whether creator may provision an account with role target.
func CanCreate(creator, target Role) bool {
	for _, r := range creatableRoles[creator] {
		if r == target {
			return true
		}
	}
	return false
}

// selfRegisterRoles are the roles accepted on the public registration
// endpoint. Gym owners land in PENDING_APPROVAL until an admin approves.
var selfRegisterRoles = map[Role]AccountStatus{
	RoleMember:   StatusActive,
	RoleGymOwner: StatusPendingApproval,
}

// SelfRegisterStatus returns the initial account status for a
// self-registered role, or false when the role may not self-register.
func SelfRegisterStatus(r Role) (AccountStatus, bool) {
	s, ok := selfRegisterRoles[r]
	return s, ok
}

// StaffRole reports whether r is a branch staff duty that can appear in a
// BranchStaffAssignment.
func StaffRole(r Role) bool {
	return r == RoleReceptionist || r == RoleTrainer
}
