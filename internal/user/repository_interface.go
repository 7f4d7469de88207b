package user

import (
	"context"

	"gymhub/internal/identity"
)

type Repository interface {
	Create(ctx context.Context, u User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Exists(ctx context.Context, id int) (bool, error)
	List(ctx context.Context) ([]User, error)
	CountActiveSuperAdmins(ctx context.Context) (int, error)
	UpdateRole(ctx context.Context, id int, role identity.Role) (*User, error)
	UpdateStatus(ctx context.Context, id int, status identity.AccountStatus) (*User, error)
	UpdateProfile(ctx context.Context, id int, firstName, lastName, phoneNumber *string) (*User, error)
	SoftDelete(ctx context.Context, id int, mangledEmail string) error
}

// GymDirectory is the slice of the gym package's repository the user
// service needs to resolve the role-creation matrix. Defined here so the
// two packages do not import each other.
type GymDirectory interface {
	GymOwner(ctx context.Context, gymID int) (ownerID int, err error)
	BranchGym(ctx context.Context, branchID int) (gymID int, err error)
	StaffAssignedToBranch(ctx context.Context, userID, branchID int) (bool, error)
	EnsureStaffAssignment(ctx context.Context, userID, branchID int, role identity.Role) error
}
