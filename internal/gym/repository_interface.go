package gym

import (
	"context"

	"gymhub/internal/identity"
)

type Repository interface {
	CreateGym(ctx context.Context, g Gym) (*Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	ListGyms(ctx context.Context) ([]Gym, error)
	CountGymsByOwner(ctx context.Context, ownerID int) (int, error)
	GymIDsByOwner(ctx context.Context, ownerID int) ([]int, error)
	UpdateGym(ctx context.Context, id int, req UpdateGymRequest) (*Gym, error)
	DeleteGym(ctx context.Context, id int) error

	CreateBranch(ctx context.Context, b Branch) (*Branch, error)
	GetBranchByID(ctx context.Context, id int) (*Branch, error)
	ListBranches(ctx context.Context, gymID *int) ([]Branch, error)
	UpdateBranch(ctx context.Context, id int, req UpdateBranchRequest) (*Branch, error)
	DeleteBranch(ctx context.Context, id int) error

	// BranchOwner resolves the ownership chain branch -> gym -> owner.
	BranchOwner(ctx context.Context, branchID int) (ownerID int, err error)
	GymOwner(ctx context.Context, gymID int) (ownerID int, err error)
	BranchGym(ctx context.Context, branchID int) (gymID int, err error)

	CreateStaffAssignment(ctx context.Context, userID, branchID int, role identity.Role) (*StaffAssignment, error)
	EnsureStaffAssignment(ctx context.Context, userID, branchID int, role identity.Role) error
	StaffAssignedToBranch(ctx context.Context, userID, branchID int) (bool, error)
	ListStaffByBranch(ctx context.Context, branchID int) ([]StaffAssignment, error)
	DeleteStaffAssignment(ctx context.Context, id int) error
	GetStaffAssignment(ctx context.Context, id int) (*StaffAssignment, error)
}

// UserDirectory is the slice of the user repository the gym service needs.
type UserDirectory interface {
	Exists(ctx context.Context, id int) (bool, error)
}
