package gym

import (
	"time"

	"gymhub/internal/identity"
)

type Gym struct {
	ID          int       `db:"id" json:"id"`
	OwnerID     int       `db:"owner_id" json:"owner_id"`
	Name        string    `db:"name" json:"name"`
	Address     *string   `db:"address" json:"address,omitempty"`
	PhoneNumber *string   `db:"phone_number" json:"phone_number,omitempty"`
	Email       *string   `db:"email" json:"email,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Branch struct {
	ID          int       `db:"id" json:"id"`
	GymID       int       `db:"gym_id" json:"gym_id"`
	Name        string    `db:"name" json:"name"`
	Address     *string   `db:"address" json:"address,omitempty"`
	PhoneNumber *string   `db:"phone_number" json:"phone_number,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// StaffAssignment records a user's duty at a branch; a user may hold
// several assignments across branches and roles, unique per triple.
type StaffAssignment struct {
	ID           int           `db:"id" json:"id"`
	UserID       int           `db:"user_id" json:"user_id"`
	BranchID     int           `db:"branch_id" json:"branch_id"`
	AssignedRole identity.Role `db:"assigned_role" json:"assigned_role"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}

type CreateGymRequest struct {
	Name        string  `json:"name" binding:"required"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
	Email       *string `json:"email"`
	// OwnerID is honored only when a SUPER_ADMIN creates a gym on behalf
	// of an owner; gym owners always create for themselves.
	OwnerID *int `json:"owner_id"`
}

type UpdateGymRequest struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
	Email       *string `json:"email"`
	IsActive    *bool   `json:"is_active"`
	OwnerID     *int    `json:"owner_id"`
}

type CreateBranchRequest struct {
	Name        string  `json:"name" binding:"required"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
}

type UpdateBranchRequest struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
	IsActive    *bool   `json:"is_active"`
	GymID       *int    `json:"gym_id"`
}

type AssignStaffRequest struct {
	UserID int    `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}
