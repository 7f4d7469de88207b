package user

import (
	"time"

	"gymhub/internal/identity"
)

type User struct {
	ID            int                    `db:"id" json:"id"`
	FirstName     string                 `db:"first_name" json:"first_name"`
	LastName      string                 `db:"last_name" json:"last_name"`
	Email         string                 `db:"email" json:"email"`
	PasswordHash  string                 `db:"password_hash" json:"-"`
	PhoneNumber   *string                `db:"phone_number" json:"phone_number,omitempty"`
	Role          identity.Role          `db:"role" json:"role"`
	AccountStatus identity.AccountStatus `db:"account_status" json:"account_status"`
	GymID         *int                   `db:"gym_id" json:"gym_id,omitempty"`
	BranchID      *int                   `db:"branch_id" json:"branch_id,omitempty"`
	CreatedAt     time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time              `db:"updated_at" json:"updated_at"`
}

func (u *User) Actor() identity.Actor {
	return identity.Actor{ID: u.ID, Role: u.Role, Status: u.AccountStatus}
}

type RegisterRequest struct {
	FirstName   string  `json:"first_name" binding:"required"`
	LastName    string  `json:"last_name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	PhoneNumber *string `json:"phone_number"`
	Role        string  `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	FirstName   string  `json:"first_name" binding:"required"`
	LastName    string  `json:"last_name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	PhoneNumber *string `json:"phone_number"`
	Role        string  `json:"role" binding:"required"`
	GymID       *int    `json:"gym_id"`
	BranchID    *int    `json:"branch_id"`
}

type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	User *User `json:"user"`
	TokenPair
}
