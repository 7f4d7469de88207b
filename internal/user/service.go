package user

import (
	"context"
	"fmt"

	"gymhub/internal/apperr"
	"gymhub/internal/auth"
	"gymhub/internal/clock"
	"gymhub/internal/identity"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
	GetByID(ctx context.Context, actor identity.Actor, userID int) (*User, error)
	List(ctx context.Context, actor identity.Actor) ([]User, error)
	UpdateProfile(ctx context.Context, actor identity.Actor, req UpdateProfileRequest) (*User, error)

	CreateByAdmin(ctx context.Context, actor identity.Actor, req CreateUserRequest) (*User, error)
	Approve(ctx context.Context, actor identity.Actor, userID int) (*User, error)
	ChangeRole(ctx context.Context, actor identity.Actor, userID int, newRole identity.Role) (*User, error)
	SetStatus(ctx context.Context, actor identity.Actor, userID int, status identity.AccountStatus) (*User, error)
	Delete(ctx context.Context, actor identity.Actor, userID int) error
}

type service struct {
	repo      Repository
	gyms      GymDirectory
	jwtSecret string
	clk       clock.Clock
}

func NewService(repo Repository, gyms GymDirectory, jwtSecret string, clk clock.Clock) Service {
	return &service{
		repo:      repo,
		gyms:      gyms,
		jwtSecret: jwtSecret,
		clk:       clk,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	role := identity.Role(req.Role)
	if req.Role == "" {
		role = identity.RoleMember
	}
	if !identity.ValidRole(role) {
		return nil, apperr.Validation("invalid role: %s", req.Role)
	}

	status, ok := identity.SelfRegisterStatus(role)
	if !ok {
		return nil, apperr.Unauthorized("role %s cannot self-register; contact an administrator", role)
	}

	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("user with this email already exists")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, User{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		PasswordHash:  passwordHash,
		PhoneNumber:   req.PhoneNumber,
		Role:          role,
		AccountStatus: status,
	})
	if err != nil {
		return nil, err
	}

	return s.withTokens(created)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, apperr.Unauthorized("invalid credentials")
	}

	if u.AccountStatus != identity.StatusActive {
		return nil, apperr.Unauthorized("account is not active (status: %s)", u.AccountStatus)
	}

	return s.withTokens(u)
}

func (s *service) withTokens(u *User) (*AuthResponse, error) {
	access, refresh, err := auth.GenerateTokens(u.Actor(), u.Email, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		User:      u,
		TokenPair: TokenPair{AccessToken: access, RefreshToken: refresh},
	}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, err
	}

	newAccessToken, err := auth.GenerateAccessToken(u.Actor(), u.Email, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, u, nil
}

func (s *service) GetByID(ctx context.Context, actor identity.Actor, userID int) (*User, error) {
	if !actor.IsSuperAdmin() && actor.Role != identity.RoleAdminStaff && actor.ID != userID {
		return nil, apperr.Unauthorized("cannot view another user's profile")
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *service) List(ctx context.Context, actor identity.Actor) ([]User, error) {
	if !actor.IsSuperAdmin() && actor.Role != identity.RoleAdminStaff {
		return nil, apperr.Unauthorized("only platform staff may list users")
	}
	return s.repo.List(ctx)
}

func (s *service) UpdateProfile(ctx context.Context, actor identity.Actor, req UpdateProfileRequest) (*User, error) {
	return s.repo.UpdateProfile(ctx, actor.ID, req.FirstName, req.LastName, req.PhoneNumber)
}

// CreateByAdmin provisions an account per the role-creation matrix:
// SUPER_ADMIN -> ADMIN_STAFF/GYM_OWNER, GYM_OWNER -> branch staff within an
// owned gym, RECEPTIONIST -> members at an assigned branch.
func (s *service) CreateByAdmin(ctx context.Context, actor identity.Actor, req CreateUserRequest) (*User, error) {
	role := identity.Role(req.Role)
	if !identity.ValidRole(role) {
		return nil, apperr.Validation("invalid role: %s", req.Role)
	}

	if !identity.CanCreate(actor.Role, role) {
		return nil, apperr.Unauthorized("role %s may not create accounts with role %s", actor.Role, role)
	}

	var gymID, branchID *int

	switch actor.Role {
	case identity.RoleSuperAdmin:
		gymID = req.GymID
		branchID = req.BranchID
		if branchID != nil {
			parentGym, err := s.gyms.BranchGym(ctx, *branchID)
			if err != nil {
				return nil, err
			}
			if gymID != nil && *gymID != parentGym {
				return nil, apperr.Validation("branch %d does not belong to gym %d", *branchID, *gymID)
			}
			gymID = &parentGym
		}

	case identity.RoleGymOwner:
		if req.GymID == nil {
			return nil, apperr.Validation("gym_id is required when a gym owner creates staff")
		}
		ownerID, err := s.gyms.GymOwner(ctx, *req.GymID)
		if err != nil {
			return nil, err
		}
		if ownerID != actor.ID {
			return nil, apperr.Unauthorized("you do not own gym %d", *req.GymID)
		}
		gymID = req.GymID
		if req.BranchID != nil {
			parentGym, err := s.gyms.BranchGym(ctx, *req.BranchID)
			if err != nil {
				return nil, err
			}
			if parentGym != *gymID {
				return nil, apperr.Validation("branch %d does not belong to gym %d", *req.BranchID, *gymID)
			}
			branchID = req.BranchID
		}

	case identity.RoleReceptionist:
		if req.BranchID == nil {
			return nil, apperr.Validation("branch_id is required when a receptionist creates members")
		}
		assigned, err := s.gyms.StaffAssignedToBranch(ctx, actor.ID, *req.BranchID)
		if err != nil {
			return nil, err
		}
		if !assigned {
			return nil, apperr.Unauthorized("you are not assigned to branch %d", *req.BranchID)
		}
		parentGym, err := s.gyms.BranchGym(ctx, *req.BranchID)
		if err != nil {
			return nil, err
		}
		branchID = req.BranchID
		gymID = &parentGym
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, User{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		PasswordHash:  passwordHash,
		PhoneNumber:   req.PhoneNumber,
		Role:          role,
		AccountStatus: identity.StatusActive,
		GymID:         gymID,
		BranchID:      branchID,
	})
	if err != nil {
		return nil, err
	}

	// Branch staff get a duty record at their branch.
	if identity.StaffRole(role) && branchID != nil {
		if err := s.gyms.EnsureStaffAssignment(ctx, created.ID, *branchID, role); err != nil {
			return nil, err
		}
	}

	return created, nil
}

func (s *service) Approve(ctx context.Context, actor identity.Actor, userID int) (*User, error) {
	if !actor.IsSuperAdmin() && actor.Role != identity.RoleAdminStaff {
		return nil, apperr.Unauthorized("only platform staff may approve accounts")
	}

	target, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if target.Role != identity.RoleGymOwner {
		return nil, apperr.Validation("only GYM_OWNER accounts go through approval")
	}
	if target.AccountStatus == identity.StatusActive {
		return nil, apperr.State("account is already active")
	}
	if target.AccountStatus != identity.StatusPendingApproval {
		return nil, apperr.State("cannot approve account with status %s", target.AccountStatus)
	}

	return s.repo.UpdateStatus(ctx, userID, identity.StatusActive)
}

func (s *service) ChangeRole(ctx context.Context, actor identity.Actor, userID int, newRole identity.Role) (*User, error) {
	if !actor.IsSuperAdmin() {
		return nil, apperr.Unauthorized("only SUPER_ADMIN may change roles")
	}
	if !identity.ValidRole(newRole) {
		return nil, apperr.Validation("invalid role: %s", newRole)
	}

	target, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target.Role == newRole {
		return nil, apperr.State("user already has role %s", newRole)
	}

	if err := s.guardLastAdmin(ctx, target); err != nil {
		return nil, err
	}

	return s.repo.UpdateRole(ctx, userID, newRole)
}

func (s *service) SetStatus(ctx context.Context, actor identity.Actor, userID int, status identity.AccountStatus) (*User, error) {
	if !actor.IsSuperAdmin() && actor.Role != identity.RoleAdminStaff {
		return nil, apperr.Unauthorized("only platform staff may change account status")
	}
	if !identity.ValidStatus(status) {
		return nil, apperr.Validation("invalid account status: %s", status)
	}

	target, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if status != identity.StatusActive {
		if err := s.guardLastAdmin(ctx, target); err != nil {
			return nil, err
		}
	}

	return s.repo.UpdateStatus(ctx, userID, status)
}

func (s *service) Delete(ctx context.Context, actor identity.Actor, userID int) error {
	if !actor.IsSuperAdmin() {
		return apperr.Unauthorized("only SUPER_ADMIN may delete accounts")
	}
	if actor.ID == userID {
		return apperr.Validation("you cannot delete your own account")
	}

	target, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.guardLastAdmin(ctx, target); err != nil {
		return err
	}

	mangled := fmt.Sprintf("%s_%d_deleted", target.Email, s.clk.Now().UnixMilli())
	return s.repo.SoftDelete(ctx, userID, mangled)
}

// guardLastAdmin refuses any mutation that would leave the platform
// without an ACTIVE SUPER_ADMIN.
func (s *service) guardLastAdmin(ctx context.Context, target *User) error {
	if target.Role != identity.RoleSuperAdmin || target.AccountStatus != identity.StatusActive {
		return nil
	}

	count, err := s.repo.CountActiveSuperAdmins(ctx)
	if err != nil {
		return err
	}
	if count <= 1 {
		return apperr.Conflict("cannot remove the only active SUPER_ADMIN")
	}
	return nil
}
