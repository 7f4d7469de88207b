package gym

import (
	"context"

	"gymhub/internal/apperr"
	"gymhub/internal/authz"
	"gymhub/internal/identity"
)

type Service interface {
	CreateGym(ctx context.Context, actor identity.Actor, req CreateGymRequest) (*Gym, error)
	GetGym(ctx context.Context, id int) (*Gym, error)
	ListGyms(ctx context.Context) ([]Gym, error)
	UpdateGym(ctx context.Context, actor identity.Actor, gymID int, req UpdateGymRequest) (*Gym, error)
	DeleteGym(ctx context.Context, actor identity.Actor, gymID int) error

	CreateBranch(ctx context.Context, actor identity.Actor, gymID int, req CreateBranchRequest) (*Branch, error)
	GetBranch(ctx context.Context, id int) (*Branch, error)
	ListBranches(ctx context.Context, gymID *int) ([]Branch, error)
	UpdateBranch(ctx context.Context, actor identity.Actor, branchID int, req UpdateBranchRequest) (*Branch, error)
	DeleteBranch(ctx context.Context, actor identity.Actor, branchID int) error

	AssignStaff(ctx context.Context, actor identity.Actor, branchID int, req AssignStaffRequest) (*StaffAssignment, error)
	ListStaff(ctx context.Context, actor identity.Actor, branchID int) ([]StaffAssignment, error)
	RemoveStaff(ctx context.Context, actor identity.Actor, assignmentID int) error
}

type service struct {
	repo  Repository
	users UserDirectory
}

func NewService(repo Repository, users UserDirectory) Service {
	return &service{repo: repo, users: users}
}

func (s *service) CreateGym(ctx context.Context, actor identity.Actor, req CreateGymRequest) (*Gym, error) {
	ownerID := actor.ID

	switch actor.Role {
	case identity.RoleSuperAdmin:
		if req.OwnerID != nil {
			ownerID = *req.OwnerID
		}
		exists, err := s.users.Exists(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.NotFound("owner not found")
		}
	case identity.RoleGymOwner:
		// Self-registered owners get exactly one gym.
		count, err := s.repo.CountGymsByOwner(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperr.Conflict("you already own a gym")
		}
	default:
		return nil, apperr.Unauthorized("role %s may not create gyms", actor.Role)
	}

	return s.repo.CreateGym(ctx, Gym{
		OwnerID:     ownerID,
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	})
}

func (s *service) GetGym(ctx context.Context, id int) (*Gym, error) {
	return s.repo.GetGymByID(ctx, id)
}

func (s *service) ListGyms(ctx context.Context) ([]Gym, error) {
	return s.repo.ListGyms(ctx)
}

func (s *service) UpdateGym(ctx context.Context, actor identity.Actor, gymID int, req UpdateGymRequest) (*Gym, error) {
	g, err := s.repo.GetGymByID(ctx, gymID)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(actor, authz.ActionUpdate, authz.OwnedByGym(g.OwnerID)); err != nil {
		return nil, err
	}

	if req.OwnerID != nil && *req.OwnerID != g.OwnerID {
		if !actor.IsSuperAdmin() {
			return nil, apperr.Unauthorized("only SUPER_ADMIN can change gym ownership")
		}
		exists, err := s.users.Exists(ctx, *req.OwnerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.NotFound("new owner not found")
		}
	}

	return s.repo.UpdateGym(ctx, gymID, req)
}

func (s *service) DeleteGym(ctx context.Context, actor identity.Actor, gymID int) error {
	g, err := s.repo.GetGymByID(ctx, gymID)
	if err != nil {
		return err
	}

	if err := authz.Authorize(actor, authz.ActionDelete, authz.OwnedByGym(g.OwnerID)); err != nil {
		return err
	}

	return s.repo.DeleteGym(ctx, gymID)
}

func (s *service) CreateBranch(ctx context.Context, actor identity.Actor, gymID int, req CreateBranchRequest) (*Branch, error) {
	g, err := s.repo.GetGymByID(ctx, gymID)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(actor, authz.ActionCreate, authz.OwnedByGym(g.OwnerID)); err != nil {
		return nil, err
	}

	return s.repo.CreateBranch(ctx, Branch{
		GymID:       gymID,
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
}

func (s *service) GetBranch(ctx context.Context, id int) (*Branch, error) {
	return s.repo.GetBranchByID(ctx, id)
}

func (s *service) ListBranches(ctx context.Context, gymID *int) ([]Branch, error) {
	return s.repo.ListBranches(ctx, gymID)
}

func (s *service) UpdateBranch(ctx context.Context, actor identity.Actor, branchID int, req UpdateBranchRequest) (*Branch, error) {
	b, err := s.repo.GetBranchByID(ctx, branchID)
	if err != nil {
		return nil, err
	}

	ownerID, err := s.repo.GymOwner(ctx, b.GymID)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(actor, authz.ActionUpdate, authz.OwnedByGym(ownerID)); err != nil {
		return nil, err
	}

	// Re-parenting a branch crosses ownership boundaries.
	if req.GymID != nil && *req.GymID != b.GymID {
		if !actor.IsSuperAdmin() {
			return nil, apperr.Unauthorized("only SUPER_ADMIN can move a branch to another gym")
		}
		if _, err := s.repo.GetGymByID(ctx, *req.GymID); err != nil {
			return nil, err
		}
	}

	return s.repo.UpdateBranch(ctx, branchID, req)
}

func (s *service) DeleteBranch(ctx context.Context, actor identity.Actor, branchID int) error {
	ownerID, err := s.repo.BranchOwner(ctx, branchID)
	if err != nil {
		return err
	}

	if err := authz.Authorize(actor, authz.ActionDelete, authz.OwnedByGym(ownerID)); err != nil {
		return err
	}

	return s.repo.DeleteBranch(ctx, branchID)
}

func (s *service) AssignStaff(ctx context.Context, actor identity.Actor, branchID int, req AssignStaffRequest) (*StaffAssignment, error) {
	role := identity.Role(req.Role)
	if !identity.StaffRole(role) {
		return nil, apperr.Validation("assigned role must be RECEPTIONIST or TRAINER")
	}

	ownerID, err := s.repo.BranchOwner(ctx, branchID)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(actor, authz.ActionCreate, authz.OwnedByGym(ownerID)); err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("user not found")
	}

	return s.repo.CreateStaffAssignment(ctx, req.UserID, branchID, role)
}

func (s *service) ListStaff(ctx context.Context, actor identity.Actor, branchID int) ([]StaffAssignment, error) {
	ownerID, err := s.repo.BranchOwner(ctx, branchID)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(actor, authz.ActionView, authz.OwnedByGym(ownerID)); err != nil {
		return nil, err
	}

	return s.repo.ListStaffByBranch(ctx, branchID)
}

func (s *service) RemoveStaff(ctx context.Context, actor identity.Actor, assignmentID int) error {
	a, err := s.repo.GetStaffAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}

	ownerID, err := s.repo.BranchOwner(ctx, a.BranchID)
	if err != nil {
		return err
	}

	if err := authz.Authorize(actor, authz.ActionDelete, authz.OwnedByGym(ownerID)); err != nil {
		return err
	}

	return s.repo.DeleteStaffAssignment(ctx, assignmentID)
}
