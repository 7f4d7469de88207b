package plan

import (
	"context"

	"gymhub/internal/apperr"
	"gymhub/internal/authz"
	"gymhub/internal/gym"
	"gymhub/internal/identity"
)

type Service interface {
	Create(ctx context.Context, actor identity.Actor, req CreatePlanRequest) (*MembershipPlan, error)
	Get(ctx context.Context, id int) (*MembershipPlan, error)
	List(ctx context.Context, gymID *int, activeOnly bool) ([]MembershipPlan, error)
	Update(ctx context.Context, actor identity.Actor, id int, req UpdatePlanRequest) (*MembershipPlan, error)
	Delete(ctx context.Context, actor identity.Actor, id int) error
}

type service struct {
	repo Repository
	gyms gym.Repository
}

func NewService(repo Repository, gyms gym.Repository) Service {
	return &service{repo: repo, gyms: gyms}
}

func validatePricing(price *float64, durationDays *int) error {
	if price != nil && *price < 0 {
		return apperr.Validation("price must be non-negative")
	}
	if durationDays != nil && *durationDays <= 0 {
		return apperr.Validation("duration_days must be a positive integer")
	}
	return nil
}

func (s *service) Create(ctx context.Context, actor identity.Actor, req CreatePlanRequest) (*MembershipPlan, error) {
	if err := validatePricing(req.Price, req.DurationDays); err != nil {
		return nil, err
	}

	if req.GymID == nil {
		// Global plans belong to the platform, not to any owner.
		if !actor.IsSuperAdmin() {
			return nil, apperr.Unauthorized("only SUPER_ADMIN can create global plans")
		}
	} else {
		ownerID, err := s.gyms.GymOwner(ctx, *req.GymID)
		if err != nil {
			return nil, err
		}
		if err := authz.Authorize(actor, authz.ActionCreate, authz.OwnedByGym(ownerID)); err != nil {
			return nil, err
		}
	}

	return s.repo.Create(ctx, MembershipPlan{
		GymID:        req.GymID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        *req.Price,
		DurationDays: *req.DurationDays,
	})
}

func (s *service) Get(ctx context.Context, id int) (*MembershipPlan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, gymID *int, activeOnly bool) ([]MembershipPlan, error) {
	return s.repo.List(ctx, gymID, activeOnly)
}

func (s *service) authorize(ctx context.Context, actor identity.Actor, action authz.Action, p *MembershipPlan) error {
	if p.IsGlobal() {
		if !actor.IsSuperAdmin() {
			return apperr.Unauthorized("only SUPER_ADMIN can manage global plans")
		}
		return nil
	}
	ownerID, err := s.gyms.GymOwner(ctx, *p.GymID)
	if err != nil {
		return err
	}
	return authz.Authorize(actor, action, authz.OwnedByGym(ownerID))
}

func (s *service) Update(ctx context.Context, actor identity.Actor, id int, req UpdatePlanRequest) (*MembershipPlan, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, authz.ActionUpdate, p); err != nil {
		return nil, err
	}
	if err := validatePricing(req.Price, req.DurationDays); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, req)
}

func (s *service) Delete(ctx context.Context, actor identity.Actor, id int) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, authz.ActionDelete, p); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
