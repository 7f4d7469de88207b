package classtype

import (
	"context"

	"gymhub/internal/apperr"
	"gymhub/internal/authz"
	"gymhub/internal/gym"
	"gymhub/internal/identity"
)

type Service interface {
	Create(ctx context.Context, actor identity.Actor, req CreateClassTypeRequest) (*TrainingClassType, error)
	Get(ctx context.Context, id int) (*TrainingClassType, error)
	List(ctx context.Context, gymID *int) ([]TrainingClassType, error)
	Update(ctx context.Context, actor identity.Actor, id int, req UpdateClassTypeRequest) (*TrainingClassType, error)
	Delete(ctx context.Context, actor identity.Actor, id int) error
}

type service struct {
	repo Repository
	gyms gym.Repository
}

func NewService(repo Repository, gyms gym.Repository) Service {
	return &service{repo: repo, gyms: gyms}
}

func (s *service) Create(ctx context.Context, actor identity.Actor, req CreateClassTypeRequest) (*TrainingClassType, error) {
	if req.DefaultDurationMinutes != nil && *req.DefaultDurationMinutes <= 0 {
		return nil, apperr.Validation("default_duration_minutes must be a positive integer")
	}

	if req.GymID == nil {
		if !actor.IsSuperAdmin() {
			return nil, apperr.Unauthorized("only SUPER_ADMIN can create global class types")
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

	return s.repo.Create(ctx, TrainingClassType{
		GymID:                  req.GymID,
		Name:                   req.Name,
		Description:            req.Description,
		DefaultDurationMinutes: req.DefaultDurationMinutes,
	})
}

func (s *service) Get(ctx context.Context, id int) (*TrainingClassType, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, gymID *int) ([]TrainingClassType, error) {
	return s.repo.List(ctx, gymID)
}

func (s *service) authorize(ctx context.Context, actor identity.Actor, action authz.Action, t *TrainingClassType) error {
	if t.IsGlobal() {
		if !actor.IsSuperAdmin() {
			return apperr.Unauthorized("only SUPER_ADMIN can manage global class types")
		}
		return nil
	}
	ownerID, err := s.gyms.GymOwner(ctx, *t.GymID)
	if err != nil {
		return err
	}
	return authz.Authorize(actor, action, authz.OwnedByGym(ownerID))
}

func (s *service) Update(ctx context.Context, actor identity.Actor, id int, req UpdateClassTypeRequest) (*TrainingClassType, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, authz.ActionUpdate, t); err != nil {
		return nil, err
	}
	if req.DefaultDurationMinutes != nil && *req.DefaultDurationMinutes <= 0 {
		return nil, apperr.Validation("default_duration_minutes must be a positive integer")
	}
	return s.repo.Update(ctx, id, req)
}

func (s *service) Delete(ctx context.Context, actor identity.Actor, id int) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, authz.ActionDelete, t); err != nil {
		return err
	}

	inUse, err := s.repo.InUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return apperr.Conflict("class type is in use by scheduled sessions")
	}

	return s.repo.Delete(ctx, id)
}
