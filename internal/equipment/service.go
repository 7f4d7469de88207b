package equipment

import (
	"context"
	"time"

	"gymhub/internal/apperr"
	"gymhub/internal/authz"
	"gymhub/internal/gym"
	"gymhub/internal/identity"
)

type Service interface {
	Create(ctx context.Context, actor identity.Actor, branchID int, req CreateEquipmentRequest) (*Equipment, error)
	Get(ctx context.Context, id int) (*Equipment, error)
	List(ctx context.Context, branchID *int) ([]Equipment, error)
	Update(ctx context.Context, actor identity.Actor, id int, req UpdateEquipmentRequest) (*Equipment, error)
	Delete(ctx context.Context, actor identity.Actor, id int) error
}

type service struct {
	repo Repository
	gyms gym.Repository
}

func NewService(repo Repository, gyms gym.Repository) Service {
	return &service{repo: repo, gyms: gyms}
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		t, err = time.Parse(time.RFC3339, *raw)
	}
	if err != nil {
		return nil, apperr.Validation("invalid purchase date format: %s", *raw)
	}
	return &t, nil
}

func (s *service) Create(ctx context.Context, actor identity.Actor, branchID int, req CreateEquipmentRequest) (*Equipment, error) {
	if *req.Quantity < 0 {
		return nil, apperr.Validation("quantity must be a non-negative integer")
	}

	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		return nil, err
	}

	ownerID, err := s.gyms.BranchOwner(ctx, branchID)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(actor, authz.ActionCreate, authz.OwnedByGym(ownerID)); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, Equipment{
		BranchID:     branchID,
		Name:         req.Name,
		Description:  req.Description,
		Quantity:     *req.Quantity,
		PurchaseDate: purchaseDate,
		Condition:    req.Condition,
	})
}

func (s *service) Get(ctx context.Context, id int) (*Equipment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, branchID *int) ([]Equipment, error) {
	return s.repo.List(ctx, branchID)
}

func (s *service) Update(ctx context.Context, actor identity.Actor, id int, req UpdateEquipmentRequest) (*Equipment, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ownerID, err := s.gyms.BranchOwner(ctx, e.BranchID)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(actor, authz.ActionUpdate, authz.OwnedByGym(ownerID)); err != nil {
		return nil, err
	}

	if req.Quantity != nil && *req.Quantity < 0 {
		return nil, apperr.Validation("quantity must be a non-negative integer")
	}

	if req.BranchID != nil && *req.BranchID != e.BranchID {
		if !actor.IsSuperAdmin() {
			return nil, apperr.Unauthorized("only SUPER_ADMIN can move equipment to another branch")
		}
		if _, err := s.gyms.GetBranchByID(ctx, *req.BranchID); err != nil {
			return nil, err
		}
	}

	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, req.Name, req.Description, req.Quantity, purchaseDate, req.Condition, req.BranchID)
}

func (s *service) Delete(ctx context.Context, actor identity.Actor, id int) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ownerID, err := s.gyms.BranchOwner(ctx, e.BranchID)
	if err != nil {
		return err
	}

	if err := authz.Authorize(actor, authz.ActionDelete, authz.OwnedByGym(ownerID)); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}
