package subscription

import (
	"context"
	"time"

	"gymhub/internal/apperr"
	"gymhub/internal/clock"
	"gymhub/internal/gym"
	"gymhub/internal/identity"
	"gymhub/internal/plan"
	"gymhub/internal/user"
)

type Service interface {
	Create(ctx context.Context, actor identity.Actor, req CreateSubscriptionRequest) (*MemberSubscription, error)
	Get(ctx context.Context, actor identity.Actor, id int) (*MemberSubscription, error)
	List(ctx context.Context, actor identity.Actor, filter ListFilter) ([]MemberSubscription, error)
	UpdateStatus(ctx context.Context, actor identity.Actor, id int, newStatus Status) (*MemberSubscription, error)
	// Sweep expires every past-due ACTIVE subscription. Restricted to
	// SUPER_ADMIN; the background sweeper calls the repository directly.
	Sweep(ctx context.Context, actor identity.Actor) (int64, error)
}

type service struct {
	repo  Repository
	plans plan.Repository
	users user.Repository
	gyms  gym.Repository
	clk   clock.Clock
}

func NewService(repo Repository, plans plan.Repository, users user.Repository, gyms gym.Repository, clk clock.Clock) Service {
	return &service{repo: repo, plans: plans, users: users, gyms: gyms, clk: clk}
}

func parseStartDate(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		t, err = time.Parse(time.RFC3339, raw)
	}
	if err != nil {
		return time.Time{}, apperr.Validation("invalid start_date format: %s", raw)
	}
	return t, nil
}

func (s *service) Create(ctx context.Context, actor identity.Actor, req CreateSubscriptionRequest) (*MemberSubscription, error) {
	memberID := actor.ID
	if req.MemberID != nil {
		memberID = *req.MemberID
	}
	if memberID != actor.ID && !actor.IsSuperAdmin() {
		return nil, apperr.Unauthorized("only SUPER_ADMIN can create subscriptions for other members")
	}

	if _, err := s.users.FindByID(ctx, memberID); err != nil {
		return nil, err
	}

	p, err := s.plans.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, apperr.State("membership plan is not active")
	}

	startDate, err := parseStartDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate := startDate.AddDate(0, 0, p.DurationDays)

	return s.repo.Create(ctx, MemberSubscription{
		MemberID:             memberID,
		PlanID:               req.PlanID,
		StartDate:            startDate,
		EndDate:              endDate,
		Status:               StatusActive,
		PaymentTransactionID: req.PaymentTransactionID,
	}, p.GymID)
}

func (s *service) Get(ctx context.Context, actor identity.Actor, id int) (*MemberSubscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeAccess(ctx, actor, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) List(ctx context.Context, actor identity.Actor, filter ListFilter) ([]MemberSubscription, error) {
	if actor.Role == identity.RoleMember {
		// Members only ever see their own subscriptions.
		filter.MemberID = &actor.ID
	}
	return s.repo.List(ctx, filter)
}

// authorizeAccess grants the subscriber, the plan's gym owner, and
// SUPER_ADMIN.
func (s *service) authorizeAccess(ctx context.Context, actor identity.Actor, sub *MemberSubscription) error {
	if actor.IsSuperAdmin() || actor.ID == sub.MemberID {
		return nil
	}
	p, err := s.plans.GetByID(ctx, sub.PlanID)
	if err != nil {
		return err
	}
	if p.GymID != nil {
		ownerID, err := s.gyms.GymOwner(ctx, *p.GymID)
		if err != nil {
			return err
		}
		if actor.ID == ownerID {
			return nil
		}
	}
	return apperr.Unauthorized("not allowed to access this subscription")
}

var allowedTransitions = map[Status]map[Status]bool{
	StatusPendingPayment: {StatusActive: true, StatusCancelled: true},
	StatusActive:         {StatusExpired: true, StatusCancelled: true},
}

func (s *service) UpdateStatus(ctx context.Context, actor identity.Actor, id int, newStatus Status) (*MemberSubscription, error) {
	if !ValidStatus(newStatus) {
		return nil, apperr.Validation("invalid subscription status: %s", newStatus)
	}

	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status.Terminal() {
		return nil, apperr.State("subscription is already %s", sub.Status)
	}
	if !allowedTransitions[sub.Status][newStatus] {
		return nil, apperr.State("cannot transition subscription from %s to %s", sub.Status, newStatus)
	}

	switch newStatus {
	case StatusCancelled:
		// The subscriber may cancel their own ACTIVE subscription;
		// otherwise only SUPER_ADMIN or the plan's gym owner.
		if actor.ID == sub.MemberID && sub.Status == StatusActive {
			break
		}
		if err := s.requireAdminOrOwner(ctx, actor, sub); err != nil {
			return nil, err
		}
	default:
		if err := s.requireAdminOrOwner(ctx, actor, sub); err != nil {
			return nil, err
		}
	}

	return s.repo.UpdateStatus(ctx, id, newStatus)
}

func (s *service) requireAdminOrOwner(ctx context.Context, actor identity.Actor, sub *MemberSubscription) error {
	if actor.IsSuperAdmin() {
		return nil
	}
	p, err := s.plans.GetByID(ctx, sub.PlanID)
	if err != nil {
		return err
	}
	if p.GymID != nil {
		ownerID, err := s.gyms.GymOwner(ctx, *p.GymID)
		if err != nil {
			return err
		}
		if actor.ID == ownerID {
			return nil
		}
	}
	return apperr.Unauthorized("not allowed to change this subscription's status")
}

func (s *service) Sweep(ctx context.Context, actor identity.Actor) (int64, error) {
	if !actor.IsSuperAdmin() {
		return 0, apperr.Unauthorized("only SUPER_ADMIN can trigger an expiry sweep")
	}
	return s.repo.SweepExpired(ctx, s.clk.Now())
}
