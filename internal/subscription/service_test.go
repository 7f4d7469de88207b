package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gymhub/internal/apperr"
	"gymhub/internal/clock"
	"gymhub/internal/gym"
	"gymhub/internal/identity"
	"gymhub/internal/plan"
	"gymhub/internal/user"
)

type MockSubscriptionRepo struct{ mock.Mock }

func (m *MockSubscriptionRepo) Create(ctx context.Context, sub MemberSubscription, planGymID *int) (*MemberSubscription, error) {
	args := m.Called(ctx, sub, planGymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MemberSubscription), args.Error(1)
}

func (m *MockSubscriptionRepo) GetByID(ctx context.Context, id int) (*MemberSubscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MemberSubscription), args.Error(1)
}

func (m *MockSubscriptionRepo) List(ctx context.Context, filter ListFilter) ([]MemberSubscription, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MemberSubscription), args.Error(1)
}

func (m *MockSubscriptionRepo) UpdateStatus(ctx context.Context, id int, status Status) (*MemberSubscription, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MemberSubscription), args.Error(1)
}

func (m *MockSubscriptionRepo) SweepExpired(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

type MockPlanRepo struct{ mock.Mock }

func (m *MockPlanRepo) Create(ctx context.Context, p plan.MembershipPlan) (*plan.MembershipPlan, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.MembershipPlan), args.Error(1)
}

func (m *MockPlanRepo) GetByID(ctx context.Context, id int) (*plan.MembershipPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.MembershipPlan), args.Error(1)
}

func (m *MockPlanRepo) List(ctx context.Context, gymID *int, activeOnly bool) ([]plan.MembershipPlan, error) {
	args := m.Called(ctx, gymID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]plan.MembershipPlan), args.Error(1)
}

func (m *MockPlanRepo) Update(ctx context.Context, id int, req plan.UpdatePlanRequest) (*plan.MembershipPlan, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.MembershipPlan), args.Error(1)
}

func (m *MockPlanRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func activePlan(id int, gymID *int, durationDays int) *plan.MembershipPlan {
	return &plan.MembershipPlan{
		ID: id, GymID: gymID, Name: "Monthly", Price: 49.90,
		DurationDays: durationDays, IsActive: true,
	}
}

func memberActor(id int) identity.Actor {
	return identity.Actor{ID: id, Role: identity.RoleMember, Status: identity.StatusActive}
}

func fixedClock() clock.Clock {
	return clock.Fixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
}

func newSubService(repo Repository, plans plan.Repository, users user.Repository, gyms gym.Repository) Service {
	return NewService(repo, plans, users, gyms, fixedClock())
}

func TestCreateComputesEndDateFromPlanDuration(t *testing.T) {
	repo := new(MockSubscriptionRepo)
	plans := new(MockPlanRepo)
	users := new(stubUserRepo)

	plans.On("GetByID", mock.Anything, 3).Return(activePlan(3, nil, 30), nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s MemberSubscription) bool {
		return s.MemberID == 10 &&
			s.Status == StatusActive &&
			s.EndDate.Equal(s.StartDate.AddDate(0, 0, 30))
	}), (*int)(nil)).Return(&MemberSubscription{ID: 1, MemberID: 10}, nil)

	svc := newSubService(repo, plans, users, nil)
	_, err := svc.Create(context.Background(), memberActor(10), CreateSubscriptionRequest{
		PlanID: 3, StartDate: "2025-06-01",
	})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreateForOtherMemberRequiresSuperAdmin(t *testing.T) {
	svc := newSubService(new(MockSubscriptionRepo), new(MockPlanRepo), new(stubUserRepo), nil)

	other := 99
	_, err := svc.Create(context.Background(), memberActor(10), CreateSubscriptionRequest{
		MemberID: &other, PlanID: 3, StartDate: "2025-06-01",
	})
	assert.True(t, apperr.IsUnauthorized(err))
}

func TestCreateRejectsInactivePlan(t *testing.T) {
	repo := new(MockSubscriptionRepo)
	plans := new(MockPlanRepo)

	p := activePlan(3, nil, 30)
	p.IsActive = false
	plans.On("GetByID", mock.Anything, 3).Return(p, nil)

	svc := newSubService(repo, plans, new(stubUserRepo), nil)
	_, err := svc.Create(context.Background(), memberActor(10), CreateSubscriptionRequest{
		PlanID: 3, StartDate: "2025-06-01",
	})
	assert.True(t, apperr.IsState(err))
}

func TestCreateRejectsBadStartDate(t *testing.T) {
	repo := new(MockSubscriptionRepo)
	plans := new(MockPlanRepo)
	plans.On("GetByID", mock.Anything, 3).Return(activePlan(3, nil, 30), nil)

	svc := newSubService(repo, plans, new(stubUserRepo), nil)
	_, err := svc.Create(context.Background(), memberActor(10), CreateSubscriptionRequest{
		PlanID: 3, StartDate: "yesterday",
	})
	assert.True(t, apperr.IsValidation(err))
}

func TestSubscriberMayCancelOwnActive(t *testing.T) {
	repo := new(MockSubscriptionRepo)

	repo.On("GetByID", mock.Anything, 5).Return(&MemberSubscription{
		ID: 5, MemberID: 10, PlanID: 3, Status: StatusActive,
	}, nil)
	repo.On("UpdateStatus", mock.Anything, 5, StatusCancelled).Return(&MemberSubscription{
		ID: 5, MemberID: 10, Status: StatusCancelled,
	}, nil)

	svc := newSubService(repo, new(MockPlanRepo), new(stubUserRepo), nil)
	sub, err := svc.UpdateStatus(context.Background(), memberActor(10), 5, StatusCancelled)
	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, sub.Status)
}

func TestStrangerCannotCancel(t *testing.T) {
	repo := new(MockSubscriptionRepo)
	plans := new(MockPlanRepo)

	repo.On("GetByID", mock.Anything, 5).Return(&MemberSubscription{
		ID: 5, MemberID: 10, PlanID: 3, Status: StatusActive,
	}, nil)
	plans.On("GetByID", mock.Anything, 3).Return(activePlan(3, nil, 30), nil)

	svc := newSubService(repo, plans, new(stubUserRepo), nil)
	_, err := svc.UpdateStatus(context.Background(), memberActor(11), 5, StatusCancelled)
	assert.True(t, apperr.IsUnauthorized(err))
}

func TestTerminalStatusRejectsTransitions(t *testing.T) {
	repo := new(MockSubscriptionRepo)

	repo.On("GetByID", mock.Anything, 5).Return(&MemberSubscription{
		ID: 5, MemberID: 10, Status: StatusCancelled,
	}, nil)

	svc := newSubService(repo, new(MockPlanRepo), new(stubUserRepo), nil)
	_, err := svc.UpdateStatus(context.Background(), memberActor(10), 5, StatusActive)
	assert.True(t, apperr.IsState(err))
}

func TestUnknownStatusRejected(t *testing.T) {
	svc := newSubService(new(MockSubscriptionRepo), new(MockPlanRepo), new(stubUserRepo), nil)
	_, err := svc.UpdateStatus(context.Background(), memberActor(10), 5, Status("FROZEN"))
	assert.True(t, apperr.IsValidation(err))
}

func TestSweepRequiresSuperAdmin(t *testing.T) {
	repo := new(MockSubscriptionRepo)
	svc := newSubService(repo, new(MockPlanRepo), new(stubUserRepo), nil)

	_, err := svc.Sweep(context.Background(), memberActor(10))
	assert.True(t, apperr.IsUnauthorized(err))

	repo.On("SweepExpired", mock.Anything, mock.Anything).Return(int64(4), nil)
	count, err := svc.Sweep(context.Background(), identity.Actor{
		ID: 1, Role: identity.RoleSuperAdmin, Status: identity.StatusActive,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestMemberListIsNarrowedToSelf(t *testing.T) {
	repo := new(MockSubscriptionRepo)
	self := 10
	repo.On("List", mock.Anything, mock.MatchedBy(func(f ListFilter) bool {
		return f.MemberID != nil && *f.MemberID == self
	})).Return([]MemberSubscription{}, nil)

	svc := newSubService(repo, new(MockPlanRepo), new(stubUserRepo), nil)
	other := 99
	_, err := svc.List(context.Background(), memberActor(self), ListFilter{MemberID: &other})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

// stubUserRepo satisfies user.Repository for tests that only need member
// existence checks.
type stubUserRepo struct{}

func (stubUserRepo) Create(context.Context, user.User) (*user.User, error) { return nil, nil }
func (stubUserRepo) FindByEmail(context.Context, string) (*user.User, error) {
	return nil, nil
}
func (stubUserRepo) FindByID(ctx context.Context, id int) (*user.User, error) {
	return &user.User{ID: id, Role: identity.RoleMember, AccountStatus: identity.StatusActive}, nil
}
func (stubUserRepo) EmailExists(context.Context, string) (bool, error) { return false, nil }
func (stubUserRepo) Exists(context.Context, int) (bool, error)         { return true, nil }
func (stubUserRepo) List(context.Context) ([]user.User, error)         { return nil, nil }
func (stubUserRepo) CountActiveSuperAdmins(context.Context) (int, error) {
	return 1, nil
}
func (stubUserRepo) UpdateRole(context.Context, int, identity.Role) (*user.User, error) {
	return nil, nil
}
func (stubUserRepo) UpdateStatus(context.Context, int, identity.AccountStatus) (*user.User, error) {
	return nil, nil
}
func (stubUserRepo) UpdateProfile(context.Context, int, *string, *string, *string) (*user.User, error) {
	return nil, nil
}
func (stubUserRepo) SoftDelete(context.Context, int, string) error { return nil }
