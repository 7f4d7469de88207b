package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gymhub/internal/apperr"
	"gymhub/internal/gym"
	"gymhub/internal/identity"
)

type MockPlanRepo struct {
	Repository
	mock.Mock
}

func (m *MockPlanRepo) Create(ctx context.Context, p MembershipPlan) (*MembershipPlan, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MembershipPlan), args.Error(1)
}

func (m *MockPlanRepo) GetByID(ctx context.Context, id int) (*MembershipPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MembershipPlan), args.Error(1)
}

func (m *MockPlanRepo) Update(ctx context.Context, id int, req UpdatePlanRequest) (*MembershipPlan, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MembershipPlan), args.Error(1)
}

type MockGymRepo struct {
	gym.Repository
	mock.Mock
}

func (m *MockGymRepo) GymOwner(ctx context.Context, gymID int) (int, error) {
	args := m.Called(ctx, gymID)
	return args.Int(0), args.Error(1)
}

func superAdmin() identity.Actor {
	return identity.Actor{ID: 1, Role: identity.RoleSuperAdmin, Status: identity.StatusActive}
}

func gymOwner(id int) identity.Actor {
	return identity.Actor{ID: id, Role: identity.RoleGymOwner, Status: identity.StatusActive}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestCreate_GlobalPlanRequiresSuperAdmin(t *testing.T) {
	svc := NewService(new(MockPlanRepo), new(MockGymRepo))

	_, err := svc.Create(context.Background(), gymOwner(2), CreatePlanRequest{
		Name: "All Access", Price: floatPtr(99), DurationDays: intPtr(30),
	})
	assert.True(t, apperr.IsUnauthorized(err))
}

func TestCreate_OwnerCreatesForOwnGym(t *testing.T) {
	repo := new(MockPlanRepo)
	gyms := new(MockGymRepo)

	gyms.On("GymOwner", mock.Anything, 7).Return(2, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p MembershipPlan) bool {
		return p.GymID != nil && *p.GymID == 7 && p.DurationDays == 30
	})).Return(&MembershipPlan{ID: 1, GymID: intPtr(7)}, nil)

	svc := NewService(repo, gyms)
	_, err := svc.Create(context.Background(), gymOwner(2), CreatePlanRequest{
		GymID: intPtr(7), Name: "Monthly", Price: floatPtr(49.90), DurationDays: intPtr(30),
	})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreate_NegativePriceRejected(t *testing.T) {
	svc := NewService(new(MockPlanRepo), new(MockGymRepo))

	_, err := svc.Create(context.Background(), superAdmin(), CreatePlanRequest{
		Name: "Bad", Price: floatPtr(-1), DurationDays: intPtr(30),
	})
	assert.True(t, apperr.IsValidation(err))
}

func TestCreate_ZeroDurationRejected(t *testing.T) {
	svc := NewService(new(MockPlanRepo), new(MockGymRepo))

	_, err := svc.Create(context.Background(), superAdmin(), CreatePlanRequest{
		Name: "Bad", Price: floatPtr(10), DurationDays: intPtr(0),
	})
	assert.True(t, apperr.IsValidation(err))
}

func TestUpdate_ForeignOwnerDenied(t *testing.T) {
	repo := new(MockPlanRepo)
	gyms := new(MockGymRepo)

	repo.On("GetByID", mock.Anything, 3).Return(&MembershipPlan{ID: 3, GymID: intPtr(7)}, nil)
	gyms.On("GymOwner", mock.Anything, 7).Return(2, nil)

	svc := NewService(repo, gyms)
	_, err := svc.Update(context.Background(), gymOwner(3), 3, UpdatePlanRequest{Name: strPtr("Renamed")})
	assert.True(t, apperr.IsUnauthorized(err))
}

func TestUpdate_GlobalPlanByOwnerDenied(t *testing.T) {
	repo := new(MockPlanRepo)

	repo.On("GetByID", mock.Anything, 3).Return(&MembershipPlan{ID: 3}, nil)

	svc := NewService(repo, new(MockGymRepo))
	_, err := svc.Update(context.Background(), gymOwner(2), 3, UpdatePlanRequest{Name: strPtr("Renamed")})
	assert.True(t, apperr.IsUnauthorized(err))
}

func strPtr(s string) *string { return &s }
