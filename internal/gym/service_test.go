package gym

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gymhub/internal/apperr"
	"gymhub/internal/identity"
)

// MockGymRepo embeds the interface so only the methods under test need
// implementations.
type MockGymRepo struct {
	Repository
	mock.Mock
}

func (m *MockGymRepo) CreateGym(ctx context.Context, g Gym) (*Gym, error) {
	args := m.Called(ctx, g)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func (m *MockGymRepo) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func (m *MockGymRepo) CountGymsByOwner(ctx context.Context, ownerID int) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *MockGymRepo) CreateBranch(ctx context.Context, b Branch) (*Branch, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Branch), args.Error(1)
}

func (m *MockGymRepo) BranchOwner(ctx context.Context, branchID int) (int, error) {
	args := m.Called(ctx, branchID)
	return args.Int(0), args.Error(1)
}

func (m *MockGymRepo) CreateStaffAssignment(ctx context.Context, userID, branchID int, role identity.Role) (*StaffAssignment, error) {
	args := m.Called(ctx, userID, branchID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StaffAssignment), args.Error(1)
}

type MockUserDirectory struct{ mock.Mock }

func (m *MockUserDirectory) Exists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func superAdmin() identity.Actor {
	return identity.Actor{ID: 1, Role: identity.RoleSuperAdmin, Status: identity.StatusActive}
}

func gymOwner(id int) identity.Actor {
	return identity.Actor{ID: id, Role: identity.RoleGymOwner, Status: identity.StatusActive}
}

func TestCreateGym_OwnerFirstGym(t *testing.T) {
	repo := new(MockGymRepo)
	users := new(MockUserDirectory)

	repo.On("CountGymsByOwner", mock.Anything, 2).Return(0, nil)
	repo.On("CreateGym", mock.Anything, mock.MatchedBy(func(g Gym) bool {
		return g.OwnerID == 2 && g.Name == "Iron Temple"
	})).Return(&Gym{ID: 1, OwnerID: 2, Name: "Iron Temple"}, nil)

	svc := NewService(repo, users)
	g, err := svc.CreateGym(context.Background(), gymOwner(2), CreateGymRequest{Name: "Iron Temple"})
	assert.NoError(t, err)
	assert.Equal(t, 2, g.OwnerID)
}

func TestCreateGym_SecondGymRejected(t *testing.T) {
	repo := new(MockGymRepo)

	repo.On("CountGymsByOwner", mock.Anything, 2).Return(1, nil)

	svc := NewService(repo, new(MockUserDirectory))
	_, err := svc.CreateGym(context.Background(), gymOwner(2), CreateGymRequest{Name: "Second"})
	assert.True(t, apperr.IsConflict(err))
	repo.AssertNotCalled(t, "CreateGym", mock.Anything, mock.Anything)
}

func TestCreateGym_AdminAssignsOwner(t *testing.T) {
	repo := new(MockGymRepo)
	users := new(MockUserDirectory)

	owner := 7
	users.On("Exists", mock.Anything, 7).Return(true, nil)
	repo.On("CreateGym", mock.Anything, mock.MatchedBy(func(g Gym) bool {
		return g.OwnerID == 7
	})).Return(&Gym{ID: 1, OwnerID: 7}, nil)

	svc := NewService(repo, users)
	_, err := svc.CreateGym(context.Background(), superAdmin(), CreateGymRequest{Name: "X", OwnerID: &owner})
	assert.NoError(t, err)
}

func TestCreateGym_MemberDenied(t *testing.T) {
	svc := NewService(new(MockGymRepo), new(MockUserDirectory))

	memberActor := identity.Actor{ID: 5, Role: identity.RoleMember, Status: identity.StatusActive}
	_, err := svc.CreateGym(context.Background(), memberActor, CreateGymRequest{Name: "Nope"})
	assert.True(t, apperr.IsUnauthorized(err))
}

func TestCreateBranch_ForeignOwnerDenied(t *testing.T) {
	repo := new(MockGymRepo)

	repo.On("GetGymByID", mock.Anything, 1).Return(&Gym{ID: 1, OwnerID: 2}, nil)

	svc := NewService(repo, new(MockUserDirectory))
	_, err := svc.CreateBranch(context.Background(), gymOwner(3), 1, CreateBranchRequest{Name: "Downtown"})
	assert.True(t, apperr.IsUnauthorized(err))
}

func TestAssignStaff_OnlyStaffRoles(t *testing.T) {
	svc := NewService(new(MockGymRepo), new(MockUserDirectory))

	_, err := svc.AssignStaff(context.Background(), superAdmin(), 5, AssignStaffRequest{
		UserID: 7, Role: "MEMBER",
	})
	assert.True(t, apperr.IsValidation(err))
}

func TestAssignStaff_TrainerToOwnedBranch(t *testing.T) {
	repo := new(MockGymRepo)
	users := new(MockUserDirectory)

	repo.On("BranchOwner", mock.Anything, 5).Return(2, nil)
	users.On("Exists", mock.Anything, 7).Return(true, nil)
	repo.On("CreateStaffAssignment", mock.Anything, 7, 5, identity.RoleTrainer).
		Return(&StaffAssignment{ID: 1, UserID: 7, BranchID: 5, AssignedRole: identity.RoleTrainer}, nil)

	svc := NewService(repo, users)
	a, err := svc.AssignStaff(context.Background(), gymOwner(2), 5, AssignStaffRequest{
		UserID: 7, Role: "TRAINER",
	})
	assert.NoError(t, err)
	assert.Equal(t, identity.RoleTrainer, a.AssignedRole)
}

func TestAssignStaff_UnknownUser(t *testing.T) {
	repo := new(MockGymRepo)
	users := new(MockUserDirectory)

	repo.On("BranchOwner", mock.Anything, 5).Return(2, nil)
	users.On("Exists", mock.Anything, 404).Return(false, nil)

	svc := NewService(repo, users)
	_, err := svc.AssignStaff(context.Background(), gymOwner(2), 5, AssignStaffRequest{
		UserID: 404, Role: "TRAINER",
	})
	assert.True(t, apperr.IsNotFound(err))
}
