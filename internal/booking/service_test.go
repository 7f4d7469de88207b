package booking

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
	"gymhub/internal/session"
	"gymhub/internal/user"
)

type MockBookingRepo struct{ mock.Mock }

func (m *MockBookingRepo) Book(ctx context.Context, memberID, sessionID int, now time.Time) (*Booking, error) {
	args := m.Called(ctx, memberID, sessionID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) Cancel(ctx context.Context, bookingID int, status Status, reason *string, now time.Time) (*Booking, bool, error) {
	args := m.Called(ctx, bookingID, status, reason, now)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*Booking), args.Bool(1), args.Error(2)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id int) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) List(ctx context.Context, filter ListFilter) ([]Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id int, status Status) (*Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

// MockSessionRepo embeds the interface so only the methods this service
// reaches need implementations.
type MockSessionRepo struct {
	session.Repository
	mock.Mock
}

func (m *MockSessionRepo) GetByID(ctx context.Context, id int) (*session.ScheduledSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.ScheduledSession), args.Error(1)
}

type MockUserRepo struct {
	user.Repository
	mock.Mock
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockGymRepo struct {
	gym.Repository
	mock.Mock
}

func (m *MockGymRepo) BranchOwner(ctx context.Context, branchID int) (int, error) {
	args := m.Called(ctx, branchID)
	return args.Int(0), args.Error(1)
}

func (m *MockGymRepo) StaffAssignedToBranch(ctx context.Context, userID, branchID int) (bool, error) {
	args := m.Called(ctx, userID, branchID)
	return args.Bool(0), args.Error(1)
}

type fixture struct {
	repo     *MockBookingRepo
	sessions *MockSessionRepo
	users    *MockUserRepo
	gyms     *MockGymRepo
	now      time.Time
	svc      Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:     new(MockBookingRepo),
		sessions: new(MockSessionRepo),
		users:    new(MockUserRepo),
		gyms:     new(MockGymRepo),
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.repo, f.sessions, f.users, f.gyms, clock.Fixed(f.now))
	return f
}

func member(id int) identity.Actor {
	return identity.Actor{ID: id, Role: identity.RoleMember, Status: identity.StatusActive}
}

func futureSession(f *fixture, id, branchID int) *session.ScheduledSession {
	return &session.ScheduledSession{
		ID: id, BranchID: branchID, StartTime: f.now.Add(2 * time.Hour),
		Capacity: 20, Status: session.StatusScheduled,
	}
}

func TestCreate_MemberBooksSelf(t *testing.T) {
	f := newFixture()

	f.users.On("FindByID", mock.Anything, 10).Return(&user.User{ID: 10}, nil)
	f.sessions.On("GetByID", mock.Anything, 40).Return(futureSession(f, 40, 5), nil)
	f.repo.On("Book", mock.Anything, 10, 40, f.now).Return(&Booking{ID: 1, MemberID: 10, SessionID: 40, Status: StatusEnrolled}, nil)

	b, err := f.svc.Create(context.Background(), member(10), 40, CreateBookingRequest{})
	assert.NoError(t, err)
	assert.Equal(t, StatusEnrolled, b.Status)
	f.repo.AssertExpectations(t)
}

func TestCreate_MemberCannotBookOthers(t *testing.T) {
	f := newFixture()

	other := 99
	_, err := f.svc.Create(context.Background(), member(10), 40, CreateBookingRequest{MemberID: &other})
	assert.True(t, apperr.IsUnauthorized(err))
	f.repo.AssertNotCalled(t, "Book", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_OwnerBooksForMemberInOwnGym(t *testing.T) {
	f := newFixture()

	owner := identity.Actor{ID: 2, Role: identity.RoleGymOwner, Status: identity.StatusActive}
	target := 10

	f.users.On("FindByID", mock.Anything, 10).Return(&user.User{ID: 10}, nil)
	f.sessions.On("GetByID", mock.Anything, 40).Return(futureSession(f, 40, 5), nil)
	f.gyms.On("BranchOwner", mock.Anything, 5).Return(2, nil)
	f.repo.On("Book", mock.Anything, 10, 40, f.now).Return(&Booking{ID: 1, MemberID: 10}, nil)

	_, err := f.svc.Create(context.Background(), owner, 40, CreateBookingRequest{MemberID: &target})
	assert.NoError(t, err)
}

func TestCreate_ForeignOwnerDenied(t *testing.T) {
	f := newFixture()

	owner := identity.Actor{ID: 3, Role: identity.RoleGymOwner, Status: identity.StatusActive}
	target := 10

	f.users.On("FindByID", mock.Anything, 10).Return(&user.User{ID: 10}, nil)
	f.sessions.On("GetByID", mock.Anything, 40).Return(futureSession(f, 40, 5), nil)
	f.gyms.On("BranchOwner", mock.Anything, 5).Return(2, nil)

	_, err := f.svc.Create(context.Background(), owner, 40, CreateBookingRequest{MemberID: &target})
	assert.True(t, apperr.IsUnauthorized(err))
}

func TestCancel_SelfBeforeStart(t *testing.T) {
	f := newFixture()

	f.repo.On("GetByID", mock.Anything, 9).Return(&Booking{ID: 9, SessionID: 40, MemberID: 10, Status: StatusEnrolled}, nil)
	f.sessions.On("GetByID", mock.Anything, 40).Return(futureSession(f, 40, 5), nil)
	f.gyms.On("BranchOwner", mock.Anything, 5).Return(2, nil)
	f.repo.On("Cancel", mock.Anything, 9, StatusCancelledByMember, (*string)(nil), f.now).
		Return(&Booking{ID: 9, Status: StatusCancelledByMember}, true, nil)

	b, err := f.svc.Cancel(context.Background(), member(10), 9, nil)
	assert.NoError(t, err)
	assert.Equal(t, StatusCancelledByMember, b.Status)
}

func TestCancel_AdminUsesAdminStatus(t *testing.T) {
	f := newFixture()

	admin := identity.Actor{ID: 1, Role: identity.RoleSuperAdmin, Status: identity.StatusActive}
	reason := "class moved"

	f.repo.On("GetByID", mock.Anything, 9).Return(&Booking{ID: 9, SessionID: 40, MemberID: 10, Status: StatusEnrolled}, nil)
	f.sessions.On("GetByID", mock.Anything, 40).Return(futureSession(f, 40, 5), nil)
	f.gyms.On("BranchOwner", mock.Anything, 5).Return(2, nil)
	f.repo.On("Cancel", mock.Anything, 9, StatusCancelledByAdmin, &reason, f.now).
		Return(&Booking{ID: 9, Status: StatusCancelledByAdmin}, true, nil)

	_, err := f.svc.Cancel(context.Background(), admin, 9, &reason)
	assert.NoError(t, err)
	f.repo.AssertExpectations(t)
}

func TestCancel_IsIdempotent(t *testing.T) {
	f := newFixture()

	f.repo.On("GetByID", mock.Anything, 9).Return(&Booking{ID: 9, SessionID: 40, MemberID: 10, Status: StatusCancelledByMember}, nil)
	f.sessions.On("GetByID", mock.Anything, 40).Return(futureSession(f, 40, 5), nil)
	f.gyms.On("BranchOwner", mock.Anything, 5).Return(2, nil)

	b, err := f.svc.Cancel(context.Background(), member(10), 9, nil)
	assert.NoError(t, err)
	assert.Equal(t, StatusCancelledByMember, b.Status)
	f.repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_AfterStartRejected(t *testing.T) {
	f := newFixture()

	started := &session.ScheduledSession{
		ID: 40, BranchID: 5, StartTime: f.now.Add(-time.Minute),
		Capacity: 20, Status: session.StatusScheduled,
	}
	f.repo.On("GetByID", mock.Anything, 9).Return(&Booking{ID: 9, SessionID: 40, MemberID: 10, Status: StatusEnrolled}, nil)
	f.sessions.On("GetByID", mock.Anything, 40).Return(started, nil)
	f.gyms.On("BranchOwner", mock.Anything, 5).Return(2, nil)

	_, err := f.svc.Cancel(context.Background(), member(10), 9, nil)
	assert.True(t, apperr.IsState(err))
}

func TestCancel_AfterStartRejectedEvenWhenAlreadyCancelled(t *testing.T) {
	f := newFixture()

	started := &session.ScheduledSession{
		ID: 40, BranchID: 5, StartTime: f.now.Add(-2 * time.Hour),
		Capacity: 20, Status: session.StatusScheduled,
	}
	f.repo.On("GetByID", mock.Anything, 9).Return(&Booking{ID: 9, SessionID: 40, MemberID: 10, Status: StatusCancelledByMember}, nil)
	f.sessions.On("GetByID", mock.Anything, 40).Return(started, nil)
	f.gyms.On("BranchOwner", mock.Anything, 5).Return(2, nil)

	_, err := f.svc.Cancel(context.Background(), member(10), 9, nil)
	assert.True(t, apperr.IsState(err))
	f.repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_StrangerDenied(t *testing.T) {
	f := newFixture()

	f.repo.On("GetByID", mock.Anything, 9).Return(&Booking{ID: 9, SessionID: 40, MemberID: 10, Status: StatusEnrolled}, nil)
	f.sessions.On("GetByID", mock.Anything, 40).Return(futureSession(f, 40, 5), nil)
	f.gyms.On("BranchOwner", mock.Anything, 5).Return(2, nil)

	_, err := f.svc.Cancel(context.Background(), member(11), 9, nil)
	assert.True(t, apperr.IsUnauthorized(err))
}

func TestMarkAttendance_TrainerAfterStart(t *testing.T) {
	f := newFixture()

	trainer := identity.Actor{ID: 4, Role: identity.RoleTrainer, Status: identity.StatusActive}
	started := &session.ScheduledSession{
		ID: 40, BranchID: 5, StartTime: f.now.Add(-time.Hour),
		Capacity: 20, Status: session.StatusScheduled,
	}

	f.repo.On("GetByID", mock.Anything, 9).Return(&Booking{ID: 9, SessionID: 40, MemberID: 10, Status: StatusEnrolled}, nil)
	f.sessions.On("GetByID", mock.Anything, 40).Return(started, nil)
	f.gyms.On("BranchOwner", mock.Anything, 5).Return(2, nil)
	f.gyms.On("StaffAssignedToBranch", mock.Anything, 4, 5).Return(true, nil)
	f.repo.On("UpdateStatus", mock.Anything, 9, StatusAttended).
		Return(&Booking{ID: 9, Status: StatusAttended}, nil)

	b, err := f.svc.MarkAttendance(context.Background(), trainer, 9, StatusAttended)
	assert.NoError(t, err)
	assert.Equal(t, StatusAttended, b.Status)
}

func TestMarkAttendance_BeforeStartRejected(t *testing.T) {
	f := newFixture()

	trainer := identity.Actor{ID: 4, Role: identity.RoleTrainer, Status: identity.StatusActive}
	f.repo.On("GetByID", mock.Anything, 9).Return(&Booking{ID: 9, SessionID: 40, MemberID: 10, Status: StatusEnrolled}, nil)
	f.sessions.On("GetByID", mock.Anything, 40).Return(futureSession(f, 40, 5), nil)

	_, err := f.svc.MarkAttendance(context.Background(), trainer, 9, StatusNoShow)
	assert.True(t, apperr.IsState(err))
}

func TestMarkAttendance_OnlyAttendanceStatuses(t *testing.T) {
	f := newFixture()

	trainer := identity.Actor{ID: 4, Role: identity.RoleTrainer, Status: identity.StatusActive}
	_, err := f.svc.MarkAttendance(context.Background(), trainer, 9, StatusEnrolled)
	assert.True(t, apperr.IsValidation(err))
}

func TestList_MemberNarrowedToSelf(t *testing.T) {
	f := newFixture()

	self := 10
	f.repo.On("List", mock.Anything, mock.MatchedBy(func(fl ListFilter) bool {
		return fl.MemberID != nil && *fl.MemberID == self
	})).Return([]Booking{}, nil)

	other := 99
	_, err := f.svc.List(context.Background(), member(self), ListFilter{MemberID: &other})
	assert.NoError(t, err)
	f.repo.AssertExpectations(t)
}
