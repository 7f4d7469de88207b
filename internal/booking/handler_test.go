package booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gymhub/internal/apperr"
	"gymhub/internal/identity"
)

type MockBookingService struct{ mock.Mock }

func (m *MockBookingService) Create(ctx context.Context, actor identity.Actor, sessionID int, req CreateBookingRequest) (*Booking, error) {
	args := m.Called(ctx, actor, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingService) Get(ctx context.Context, actor identity.Actor, id int) (*Booking, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingService) List(ctx context.Context, actor identity.Actor, filter ListFilter) ([]Booking, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, actor identity.Actor, id int, reason *string) (*Booking, error) {
	args := m.Called(ctx, actor, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingService) MarkAttendance(ctx context.Context, actor identity.Actor, id int, status Status) (*Booking, error) {
	args := m.Called(ctx, actor, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func setupRouter(svc Service, actor identity.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("actor", actor)
		c.Next()
	})
	r.POST("/sessions/:sessionID/bookings", h.Create)
	r.GET("/bookings/:bookingID", h.Get)
	r.POST("/bookings/:bookingID/cancel", h.Cancel)
	return r
}

func TestCreateHandler_EmptyBodyBooksSelf(t *testing.T) {
	svc := new(MockBookingService)
	actor := member(10)

	svc.On("Create", mock.Anything, actor, 40, CreateBookingRequest{}).
		Return(&Booking{ID: 1, SessionID: 40, MemberID: 10, Status: StatusEnrolled}, nil)

	r := setupRouter(svc, actor)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/sessions/40/bookings", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"ENROLLED"`)
	svc.AssertExpectations(t)
}

func TestCreateHandler_FullSessionMapsTo409(t *testing.T) {
	svc := new(MockBookingService)
	actor := member(10)

	svc.On("Create", mock.Anything, actor, 40, CreateBookingRequest{}).
		Return(nil, apperr.State("session is full"))

	r := setupRouter(svc, actor)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/sessions/40/bookings", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "session is full")
}

func TestCreateHandler_DeniedMapsTo403(t *testing.T) {
	svc := new(MockBookingService)
	actor := member(10)

	svc.On("Create", mock.Anything, actor, 40, mock.Anything).
		Return(nil, apperr.Unauthorized("members can only book sessions for themselves"))

	r := setupRouter(svc, actor)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/sessions/40/bookings", strings.NewReader(`{"member_id": 99}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateHandler_BadSessionID(t *testing.T) {
	svc := new(MockBookingService)
	r := setupRouter(svc, member(10))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/sessions/abc/bookings", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelHandler_PassesReason(t *testing.T) {
	svc := new(MockBookingService)
	actor := member(10)

	svc.On("Cancel", mock.Anything, actor, 9, mock.MatchedBy(func(reason *string) bool {
		return reason != nil && *reason == "injured"
	})).Return(&Booking{ID: 9, Status: StatusCancelledByMember}, nil)

	r := setupRouter(svc, actor)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/bookings/9/cancel", strings.NewReader(`{"reason":"injured"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestGetHandler_NotFoundMapsTo404(t *testing.T) {
	svc := new(MockBookingService)
	actor := member(10)

	svc.On("Get", mock.Anything, actor, 404).Return(nil, apperr.NotFound("booking not found"))

	r := setupRouter(svc, actor)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/bookings/404", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
