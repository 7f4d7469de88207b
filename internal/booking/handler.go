package booking

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gymhub/internal/api"
	"gymhub/internal/auth"
	"gymhub/internal/metrics"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Book a session
// @Description  Enrolls the calling member (or, for staff, the member
// @Description  given in the body) into a scheduled session.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        sessionID  path      int                   true   "Session ID"
// @Param        body       body      CreateBookingRequest  false  "Booking"
// @Success      201        {object}  Booking
// @Failure      403        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse  "Already enrolled or session unavailable"
// @Router       /sessions/{sessionID}/bookings [post]
func (h *Handler) Create(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid sessionID"})
		return
	}

	var req CreateBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
	}

	b, err := h.service.Create(c.Request.Context(), actor, sessionID, req)
	if err != nil {
		metrics.RecordBooking("rejected")
		api.Error(c, err)
		return
	}
	metrics.RecordBooking("enrolled")

	c.JSON(http.StatusCreated, b)
}

func (h *Handler) Get(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid bookingID"})
		return
	}

	b, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var filter ListFilter
	if raw := c.Query("session_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid session_id"})
			return
		}
		filter.SessionID = &id
	}
	if raw := c.Query("member_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member_id"})
			return
		}
		filter.MemberID = &id
	}
	if raw := c.Query("status"); raw != "" {
		st := Status(raw)
		filter.Status = &st
	}

	bookings, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// Cancel godoc
// @Summary      Cancel a booking
// @Description  Idempotent: cancelling an already-cancelled booking
// @Description  returns it unchanged.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int                   true   "Booking ID"
// @Param        body       body      CancelBookingRequest  false  "Cancellation"
// @Success      200        {object}  Booking
// @Failure      403        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse  "Session already started"
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid bookingID"})
		return
	}

	var req CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
	}

	b, err := h.service.Cancel(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		api.Error(c, err)
		return
	}
	metrics.RecordBookingCancellation()
	c.JSON(http.StatusOK, b)
}

func (h *Handler) MarkAttendance(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid bookingID"})
		return
	}

	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	b, err := h.service.MarkAttendance(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
