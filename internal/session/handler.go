package session

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gymhub/internal/api"
	"gymhub/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Schedule a session at a branch
// @Tags         sessions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        branchID  path      int                   true  "Branch ID"
// @Param        body      body      CreateSessionRequest  true  "Session"
// @Success      201       {object}  ScheduledSession
// @Failure      400       {object}  api.ErrorResponse  "Validation or incompatible class type scope"
// @Failure      403       {object}  api.ErrorResponse
// @Router       /branches/{branchID}/sessions [post]
func (h *Handler) Create(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	branchID, err := strconv.Atoi(c.Param("branchID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid branchID"})
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	sess, err := h.service.Create(c.Request.Context(), actor, branchID, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, sess)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid sessionID"})
		return
	}

	sess, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// List godoc
// @Summary      List scheduled sessions
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Param        branch_id      query    int     false  "Branch filter"
// @Param        class_type_id  query    int     false  "Class type filter"
// @Param        trainer_id     query    int     false  "Trainer filter"
// @Param        status         query    string  false  "Status filter"
// @Param        from           query    string  false  "Earliest start time (RFC3339)"
// @Param        to             query    string  false  "Latest start time (RFC3339)"
// @Success      200            {array}  ScheduledSession
// @Router       /sessions [get]
func (h *Handler) List(c *gin.Context) {
	var filter ListFilter

	intParam := func(name string) (*int, bool) {
		raw := c.Query(name)
		if raw == "" {
			return nil, true
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid " + name})
			return nil, false
		}
		return &v, true
	}

	var ok bool
	if filter.BranchID, ok = intParam("branch_id"); !ok {
		return
	}
	if filter.ClassTypeID, ok = intParam("class_type_id"); !ok {
		return
	}
	if filter.TrainerID, ok = intParam("trainer_id"); !ok {
		return
	}
	if raw := c.Query("status"); raw != "" {
		st := Status(raw)
		if !ValidStatus(st) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid status"})
			return
		}
		filter.Status = &st
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid from"})
			return
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid to"})
			return
		}
		filter.To = &t
	}

	sessions, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid sessionID"})
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	sess, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// Delete godoc
// @Summary      Delete or cancel a session
// @Description  Sessions with existing bookings are cancelled rather
// @Description  than removed, so booking history survives.
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {object}  api.MessageResponse
// @Router       /sessions/{sessionID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid sessionID"})
		return
	}

	cancelled, err := h.service.Delete(c.Request.Context(), actor, id)
	if err != nil {
		api.Error(c, err)
		return
	}

	msg := "Session deleted"
	if cancelled {
		msg = "Session cancelled (bookings exist)"
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: msg})
}
