package subscription

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
// @Summary      Subscribe a member to a plan
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateSubscriptionRequest  true  "Subscription"
// @Success      201   {object}  MemberSubscription
// @Failure      403   {object}  api.ErrorResponse
// @Failure      409   {object}  api.ErrorResponse  "Active subscription with same gym scope exists"
// @Router       /subscriptions [post]
func (h *Handler) Create(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	sub, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		api.Error(c, err)
		return
	}
	metrics.RecordSubscriptionCreated()

	c.JSON(http.StatusCreated, sub)
}

func (h *Handler) Get(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("subscriptionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid subscriptionID"})
		return
	}

	sub, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var filter ListFilter
	if raw := c.Query("member_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member_id"})
			return
		}
		filter.MemberID = &id
	}
	if raw := c.Query("plan_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid plan_id"})
			return
		}
		filter.PlanID = &id
	}
	if raw := c.Query("status"); raw != "" {
		st := Status(raw)
		if !ValidStatus(st) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid status"})
			return
		}
		filter.Status = &st
	}

	subs, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// UpdateStatus godoc
// @Summary      Transition a subscription's status
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        subscriptionID  path      int                  true  "Subscription ID"
// @Param        body            body      UpdateStatusRequest  true  "New status"
// @Success      200             {object}  MemberSubscription
// @Failure      403             {object}  api.ErrorResponse
// @Failure      409             {object}  api.ErrorResponse  "Invalid state transition"
// @Router       /subscriptions/{subscriptionID}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("subscriptionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid subscriptionID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	sub, err := h.service.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Sweep godoc
// @Summary      Expire all past-due subscriptions now
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]int64
// @Failure      403  {object}  api.ErrorResponse
// @Router       /subscriptions/sweep [post]
func (h *Handler) Sweep(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	count, err := h.service.Sweep(c.Request.Context(), actor)
	if err != nil {
		api.Error(c, err)
		return
	}
	metrics.RecordSweep(count)
	c.JSON(http.StatusOK, gin.H{"expired": count})
}
