package plan

import (
	"net/http"
	"strconv"

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
// @Summary      Create membership plan
// @Tags         plans
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreatePlanRequest  true  "Plan"
// @Success      201   {object}  MembershipPlan
// @Failure      403   {object}  api.ErrorResponse
// @Router       /plans [post]
func (h *Handler) Create(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("planID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid planID"})
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// List godoc
// @Summary      List membership plans
// @Tags         plans
// @Security     BearerAuth
// @Produce      json
// @Param        gym_id  query    int   false  "Limit to a gym (global plans included)"
// @Param        active  query    bool  false  "Only active plans"
// @Success      200     {array}  MembershipPlan
// @Router       /plans [get]
func (h *Handler) List(c *gin.Context) {
	var gymID *int
	if raw := c.Query("gym_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym_id"})
			return
		}
		gymID = &id
	}
	activeOnly := c.Query("active") == "true"

	plans, err := h.service.List(c.Request.Context(), gymID, activeOnly)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("planID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid planID"})
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("planID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid planID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Plan deleted"})
}
