package gym

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

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid " + name})
		return 0, false
	}
	return id, true
}

// CreateGym godoc
// @Summary      Create gym
// @Tags         gyms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateGymRequest  true  "Gym"
// @Success      201   {object}  Gym
// @Failure      403   {object}  api.ErrorResponse
// @Failure      409   {object}  api.ErrorResponse
// @Router       /gyms [post]
func (h *Handler) CreateGym(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	g, err := h.service.CreateGym(c.Request.Context(), actor, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, g)
}

// ListGyms godoc
// @Summary      List gyms
// @Tags         gyms
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Gym
// @Router       /gyms [get]
func (h *Handler) ListGyms(c *gin.Context) {
	gyms, err := h.service.ListGyms(c.Request.Context())
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gyms)
}

func (h *Handler) GetGym(c *gin.Context) {
	gymID, ok := pathID(c, "gymID")
	if !ok {
		return
	}

	g, err := h.service.GetGym(c.Request.Context(), gymID)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// UpdateGym godoc
// @Summary      Update gym
// @Tags         gyms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        gymID  path      int               true  "Gym ID"
// @Param        body   body      UpdateGymRequest  true  "Fields"
// @Success      200    {object}  Gym
// @Failure      403    {object}  api.ErrorResponse
// @Router       /gyms/{gymID} [patch]
func (h *Handler) UpdateGym(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	gymID, ok := pathID(c, "gymID")
	if !ok {
		return
	}

	var req UpdateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	g, err := h.service.UpdateGym(c.Request.Context(), actor, gymID, req)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) DeleteGym(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	gymID, ok := pathID(c, "gymID")
	if !ok {
		return
	}

	if err := h.service.DeleteGym(c.Request.Context(), actor, gymID); err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Gym deleted successfully"})
}

// CreateBranch godoc
// @Summary      Create branch
// @Tags         branches
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        gymID  path      int                  true  "Gym ID"
// @Param        body   body      CreateBranchRequest  true  "Branch"
// @Success      201    {object}  Branch
// @Router       /gyms/{gymID}/branches [post]
func (h *Handler) CreateBranch(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	gymID, ok := pathID(c, "gymID")
	if !ok {
		return
	}

	var req CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	b, err := h.service.CreateBranch(c.Request.Context(), actor, gymID, req)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) ListBranches(c *gin.Context) {
	var gymID *int
	if raw := c.Query("gym_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym_id"})
			return
		}
		gymID = &id
	}

	branches, err := h.service.ListBranches(c.Request.Context(), gymID)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, branches)
}

func (h *Handler) GetBranch(c *gin.Context) {
	branchID, ok := pathID(c, "branchID")
	if !ok {
		return
	}

	b, err := h.service.GetBranch(c.Request.Context(), branchID)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) UpdateBranch(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	branchID, ok := pathID(c, "branchID")
	if !ok {
		return
	}

	var req UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	b, err := h.service.UpdateBranch(c.Request.Context(), actor, branchID, req)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBranch(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	branchID, ok := pathID(c, "branchID")
	if !ok {
		return
	}

	if err := h.service.DeleteBranch(c.Request.Context(), actor, branchID); err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Branch deleted successfully"})
}

// AssignStaff godoc
// @Summary      Assign staff to a branch
// @Tags         branches
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        branchID  path      int                 true  "Branch ID"
// @Param        body      body      AssignStaffRequest  true  "Assignment"
// @Success      201       {object}  StaffAssignment
// @Failure      409       {object}  api.ErrorResponse
// @Router       /branches/{branchID}/staff [post]
func (h *Handler) AssignStaff(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	branchID, ok := pathID(c, "branchID")
	if !ok {
		return
	}

	var req AssignStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	a, err := h.service.AssignStaff(c.Request.Context(), actor, branchID, req)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListStaff(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	branchID, ok := pathID(c, "branchID")
	if !ok {
		return
	}

	assignments, err := h.service.ListStaff(c.Request.Context(), actor, branchID)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

func (h *Handler) RemoveStaff(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	assignmentID, ok := pathID(c, "assignmentID")
	if !ok {
		return
	}

	if err := h.service.RemoveStaff(c.Request.Context(), actor, assignmentID); err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Staff assignment removed"})
}
