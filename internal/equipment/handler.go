package equipment

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
// @Summary      Add equipment to a branch
// @Tags         equipment
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        branchID  path      int                     true  "Branch ID"
// @Param        body      body      CreateEquipmentRequest  true  "Equipment"
// @Success      201       {object}  Equipment
// @Failure      403       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Router       /branches/{branchID}/equipment [post]
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

	var req CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	e, err := h.service.Create(c.Request.Context(), actor, branchID, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, e)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("equipmentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid equipmentID"})
		return
	}

	e, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// List returns equipment, optionally filtered by branch.
func (h *Handler) List(c *gin.Context) {
	var branchID *int
	if raw := c.Query("branch_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid branch_id"})
			return
		}
		branchID = &id
	}
	if raw := c.Param("branchID"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid branchID"})
			return
		}
		branchID = &id
	}

	items, err := h.service.List(c.Request.Context(), branchID)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Update godoc
// @Summary      Update equipment
// @Tags         equipment
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        equipmentID  path      int                     true  "Equipment ID"
// @Param        body         body      UpdateEquipmentRequest  true  "Fields to update"
// @Success      200          {object}  Equipment
// @Failure      403          {object}  api.ErrorResponse
// @Router       /equipment/{equipmentID} [patch]
func (h *Handler) Update(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("equipmentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid equipmentID"})
		return
	}

	var req UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	e, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("equipmentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid equipmentID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Equipment deleted"})
}
