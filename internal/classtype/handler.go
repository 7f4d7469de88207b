package classtype

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
// @Summary      Create training class type
// @Tags         class-types
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateClassTypeRequest  true  "Class type"
// @Success      201   {object}  TrainingClassType
// @Failure      403   {object}  api.ErrorResponse
// @Router       /class-types [post]
func (h *Handler) Create(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateClassTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	t, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("classTypeID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid classTypeID"})
		return
	}

	t, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

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

	types, err := h.service.List(c.Request.Context(), gymID)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("classTypeID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid classTypeID"})
		return
	}

	var req UpdateClassTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	t, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Delete godoc
// @Summary      Delete class type
// @Tags         class-types
// @Security     BearerAuth
// @Produce      json
// @Param        classTypeID  path      int  true  "Class type ID"
// @Success      200          {object}  api.MessageResponse
// @Failure      409          {object}  api.ErrorResponse  "Referenced by scheduled sessions"
// @Router       /class-types/{classTypeID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("classTypeID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid classTypeID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Class type deleted"})
}
