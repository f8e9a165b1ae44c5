package delivery

import (
	"errors"
	"net/http"
	"time"

	authdomain "github.com/sampurn31/my-med/internal/auth/domain"
	"github.com/sampurn31/my-med/internal/schedule/usecase"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler handles schedule HTTP requests
type ScheduleHandler struct {
	schedUsecase usecase.ScheduleUsecase
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(schedUsecase usecase.ScheduleUsecase) *ScheduleHandler {
	return &ScheduleHandler{
		schedUsecase: schedUsecase,
	}
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// POST /api/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	userID := c.GetString("userID")

	var req usecase.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := h.schedUsecase.Create(userID, userTimezone(c), &req, time.Now())
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// GET /api/schedules?active=true
func (h *ScheduleHandler) List(c *gin.Context) {
	userID := c.GetString("userID")
	activeOnly := c.Query("active") == "true"

	schedules, err := h.schedUsecase.List(userID, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list schedules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

// GET /api/schedules/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	userID := c.GetString("userID")

	schedule, err := h.schedUsecase.GetByID(userID, c.Param("id"))
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// PUT /api/schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	userID := c.GetString("userID")

	var req usecase.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := h.schedUsecase.Update(userID, c.Param("id"), &req)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// PATCH /api/schedules/:id/active
func (h *ScheduleHandler) SetActive(c *gin.Context) {
	userID := c.GetString("userID")

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := h.schedUsecase.SetActive(userID, c.Param("id"), *req.Active)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// DELETE /api/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.schedUsecase.Delete(userID, c.Param("id")); err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "schedule deleted"})
}

// userTimezone pulls the authenticated user's timezone out of the context so
// schedules created without an explicit timezone inherit it.
func userTimezone(c *gin.Context) string {
	if v, ok := c.Get("user"); ok {
		if user, ok := v.(*authdomain.User); ok {
			return user.Timezone
		}
	}
	return ""
}

func respondScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
