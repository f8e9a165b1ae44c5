package delivery

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sampurn31/my-med/internal/doselog/usecase"

	"github.com/gin-gonic/gin"
)

// DoseLogHandler handles dose event HTTP requests
type DoseLogHandler struct {
	doseUsecase   usecase.DoseLogUsecase
	snoozeDefault time.Duration
}

// NewDoseLogHandler creates a new DoseLogHandler
func NewDoseLogHandler(doseUsecase usecase.DoseLogUsecase, snoozeDefault time.Duration) *DoseLogHandler {
	return &DoseLogHandler{
		doseUsecase:   doseUsecase,
		snoozeDefault: snoozeDefault,
	}
}

type snoozeRequest struct {
	Minutes int `json:"minutes"`
}

type logDoseRequest struct {
	ScheduleID  string    `json:"schedule_id" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// POST /api/doses
func (h *DoseLogHandler) Log(c *gin.Context) {
	userID := c.GetString("userID")

	var req logDoseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.doseUsecase.Log(userID, req.ScheduleID, req.ScheduledAt)
	if err != nil {
		respondDoseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// POST /api/doses/sync
func (h *DoseLogHandler) Sync(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.doseUsecase.SyncToday(userID, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sync dose logs"})
		return
	}

	logs, err := h.doseUsecase.Today(userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dose logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"doses": logs})
}

// GET /api/doses/today
func (h *DoseLogHandler) Today(c *gin.Context) {
	userID := c.GetString("userID")

	logs, err := h.doseUsecase.Today(userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dose logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"doses": logs})
}

// GET /api/doses/upcoming
func (h *DoseLogHandler) Upcoming(c *gin.Context) {
	userID := c.GetString("userID")

	logs, err := h.doseUsecase.Upcoming(userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load upcoming doses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"doses": logs})
}

// GET /api/doses/history?days=7
func (h *DoseLogHandler) History(c *gin.Context) {
	userID := c.GetString("userID")

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	logs, err := h.doseUsecase.History(userID, days, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dose history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"doses": logs})
}

// POST /api/doses/:id/take
func (h *DoseLogHandler) Take(c *gin.Context) {
	userID := c.GetString("userID")

	entry, err := h.doseUsecase.MarkTaken(userID, c.Param("id"), time.Now())
	if err != nil {
		respondDoseError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// POST /api/doses/:id/snooze
func (h *DoseLogHandler) Snooze(c *gin.Context) {
	userID := c.GetString("userID")

	var req snoozeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Minutes == 0 {
		req.Minutes = int(h.snoozeDefault.Minutes())
	}

	entry, err := h.doseUsecase.Snooze(userID, c.Param("id"), req.Minutes, time.Now())
	if err != nil {
		respondDoseError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// POST /api/doses/:id/skip
func (h *DoseLogHandler) Skip(c *gin.Context) {
	userID := c.GetString("userID")

	entry, err := h.doseUsecase.Skip(userID, c.Param("id"))
	if err != nil {
		respondDoseError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// POST /api/maintenance/deduplicate
func (h *DoseLogHandler) Deduplicate(c *gin.Context) {
	userID := c.GetString("userID")

	report, err := h.doseUsecase.Deduplicate(userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deduplicate dose logs"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func respondDoseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNotScheduled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
