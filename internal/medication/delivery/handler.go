package delivery

import (
	"errors"
	"net/http"

	"github.com/sampurn31/my-med/internal/medication/domain"
	"github.com/sampurn31/my-med/internal/medication/usecase"

	"github.com/gin-gonic/gin"
)

// MedicationHandler handles medication HTTP requests
type MedicationHandler struct {
	medUsecase usecase.MedicationUsecase
}

// NewMedicationHandler creates a new MedicationHandler
func NewMedicationHandler(medUsecase usecase.MedicationUsecase) *MedicationHandler {
	return &MedicationHandler{
		medUsecase: medUsecase,
	}
}

type createMedicationRequest struct {
	Name           string `json:"name" binding:"required"`
	Strength       string `json:"strength"`
	Form           string `json:"form"`
	Notes          string `json:"notes"`
	PillsRemaining *int   `json:"pills_remaining"`
}

type updatePillsRequest struct {
	PillsRemaining *int `json:"pills_remaining"`
}

// POST /api/medications
func (h *MedicationHandler) Create(c *gin.Context) {
	userID := c.GetString("userID")

	var req createMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	med, err := h.medUsecase.Create(userID, &domain.Medication{
		Name:           req.Name,
		Strength:       req.Strength,
		Form:           req.Form,
		Notes:          req.Notes,
		PillsRemaining: req.PillsRemaining,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, med)
}

// GET /api/medications
func (h *MedicationHandler) List(c *gin.Context) {
	userID := c.GetString("userID")

	meds, err := h.medUsecase.List(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list medications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"medications": meds})
}

// GET /api/medications/:id
func (h *MedicationHandler) Get(c *gin.Context) {
	userID := c.GetString("userID")

	med, err := h.medUsecase.GetByID(userID, c.Param("id"))
	if err != nil {
		respondMedicationError(c, err)
		return
	}

	c.JSON(http.StatusOK, med)
}

// PUT /api/medications/:id
func (h *MedicationHandler) Update(c *gin.Context) {
	userID := c.GetString("userID")

	var updates usecase.MedicationUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	med, err := h.medUsecase.Update(userID, c.Param("id"), updates)
	if err != nil {
		respondMedicationError(c, err)
		return
	}

	c.JSON(http.StatusOK, med)
}

// PATCH /api/medications/:id/pills
func (h *MedicationHandler) UpdatePills(c *gin.Context) {
	userID := c.GetString("userID")

	var req updatePillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	med, err := h.medUsecase.UpdatePills(userID, c.Param("id"), req.PillsRemaining)
	if err != nil {
		respondMedicationError(c, err)
		return
	}

	c.JSON(http.StatusOK, med)
}

// DELETE /api/medications/:id
func (h *MedicationHandler) Delete(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.medUsecase.Delete(userID, c.Param("id")); err != nil {
		respondMedicationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "medication deleted"})
}

func respondMedicationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
