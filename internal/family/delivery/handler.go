package delivery

import (
	"errors"
	"net/http"

	"github.com/sampurn31/my-med/internal/family/usecase"

	"github.com/gin-gonic/gin"
)

// FamilyHandler handles family linking HTTP requests
type FamilyHandler struct {
	familyUsecase usecase.FamilyUsecase
}

// NewFamilyHandler creates a new FamilyHandler
func NewFamilyHandler(familyUsecase usecase.FamilyUsecase) *FamilyHandler {
	return &FamilyHandler{
		familyUsecase: familyUsecase,
	}
}

type inviteRequest struct {
	Email string `json:"email" binding:"required"`
}

// POST /api/family/invite
func (h *FamilyHandler) Invite(c *gin.Context) {
	userID := c.GetString("userID")

	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.familyUsecase.Invite(userID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoSuchUser):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrSelfInvite), errors.Is(err, usecase.ErrAlreadyLinked):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, member)
}

// GET /api/family
func (h *FamilyHandler) Members(c *gin.Context) {
	userID := c.GetString("userID")

	members, err := h.familyUsecase.Members(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list family members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// DELETE /api/family/:memberId
func (h *FamilyHandler) Remove(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.familyUsecase.Remove(userID, c.Param("memberId")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "family member removed"})
}
