package repository

import (
	"time"

	"github.com/sampurn31/my-med/internal/family/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FamilyRepository defines the interface for family link data access
type FamilyRepository interface {
	// AddLink records member as family of user (one direction only).
	AddLink(userID, memberID string) error
	RemoveLink(userID, memberID string) error
	LinkExists(userID, memberID string) (bool, error)
	// MemberIDs returns the ids linked to user.
	MemberIDs(userID string) ([]string, error)
}

// familyRepository implements FamilyRepository interface
type familyRepository struct {
	db *gorm.DB
}

// NewFamilyRepository creates a new instance of familyRepository
func NewFamilyRepository(db *gorm.DB) FamilyRepository {
	return &familyRepository{db: db}
}

func (r *familyRepository) AddLink(userID, memberID string) error {
	link := &domain.FamilyLink{
		ID:        uuid.New().String(),
		UserID:    userID,
		MemberID:  memberID,
		CreatedAt: time.Now(),
	}
	return r.db.Create(link).Error
}

func (r *familyRepository) RemoveLink(userID, memberID string) error {
	return r.db.Where("user_id = ? AND member_id = ?", userID, memberID).
		Delete(&domain.FamilyLink{}).Error
}

func (r *familyRepository) LinkExists(userID, memberID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.FamilyLink{}).
		Where("user_id = ? AND member_id = ?", userID, memberID).
		Count(&count).Error
	return count > 0, err
}

func (r *familyRepository) MemberIDs(userID string) ([]string, error) {
	var links []domain.FamilyLink
	if err := r.db.Where("user_id = ?", userID).Find(&links).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.MemberID)
	}
	return ids, nil
}
