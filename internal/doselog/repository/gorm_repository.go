package repository

import (
	"errors"
	"time"

	"github.com/sampurn31/my-med/internal/doselog/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormDoseLogRepository implements DoseLogRepository using GORM
type gormDoseLogRepository struct {
	db *gorm.DB
}

// NewGormDoseLogRepository creates a new GORM-based DoseLogRepository
func NewGormDoseLogRepository(db *gorm.DB) DoseLogRepository {
	return &gormDoseLogRepository{db: db}
}

func (r *gormDoseLogRepository) Create(log *domain.DoseLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	log.CreatedAt = time.Now()
	return r.db.Create(log).Error
}

func (r *gormDoseLogRepository) FindByID(id string) (*domain.DoseLog, error) {
	var log domain.DoseLog
	err := r.db.Where("id = ?", id).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

func (r *gormDoseLogRepository) FindByScheduleAt(scheduleID string, scheduledAt time.Time) ([]*domain.DoseLog, error) {
	var logs []*domain.DoseLog
	err := r.db.Where("schedule_id = ? AND scheduled_at = ?", scheduleID, scheduledAt).
		Order("created_at ASC").Find(&logs).Error
	return logs, err
}

func (r *gormDoseLogRepository) FindByUserBetween(userID string, from, to time.Time) ([]*domain.DoseLog, error) {
	var logs []*domain.DoseLog
	err := r.db.Where("user_id = ? AND scheduled_at >= ? AND scheduled_at < ?", userID, from, to).
		Order("scheduled_at ASC").Find(&logs).Error
	return logs, err
}

func (r *gormDoseLogRepository) FindUpcoming(userID string, from, to time.Time, limit int) ([]*domain.DoseLog, error) {
	var logs []*domain.DoseLog
	err := r.db.Where("user_id = ? AND scheduled_at >= ? AND scheduled_at <= ? AND status = ?",
		userID, from, to, domain.DoseScheduled).
		Order("scheduled_at ASC").Limit(limit).Find(&logs).Error
	return logs, err
}

func (r *gormDoseLogRepository) FindOverdue(cutoff time.Time) ([]*domain.DoseLog, error) {
	var logs []*domain.DoseLog
	err := r.db.Where("status = ? AND scheduled_at < ?", domain.DoseScheduled, cutoff).
		Find(&logs).Error
	return logs, err
}

func (r *gormDoseLogRepository) Update(log *domain.DoseLog) error {
	return r.db.Save(log).Error
}

func (r *gormDoseLogRepository) Delete(id string) error {
	return r.db.Delete(&domain.DoseLog{}, "id = ?", id).Error
}

func (r *gormDoseLogRepository) DeleteByScheduleID(scheduleID string) error {
	return r.db.Where("schedule_id = ?", scheduleID).Delete(&domain.DoseLog{}).Error
}
