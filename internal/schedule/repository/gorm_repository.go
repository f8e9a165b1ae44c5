package repository

import (
	"errors"
	"time"

	"github.com/sampurn31/my-med/internal/schedule/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormScheduleRepository implements ScheduleRepository using GORM
type gormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GORM-based ScheduleRepository
func NewGormScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &gormScheduleRepository{db: db}
}

func (r *gormScheduleRepository) Create(schedule *domain.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.New().String()
	}
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()
	return r.db.Create(schedule).Error
}

func (r *gormScheduleRepository) FindByID(id string) (*domain.Schedule, error) {
	var schedule domain.Schedule
	err := r.db.Where("id = ?", id).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *gormScheduleRepository) FindByUserID(userID string, activeOnly bool) ([]*domain.Schedule, error) {
	var schedules []*domain.Schedule
	query := r.db.Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("start_date DESC").Find(&schedules).Error
	return schedules, err
}

func (r *gormScheduleRepository) FindByMedicationID(medID string) ([]*domain.Schedule, error) {
	var schedules []*domain.Schedule
	err := r.db.Where("medication_id = ?", medID).Find(&schedules).Error
	return schedules, err
}

func (r *gormScheduleRepository) FindActive() ([]*domain.Schedule, error) {
	var schedules []*domain.Schedule
	err := r.db.Where("active = ?", true).Find(&schedules).Error
	return schedules, err
}

func (r *gormScheduleRepository) Update(schedule *domain.Schedule) error {
	schedule.UpdatedAt = time.Now()
	return r.db.Save(schedule).Error
}

func (r *gormScheduleRepository) SetActive(id string, active bool) error {
	return r.db.Model(&domain.Schedule{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":     active,
			"updated_at": time.Now(),
		}).Error
}

func (r *gormScheduleRepository) Delete(id string) error {
	return r.db.Delete(&domain.Schedule{}, "id = ?", id).Error
}
