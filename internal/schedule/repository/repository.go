package repository

import "github.com/sampurn31/my-med/internal/schedule/domain"

// ScheduleRepository defines the interface for schedule data access
type ScheduleRepository interface {
	Create(schedule *domain.Schedule) error
	FindByID(id string) (*domain.Schedule, error)
	FindByUserID(userID string, activeOnly bool) ([]*domain.Schedule, error)
	FindByMedicationID(medID string) ([]*domain.Schedule, error)
	// FindActive returns every active schedule across all users, for the
	// server-side sweeps.
	FindActive() ([]*domain.Schedule, error)
	Update(schedule *domain.Schedule) error
	SetActive(id string, active bool) error
	Delete(id string) error
}
