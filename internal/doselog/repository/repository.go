package repository

import (
	"time"

	"github.com/sampurn31/my-med/internal/doselog/domain"
)

// DoseLogRepository defines the interface for dose event data access
type DoseLogRepository interface {
	Create(log *domain.DoseLog) error
	FindByID(id string) (*domain.DoseLog, error)
	// FindByScheduleAt returns the logs recorded for one (schedule, instant)
	// pair. More than one result means a duplicate slipped past the
	// check-then-create guard.
	FindByScheduleAt(scheduleID string, scheduledAt time.Time) ([]*domain.DoseLog, error)
	FindByUserBetween(userID string, from, to time.Time) ([]*domain.DoseLog, error)
	FindUpcoming(userID string, from, to time.Time, limit int) ([]*domain.DoseLog, error)
	// FindOverdue returns scheduled doses due before the cutoff, across all
	// users, for the missed-dose sweep.
	FindOverdue(cutoff time.Time) ([]*domain.DoseLog, error)
	Update(log *domain.DoseLog) error
	Delete(id string) error
	DeleteByScheduleID(scheduleID string) error
}
