package usecase

import (
	"time"

	"github.com/sampurn31/my-med/internal/doselog/domain"
)

// DedupReport summarizes one run of the duplicate reconciliation utility.
type DedupReport struct {
	Total   int `json:"total"`
	Deleted int `json:"deleted"`
	Kept    int `json:"kept"`
}

// DoseLogUsecase defines the interface for dose event business logic.
//
// SyncToday and Deduplicate are the two halves of the same contract: the
// synchronizer is best-effort idempotent (check-then-create, no transaction),
// and Deduplicate reconciles whatever duplicates the race lets through.
type DoseLogUsecase interface {
	// SyncToday ensures one scheduled DoseLog exists for every time-of-day of
	// every active schedule of the user that is in effect today.
	SyncToday(userID string, now time.Time) error
	// SyncSchedule does the same for a single schedule, used right after
	// schedule creation.
	SyncSchedule(scheduleID string, now time.Time) error

	// Log records an ad-hoc dose entry for one of the user's schedules,
	// outside the synchronizer's regular slots.
	Log(userID, scheduleID string, scheduledAt time.Time) (*domain.DoseLog, error)

	MarkTaken(userID, logID string, now time.Time) (*domain.DoseLog, error)
	Snooze(userID, logID string, minutes int, now time.Time) (*domain.DoseLog, error)
	Skip(userID, logID string) (*domain.DoseLog, error)

	Today(userID string, now time.Time) ([]*domain.DoseLog, error)
	Upcoming(userID string, now time.Time) ([]*domain.DoseLog, error)
	History(userID string, days int, now time.Time) ([]*domain.DoseLog, error)

	Deduplicate(userID string, now time.Time) (*DedupReport, error)
}
