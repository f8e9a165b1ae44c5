package usecase

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sampurn31/my-med/internal/doselog/domain"
	"github.com/sampurn31/my-med/internal/doselog/repository"
	medrepo "github.com/sampurn31/my-med/internal/medication/repository"
	scheddomain "github.com/sampurn31/my-med/internal/schedule/domain"
	schedrepo "github.com/sampurn31/my-med/internal/schedule/repository"
	"github.com/sampurn31/my-med/pkg/timewindow"
)

var (
	ErrNotFound      = errors.New("dose log not found")
	ErrNotOwner      = errors.New("dose log belongs to another user")
	ErrNotScheduled  = errors.New("dose is no longer scheduled")
	ErrInvalidSnooze = errors.New("snooze minutes must be positive")
)

// doseLogUsecase implements DoseLogUsecase
type doseLogUsecase struct {
	doseRepo  repository.DoseLogRepository
	schedRepo schedrepo.ScheduleRepository
	medRepo   medrepo.MedicationRepository
}

// NewDoseLogUsecase creates a new instance of doseLogUsecase
func NewDoseLogUsecase(doseRepo repository.DoseLogRepository, schedRepo schedrepo.ScheduleRepository, medRepo medrepo.MedicationRepository) DoseLogUsecase {
	return &doseLogUsecase{
		doseRepo:  doseRepo,
		schedRepo: schedRepo,
		medRepo:   medRepo,
	}
}

func (u *doseLogUsecase) SyncToday(userID string, now time.Time) error {
	schedules, err := u.schedRepo.FindByUserID(userID, true)
	if err != nil {
		return err
	}

	for _, schedule := range schedules {
		u.syncOne(schedule, now)
	}
	return nil
}

func (u *doseLogUsecase) SyncSchedule(scheduleID string, now time.Time) error {
	schedule, err := u.schedRepo.FindByID(scheduleID)
	if err != nil {
		return err
	}
	if schedule == nil {
		return fmt.Errorf("schedule %s not found", scheduleID)
	}
	u.syncOne(schedule, now)
	return nil
}

// syncOne creates today's missing dose logs for one schedule. A malformed
// time-of-day is logged and skipped so it cannot block the remaining times.
func (u *doseLogUsecase) syncOne(schedule *scheddomain.Schedule, now time.Time) {
	loc, err := time.LoadLocation(schedule.Timezone)
	if err != nil {
		log.Printf("[DoseSync] invalid timezone %q on schedule %s: %v", schedule.Timezone, schedule.ID, err)
		return
	}
	if !schedule.InEffectOn(now, loc) {
		return
	}

	for _, timeStr := range schedule.Times {
		scheduledAt, err := timewindow.At(timeStr, schedule.Timezone, now)
		if err != nil {
			log.Printf("[DoseSync] skipping bad time %q on schedule %s: %v", timeStr, schedule.ID, err)
			continue
		}

		existing, err := u.doseRepo.FindByScheduleAt(schedule.ID, scheduledAt)
		if err != nil {
			log.Printf("[DoseSync] lookup failed for schedule %s at %s: %v", schedule.ID, timeStr, err)
			continue
		}
		if len(existing) > 0 {
			continue
		}

		entry := &domain.DoseLog{
			UserID:       schedule.UserID,
			ScheduleID:   schedule.ID,
			MedicationID: schedule.MedicationID,
			ScheduledAt:  scheduledAt,
			Status:       domain.DoseScheduled,
		}
		if err := u.doseRepo.Create(entry); err != nil {
			log.Printf("[DoseSync] create failed for schedule %s at %s: %v", schedule.ID, timeStr, err)
		}
	}
}

func (u *doseLogUsecase) Log(userID, scheduleID string, scheduledAt time.Time) (*domain.DoseLog, error) {
	schedule, err := u.schedRepo.FindByID(scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, ErrNotFound
	}
	if schedule.UserID != userID {
		return nil, ErrNotOwner
	}

	entry := &domain.DoseLog{
		UserID:       userID,
		ScheduleID:   schedule.ID,
		MedicationID: schedule.MedicationID,
		ScheduledAt:  scheduledAt,
		Status:       domain.DoseScheduled,
	}
	if err := u.doseRepo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (u *doseLogUsecase) MarkTaken(userID, logID string, now time.Time) (*domain.DoseLog, error) {
	entry, err := u.ownedLog(userID, logID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.DoseScheduled {
		return nil, ErrNotScheduled
	}

	entry.Status = domain.DoseTaken
	entry.TakenAt = &now
	entry.SnoozedUntil = nil
	if err := u.doseRepo.Update(entry); err != nil {
		return nil, err
	}

	// Inventory is best-effort: a missing medication record must not undo the
	// dose state change.
	if entry.MedicationID != "" {
		if err := u.medRepo.DecrementPills(entry.MedicationID); err != nil {
			log.Printf("[DoseLog] failed to decrement pills for medication %s: %v", entry.MedicationID, err)
		}
	}

	return entry, nil
}

func (u *doseLogUsecase) Snooze(userID, logID string, minutes int, now time.Time) (*domain.DoseLog, error) {
	if minutes <= 0 {
		return nil, ErrInvalidSnooze
	}

	entry, err := u.ownedLog(userID, logID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.DoseScheduled {
		return nil, ErrNotScheduled
	}

	until := now.Add(time.Duration(minutes) * time.Minute)
	entry.SnoozedUntil = &until
	if err := u.doseRepo.Update(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (u *doseLogUsecase) Skip(userID, logID string) (*domain.DoseLog, error) {
	entry, err := u.ownedLog(userID, logID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.DoseScheduled {
		return nil, ErrNotScheduled
	}

	entry.Status = domain.DoseSkipped
	entry.SnoozedUntil = nil
	if err := u.doseRepo.Update(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (u *doseLogUsecase) Today(userID string, now time.Time) ([]*domain.DoseLog, error) {
	start, end := timewindow.DayBounds(now, now.Location())
	return u.doseRepo.FindByUserBetween(userID, start, end)
}

func (u *doseLogUsecase) Upcoming(userID string, now time.Time) ([]*domain.DoseLog, error) {
	return u.doseRepo.FindUpcoming(userID, now, now.Add(24*time.Hour), 20)
}

func (u *doseLogUsecase) History(userID string, days int, now time.Time) ([]*domain.DoseLog, error) {
	if days <= 0 {
		days = 30
	}
	return u.doseRepo.FindByUserBetween(userID, now.AddDate(0, 0, -days), now.Add(24*time.Hour))
}

// Deduplicate groups today's logs by (schedule, instant), keeps the oldest of
// each group and deletes the rest. This is the reconciliation half of the
// synchronizer's best-effort idempotency.
func (u *doseLogUsecase) Deduplicate(userID string, now time.Time) (*DedupReport, error) {
	start, end := timewindow.DayBounds(now, now.Location())
	logs, err := u.doseRepo.FindByUserBetween(userID, start, end)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]*domain.DoseLog)
	for _, entry := range logs {
		key := fmt.Sprintf("%s-%d", entry.ScheduleID, entry.ScheduledAt.UnixMilli())
		grouped[key] = append(grouped[key], entry)
	}

	report := &DedupReport{Total: len(logs)}
	for _, group := range grouped {
		// FindByUserBetween orders by scheduled_at, not creation; prefer the
		// earliest-created record so user actions on it survive.
		oldest := 0
		for i, entry := range group {
			if entry.CreatedAt.Before(group[oldest].CreatedAt) {
				oldest = i
			}
		}
		for i, entry := range group {
			if i == oldest {
				continue
			}
			if err := u.doseRepo.Delete(entry.ID); err != nil {
				log.Printf("[Dedup] failed to delete duplicate %s: %v", entry.ID, err)
				continue
			}
			report.Deleted++
		}
	}
	report.Kept = report.Total - report.Deleted
	return report, nil
}

func (u *doseLogUsecase) ownedLog(userID, logID string) (*domain.DoseLog, error) {
	entry, err := u.doseRepo.FindByID(logID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	if entry.UserID != userID {
		return nil, ErrNotOwner
	}
	return entry, nil
}
