package usecase

import (
	"errors"
	"fmt"
	"time"

	doserepo "github.com/sampurn31/my-med/internal/doselog/repository"
	medrepo "github.com/sampurn31/my-med/internal/medication/repository"
	"github.com/sampurn31/my-med/internal/schedule/domain"
	"github.com/sampurn31/my-med/internal/schedule/repository"
	"github.com/sampurn31/my-med/pkg/timewindow"
)

var (
	ErrNotFound = errors.New("schedule not found")
	ErrNotOwner = errors.New("schedule belongs to another user")
)

// CreateScheduleRequest carries the fields for a new schedule
type CreateScheduleRequest struct {
	MedicationID   string   `json:"medication_id" binding:"required"`
	StartDate      string   `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate        *string  `json:"end_date"`
	RecurrenceType string   `json:"recurrence_type"`
	IntervalHours  *int     `json:"interval_hours"`
	Times          []string `json:"times" binding:"required"`
	Timezone       string   `json:"timezone"`
	Instructions   string   `json:"instructions"`
}

// UpdateScheduleRequest carries optional field updates
type UpdateScheduleRequest struct {
	StartDate    *string   `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	Times        *[]string `json:"times"`
	Instructions *string   `json:"instructions"`
}

// Syncer is the hook into the dose log synchronizer, invoked after schedule
// creation so today's doses materialize immediately.
type Syncer interface {
	SyncSchedule(scheduleID string, now time.Time) error
}

// ScheduleUsecase defines the interface for schedule business logic
type ScheduleUsecase interface {
	Create(userID, userTimezone string, req *CreateScheduleRequest, now time.Time) (*domain.Schedule, error)
	GetByID(userID, scheduleID string) (*domain.Schedule, error)
	List(userID string, activeOnly bool) ([]*domain.Schedule, error)
	Update(userID, scheduleID string, req *UpdateScheduleRequest) (*domain.Schedule, error)
	SetActive(userID, scheduleID string, active bool) (*domain.Schedule, error)
	// Delete removes the schedule and bulk-deletes its dose logs.
	Delete(userID, scheduleID string) error
}

type scheduleUsecase struct {
	schedRepo repository.ScheduleRepository
	medRepo   medrepo.MedicationRepository
	doseRepo  doserepo.DoseLogRepository
	syncer    Syncer
}

// NewScheduleUsecase creates a new instance of scheduleUsecase
func NewScheduleUsecase(schedRepo repository.ScheduleRepository, medRepo medrepo.MedicationRepository, doseRepo doserepo.DoseLogRepository) *scheduleUsecase {
	return &scheduleUsecase{
		schedRepo: schedRepo,
		medRepo:   medRepo,
		doseRepo:  doseRepo,
	}
}

// SetSyncer wires the dose log synchronizer after construction, breaking the
// schedule/doselog dependency cycle.
func (u *scheduleUsecase) SetSyncer(s Syncer) {
	u.syncer = s
}

func (u *scheduleUsecase) Create(userID, userTimezone string, req *CreateScheduleRequest, now time.Time) (*domain.Schedule, error) {
	med, err := u.medRepo.FindByID(req.MedicationID)
	if err != nil {
		return nil, err
	}
	if med == nil {
		return nil, errors.New("medication not found")
	}
	if med.UserID != userID {
		return nil, errors.New("medication belongs to another user")
	}

	if len(req.Times) == 0 {
		return nil, errors.New("at least one time is required")
	}
	for _, timeStr := range req.Times {
		if _, _, err := timewindow.ParseTimeOfDay(timeStr); err != nil {
			return nil, err
		}
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = userTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q", timezone)
	}

	startDate, err := time.ParseInLocation("2006-01-02", req.StartDate, loc)
	if err != nil {
		return nil, errors.New("start date must be YYYY-MM-DD")
	}

	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", *req.EndDate, loc)
		if err != nil {
			return nil, errors.New("end date must be YYYY-MM-DD")
		}
		if parsed.Before(startDate) {
			return nil, errors.New("end date must be on or after start date")
		}
		endDate = &parsed
	}

	recurrence := domain.RecurrenceType(req.RecurrenceType)
	switch recurrence {
	case "":
		recurrence = domain.RecurrenceDaily
	case domain.RecurrenceDaily:
	case domain.RecurrenceInterval:
		if req.IntervalHours == nil || *req.IntervalHours <= 0 {
			return nil, errors.New("interval recurrence requires positive interval_hours")
		}
	default:
		return nil, fmt.Errorf("unknown recurrence type %q", req.RecurrenceType)
	}

	schedule := &domain.Schedule{
		UserID:         userID,
		MedicationID:   req.MedicationID,
		StartDate:      startDate,
		EndDate:        endDate,
		RecurrenceType: recurrence,
		IntervalHours:  req.IntervalHours,
		Times:          req.Times,
		Timezone:       timezone,
		Instructions:   req.Instructions,
		Active:         true,
	}
	if err := u.schedRepo.Create(schedule); err != nil {
		return nil, err
	}

	// Materialize today's dose logs right away so the dashboard and the
	// sweeps agree on what is due. Sync failure does not fail the create.
	if u.syncer != nil && schedule.InEffectOn(now, loc) {
		_ = u.syncer.SyncSchedule(schedule.ID, now)
	}

	return schedule, nil
}

func (u *scheduleUsecase) GetByID(userID, scheduleID string) (*domain.Schedule, error) {
	return u.ownedSchedule(userID, scheduleID)
}

func (u *scheduleUsecase) List(userID string, activeOnly bool) ([]*domain.Schedule, error) {
	return u.schedRepo.FindByUserID(userID, activeOnly)
}

func (u *scheduleUsecase) Update(userID, scheduleID string, req *UpdateScheduleRequest) (*domain.Schedule, error) {
	schedule, err := u.ownedSchedule(userID, scheduleID)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(schedule.Timezone)
	if err != nil {
		loc = time.UTC
	}

	if req.StartDate != nil {
		parsed, err := time.ParseInLocation("2006-01-02", *req.StartDate, loc)
		if err != nil {
			return nil, errors.New("start date must be YYYY-MM-DD")
		}
		schedule.StartDate = parsed
	}
	if req.EndDate != nil {
		if *req.EndDate == "" {
			schedule.EndDate = nil
		} else {
			parsed, err := time.ParseInLocation("2006-01-02", *req.EndDate, loc)
			if err != nil {
				return nil, errors.New("end date must be YYYY-MM-DD")
			}
			if parsed.Before(schedule.StartDate) {
				return nil, errors.New("end date must be on or after start date")
			}
			schedule.EndDate = &parsed
		}
	}
	if req.Times != nil {
		if len(*req.Times) == 0 {
			return nil, errors.New("at least one time is required")
		}
		for _, timeStr := range *req.Times {
			if _, _, err := timewindow.ParseTimeOfDay(timeStr); err != nil {
				return nil, err
			}
		}
		schedule.Times = *req.Times
	}
	if req.Instructions != nil {
		schedule.Instructions = *req.Instructions
	}

	if err := u.schedRepo.Update(schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (u *scheduleUsecase) SetActive(userID, scheduleID string, active bool) (*domain.Schedule, error) {
	schedule, err := u.ownedSchedule(userID, scheduleID)
	if err != nil {
		return nil, err
	}
	if err := u.schedRepo.SetActive(schedule.ID, active); err != nil {
		return nil, err
	}
	schedule.Active = active
	return schedule, nil
}

func (u *scheduleUsecase) Delete(userID, scheduleID string) error {
	schedule, err := u.ownedSchedule(userID, scheduleID)
	if err != nil {
		return err
	}
	if err := u.doseRepo.DeleteByScheduleID(schedule.ID); err != nil {
		return err
	}
	return u.schedRepo.Delete(schedule.ID)
}

func (u *scheduleUsecase) ownedSchedule(userID, scheduleID string) (*domain.Schedule, error) {
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
	return schedule, nil
}
