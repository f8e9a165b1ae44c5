package usecase

import (
	"errors"
	"log"

	doserepo "github.com/sampurn31/my-med/internal/doselog/repository"
	"github.com/sampurn31/my-med/internal/medication/domain"
	"github.com/sampurn31/my-med/internal/medication/repository"
	schedrepo "github.com/sampurn31/my-med/internal/schedule/repository"
)

var (
	ErrNotFound = errors.New("medication not found")
	ErrNotOwner = errors.New("medication belongs to another user")
)

// MedicationUsecase defines the interface for medication business logic
type MedicationUsecase interface {
	Create(userID string, med *domain.Medication) (*domain.Medication, error)
	GetByID(userID, medID string) (*domain.Medication, error)
	List(userID string) ([]*domain.Medication, error)
	Update(userID, medID string, updates MedicationUpdate) (*domain.Medication, error)
	UpdatePills(userID, medID string, count *int) (*domain.Medication, error)
	// Delete removes the medication and cascades to its schedules and their
	// dose logs.
	Delete(userID, medID string) error
}

// MedicationUpdate carries optional field updates
type MedicationUpdate struct {
	Name           *string `json:"name"`
	Strength       *string `json:"strength"`
	Form           *string `json:"form"`
	Notes          *string `json:"notes"`
	PillsRemaining *int    `json:"pills_remaining"`
}

type medicationUsecase struct {
	medRepo   repository.MedicationRepository
	schedRepo schedrepo.ScheduleRepository
	doseRepo  doserepo.DoseLogRepository
}

// NewMedicationUsecase creates a new instance of medicationUsecase
func NewMedicationUsecase(medRepo repository.MedicationRepository, schedRepo schedrepo.ScheduleRepository, doseRepo doserepo.DoseLogRepository) MedicationUsecase {
	return &medicationUsecase{
		medRepo:   medRepo,
		schedRepo: schedRepo,
		doseRepo:  doseRepo,
	}
}

func (u *medicationUsecase) Create(userID string, med *domain.Medication) (*domain.Medication, error) {
	if med.Name == "" {
		return nil, errors.New("medication name is required")
	}
	if med.PillsRemaining != nil && *med.PillsRemaining < 0 {
		return nil, errors.New("pills remaining cannot be negative")
	}

	med.UserID = userID
	if med.Form == "" {
		med.Form = "tablet"
	}
	if err := u.medRepo.Create(med); err != nil {
		return nil, err
	}
	return med, nil
}

func (u *medicationUsecase) GetByID(userID, medID string) (*domain.Medication, error) {
	return u.ownedMedication(userID, medID)
}

func (u *medicationUsecase) List(userID string) ([]*domain.Medication, error) {
	return u.medRepo.FindByUserID(userID)
}

func (u *medicationUsecase) Update(userID, medID string, updates MedicationUpdate) (*domain.Medication, error) {
	med, err := u.ownedMedication(userID, medID)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		med.Name = *updates.Name
	}
	if updates.Strength != nil {
		med.Strength = *updates.Strength
	}
	if updates.Form != nil {
		med.Form = *updates.Form
	}
	if updates.Notes != nil {
		med.Notes = *updates.Notes
	}
	if updates.PillsRemaining != nil {
		if *updates.PillsRemaining < 0 {
			return nil, errors.New("pills remaining cannot be negative")
		}
		med.PillsRemaining = updates.PillsRemaining
	}

	if err := u.medRepo.Update(med); err != nil {
		return nil, err
	}
	return med, nil
}

func (u *medicationUsecase) UpdatePills(userID, medID string, count *int) (*domain.Medication, error) {
	med, err := u.ownedMedication(userID, medID)
	if err != nil {
		return nil, err
	}
	if count != nil && *count < 0 {
		return nil, errors.New("pills remaining cannot be negative")
	}
	med.PillsRemaining = count
	if err := u.medRepo.Update(med); err != nil {
		return nil, err
	}
	return med, nil
}

func (u *medicationUsecase) Delete(userID, medID string) error {
	med, err := u.ownedMedication(userID, medID)
	if err != nil {
		return err
	}

	schedules, err := u.schedRepo.FindByMedicationID(med.ID)
	if err != nil {
		return err
	}
	for _, schedule := range schedules {
		if err := u.doseRepo.DeleteByScheduleID(schedule.ID); err != nil {
			log.Printf("[Medication] failed to delete dose logs for schedule %s: %v", schedule.ID, err)
		}
		if err := u.schedRepo.Delete(schedule.ID); err != nil {
			return err
		}
	}

	return u.medRepo.Delete(med.ID)
}

func (u *medicationUsecase) ownedMedication(userID, medID string) (*domain.Medication, error) {
	med, err := u.medRepo.FindByID(medID)
	if err != nil {
		return nil, err
	}
	if med == nil {
		return nil, ErrNotFound
	}
	if med.UserID != userID {
		return nil, ErrNotOwner
	}
	return med, nil
}
