package repository

import "github.com/sampurn31/my-med/internal/medication/domain"

// MedicationRepository defines the interface for medication data access
type MedicationRepository interface {
	Create(med *domain.Medication) error
	FindByID(id string) (*domain.Medication, error)
	FindByUserID(userID string) ([]*domain.Medication, error)
	// FindLowStock returns medications with 0 < pills_remaining <= threshold.
	// Depleted medications need a replacement, not a reminder, so zero is out.
	FindLowStock(threshold int) ([]*domain.Medication, error)
	Update(med *domain.Medication) error
	// DecrementPills reduces pills_remaining by one, never below zero.
	// Untracked medications (nil count) are left alone.
	DecrementPills(id string) error
	Delete(id string) error
}
