package domain

import "time"

// Medication is one drug a user tracks. PillsRemaining is nil when the user
// chose not to track inventory; zero means depleted.
type Medication struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	UserID         string    `json:"user_id" gorm:"index;not null"`
	Name           string    `json:"name" gorm:"not null"`
	Strength       string    `json:"strength"`
	Form           string    `json:"form" gorm:"default:tablet"`
	Notes          string    `json:"notes"`
	PillsRemaining *int      `json:"pills_remaining"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
