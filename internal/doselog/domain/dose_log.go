package domain

import "time"

// DoseStatus represents the state of one dose event
type DoseStatus string

const (
	DoseScheduled DoseStatus = "scheduled"
	DoseTaken     DoseStatus = "taken"
	DoseMissed    DoseStatus = "missed"
	DoseSkipped   DoseStatus = "skipped"
)

// DoseLog is one concrete "take this medication now" event derived from a
// schedule. At most one log should exist per (ScheduleID, ScheduledAt) pair;
// the synchronizer enforces this with a check-then-create, so concurrent
// writers can still race in duplicates, which Deduplicate reconciles later.
//
// taken, missed and skipped are terminal. SnoozedUntil only applies while the
// status is scheduled.
type DoseLog struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	UserID       string     `json:"user_id" gorm:"index;not null"`
	ScheduleID   string     `json:"schedule_id" gorm:"index:idx_dose_schedule_at;not null"`
	MedicationID string     `json:"medication_id" gorm:"index"`
	ScheduledAt  time.Time  `json:"scheduled_at" gorm:"index:idx_dose_schedule_at;not null"`
	TakenAt      *time.Time `json:"taken_at,omitempty"`
	Status       DoseStatus `json:"status" gorm:"default:scheduled"`
	SnoozedUntil *time.Time `json:"snoozed_until,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Snoozed reports whether the dose is snoozed past now.
func (d *DoseLog) Snoozed(now time.Time) bool {
	return d.SnoozedUntil != nil && d.SnoozedUntil.After(now)
}

// Terminal reports whether the dose can no longer transition automatically.
func (d *DoseLog) Terminal() bool {
	return d.Status == DoseTaken || d.Status == DoseMissed || d.Status == DoseSkipped
}
