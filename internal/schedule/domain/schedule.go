package domain

import "time"

// RecurrenceType describes how a schedule repeats
type RecurrenceType string

const (
	RecurrenceDaily    RecurrenceType = "daily"
	RecurrenceInterval RecurrenceType = "interval" // every IntervalHours hours
)

// Schedule is a recurring dosing rule for one medication. Times holds
// 24-hour "HH:mm" strings; Timezone is the IANA identifier captured when the
// schedule was created so dose instants stay anchored to the user's clock.
type Schedule struct {
	ID             string         `json:"id" gorm:"primaryKey"`
	UserID         string         `json:"user_id" gorm:"index;not null"`
	MedicationID   string         `json:"medication_id" gorm:"index;not null"`
	StartDate      time.Time      `json:"start_date" gorm:"not null"`
	EndDate        *time.Time     `json:"end_date,omitempty"`
	RecurrenceType RecurrenceType `json:"recurrence_type" gorm:"default:daily"`
	IntervalHours  *int           `json:"interval_hours,omitempty"`
	Times          []string       `json:"times" gorm:"serializer:json"`
	Timezone       string         `json:"timezone" gorm:"not null"`
	Instructions   string         `json:"instructions"`
	Active         bool           `json:"active" gorm:"default:true"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// InEffectOn reports whether the schedule covers the given date. Start and
// end dates are both inclusive and compared at day granularity in loc.
func (s *Schedule) InEffectOn(date time.Time, loc *time.Location) bool {
	day := truncateToDay(date, loc)
	if truncateToDay(s.StartDate, loc).After(day) {
		return false
	}
	if s.EndDate != nil && truncateToDay(*s.EndDate, loc).Before(day) {
		return false
	}
	return true
}

func truncateToDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
