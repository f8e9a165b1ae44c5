// Package notify holds the dose notification decision engine, the periodic
// server sweeps, the client-style polling notifier and the caregiver fan-out.
package notify

import (
	"time"

	dosedomain "github.com/sampurn31/my-med/internal/doselog/domain"
	doserepo "github.com/sampurn31/my-med/internal/doselog/repository"
	scheddomain "github.com/sampurn31/my-med/internal/schedule/domain"
	"github.com/sampurn31/my-med/pkg/timewindow"
)

// Window decides whether a dose due at instant is eligible for a notification
// at now. The two implementations deliberately differ: the server sweep only
// looks ahead, while the client poller also catches doses a few minutes past
// due. Both behaviors shipped that way and are kept as-is rather than
// unified.
type Window interface {
	Name() string
	Eligible(instant, now time.Time) bool
}

// LookaheadWindow is the server-sweep window: the dose must be strictly in
// the future and within Ahead of now.
type LookaheadWindow struct {
	Ahead time.Duration
}

func (w LookaheadWindow) Name() string { return "lookahead" }

func (w LookaheadWindow) Eligible(instant, now time.Time) bool {
	return instant.After(now) && instant.Before(now.Add(w.Ahead))
}

// SymmetricWindow is the client-poller window: now must fall within
// [instant-Before, instant+After].
type SymmetricWindow struct {
	Before time.Duration
	After  time.Duration
}

func (w SymmetricWindow) Name() string { return "symmetric" }

func (w SymmetricWindow) Eligible(instant, now time.Time) bool {
	return timewindow.Within(instant, now, w.Before, w.After)
}

// Decision is the outcome of evaluating one schedule time against now.
type Decision struct {
	Notify      bool
	ScheduledAt time.Time
	Log         *dosedomain.DoseLog
}

// Engine turns (schedule, time-of-day, now) into a notify/skip decision,
// lazily creating the dose log when the sweep reaches a time before the
// synchronizer did.
type Engine struct {
	doseRepo doserepo.DoseLogRepository
	window   Window
	// localClock resolves instants in the process-local timezone instead of
	// the schedule's stored one. The client poller sets this, matching the
	// original in-browser behavior where only the device clock is available.
	localClock bool
}

// NewEngine creates a decision engine using the schedule's own timezone.
func NewEngine(doseRepo doserepo.DoseLogRepository, window Window) *Engine {
	return &Engine{doseRepo: doseRepo, window: window}
}

// NewLocalClockEngine creates a decision engine that resolves dose instants
// against the process-local clock.
func NewLocalClockEngine(doseRepo doserepo.DoseLogRepository, window Window) *Engine {
	return &Engine{doseRepo: doseRepo, window: window, localClock: true}
}

// Evaluate applies the decision rules for one schedule time:
//
//  1. outside the window: nothing to do
//  2. no dose log yet: create it (scheduled) and notify
//  3. taken or skipped: stay silent
//  4. snoozed into the future: stay silent
//  5. otherwise notify, covering both the first reminder and the
//     re-notification after a snooze expires (status unchanged)
func (e *Engine) Evaluate(schedule *scheddomain.Schedule, timeOfDay string, now time.Time) (*Decision, error) {
	var scheduledAt time.Time
	var err error
	if e.localClock {
		scheduledAt, err = timewindow.AtLocal(timeOfDay, now)
	} else {
		scheduledAt, err = timewindow.At(timeOfDay, schedule.Timezone, now)
	}
	if err != nil {
		return nil, err
	}

	decision := &Decision{ScheduledAt: scheduledAt}
	if !e.window.Eligible(scheduledAt, now) {
		return decision, nil
	}

	existing, err := e.doseRepo.FindByScheduleAt(schedule.ID, scheduledAt)
	if err != nil {
		return nil, err
	}

	if len(existing) == 0 {
		entry := &dosedomain.DoseLog{
			UserID:       schedule.UserID,
			ScheduleID:   schedule.ID,
			MedicationID: schedule.MedicationID,
			ScheduledAt:  scheduledAt,
			Status:       dosedomain.DoseScheduled,
		}
		if err := e.doseRepo.Create(entry); err != nil {
			return nil, err
		}
		decision.Log = entry
		decision.Notify = true
		return decision, nil
	}

	entry := existing[0]
	decision.Log = entry

	if entry.Status == dosedomain.DoseTaken || entry.Status == dosedomain.DoseSkipped {
		return decision, nil
	}
	if entry.Snoozed(now) {
		return decision, nil
	}

	decision.Notify = true
	return decision, nil
}
