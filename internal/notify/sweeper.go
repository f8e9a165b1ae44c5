package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	authrepo "github.com/sampurn31/my-med/internal/auth/repository"
	dosedomain "github.com/sampurn31/my-med/internal/doselog/domain"
	doserepo "github.com/sampurn31/my-med/internal/doselog/repository"
	familyrepo "github.com/sampurn31/my-med/internal/family/repository"
	medrepo "github.com/sampurn31/my-med/internal/medication/repository"
	scheddomain "github.com/sampurn31/my-med/internal/schedule/domain"
	schedrepo "github.com/sampurn31/my-med/internal/schedule/repository"
	"github.com/sampurn31/my-med/pkg/fcm"
)

// Pusher sends one message to a set of device tokens and reports which tokens
// the gateway rejected. pkg/fcm.Client satisfies this.
type Pusher interface {
	SendToDevices(ctx context.Context, tokens []string, msg fcm.Message) ([]string, error)
}

// Sweeper runs the three server-side passes: upcoming-dose notification,
// missed-dose detection with caregiver fan-out, and refill reminders.
// Every per-item failure is logged and skipped; a sweep never aborts early
// because one record is broken.
type Sweeper struct {
	engine     *Engine
	schedRepo  schedrepo.ScheduleRepository
	doseRepo   doserepo.DoseLogRepository
	medRepo    medrepo.MedicationRepository
	userRepo   authrepo.UserRepository
	tokenRepo  authrepo.DeviceTokenRepository
	familyRepo familyrepo.FamilyRepository
	pusher     Pusher

	gracePeriod     time.Duration
	refillThreshold int
}

// NewSweeper creates a Sweeper. The engine should use a LookaheadWindow; the
// grace period and refill threshold come from config.
func NewSweeper(
	engine *Engine,
	schedRepo schedrepo.ScheduleRepository,
	doseRepo doserepo.DoseLogRepository,
	medRepo medrepo.MedicationRepository,
	userRepo authrepo.UserRepository,
	tokenRepo authrepo.DeviceTokenRepository,
	familyRepo familyrepo.FamilyRepository,
	pusher Pusher,
	gracePeriod time.Duration,
	refillThreshold int,
) *Sweeper {
	return &Sweeper{
		engine:          engine,
		schedRepo:       schedRepo,
		doseRepo:        doseRepo,
		medRepo:         medRepo,
		userRepo:        userRepo,
		tokenRepo:       tokenRepo,
		familyRepo:      familyRepo,
		pusher:          pusher,
		gracePeriod:     gracePeriod,
		refillThreshold: refillThreshold,
	}
}

// RunDoseSweep walks every active schedule and pushes a reminder for each
// dose entering the lookahead window.
func (s *Sweeper) RunDoseSweep(ctx context.Context, now time.Time) {
	schedules, err := s.schedRepo.FindActive()
	if err != nil {
		log.Printf("[DoseSweep] failed to load schedules: %v", err)
		return
	}

	notified := 0
	for _, schedule := range schedules {
		loc, err := time.LoadLocation(schedule.Timezone)
		if err != nil {
			log.Printf("[DoseSweep] invalid timezone %q on schedule %s: %v", schedule.Timezone, schedule.ID, err)
			continue
		}
		if !schedule.InEffectOn(now, loc) {
			continue
		}

		for _, timeStr := range schedule.Times {
			decision, err := s.engine.Evaluate(schedule, timeStr, now)
			if err != nil {
				log.Printf("[DoseSweep] evaluate failed for schedule %s at %q: %v", schedule.ID, timeStr, err)
				continue
			}
			if !decision.Notify {
				continue
			}
			s.sendDoseReminder(ctx, schedule, decision.Log)
			notified++
		}
	}

	if notified > 0 {
		log.Printf("[DoseSweep] sent %d dose reminders", notified)
	}
}

func (s *Sweeper) sendDoseReminder(ctx context.Context, schedule *scheddomain.Schedule, entry *dosedomain.DoseLog) {
	body := s.medicationName(schedule.MedicationID)
	if schedule.Instructions != "" {
		body = body + " - " + schedule.Instructions
	} else {
		body = body + " - Take as prescribed"
	}

	s.pushToUser(ctx, schedule.UserID, fcm.Message{
		Title: "Time to take your medicine",
		Body:  body,
		Data: map[string]string{
			"type":        "reminder",
			"schedule_id": schedule.ID,
			"dose_log_id": entry.ID,
		},
	})
}

// RunMissedSweep reclassifies scheduled doses past the grace period as missed
// and alerts the owner's family members. Doses snoozed into the future are
// left alone.
func (s *Sweeper) RunMissedSweep(ctx context.Context, now time.Time) {
	overdue, err := s.doseRepo.FindOverdue(now.Add(-s.gracePeriod))
	if err != nil {
		log.Printf("[MissedSweep] failed to load overdue doses: %v", err)
		return
	}

	missed := 0
	for _, entry := range overdue {
		if entry.Snoozed(now) {
			continue
		}

		entry.Status = dosedomain.DoseMissed
		if err := s.doseRepo.Update(entry); err != nil {
			log.Printf("[MissedSweep] failed to mark dose %s missed: %v", entry.ID, err)
			continue
		}
		missed++

		s.notifyCaregivers(ctx, entry)
	}

	if missed > 0 {
		log.Printf("[MissedSweep] marked %d doses missed", missed)
	}
}

// notifyCaregivers fans a missed-dose alert out to every family member of the
// dose's owner. Missing user or member records are skipped silently.
func (s *Sweeper) notifyCaregivers(ctx context.Context, entry *dosedomain.DoseLog) {
	owner, err := s.userRepo.FindByID(entry.UserID)
	if err != nil || owner == nil {
		if err != nil {
			log.Printf("[Caregiver] failed to load user %s: %v", entry.UserID, err)
		}
		return
	}

	memberIDs, err := s.familyRepo.MemberIDs(owner.ID)
	if err != nil {
		log.Printf("[Caregiver] failed to load family of user %s: %v", owner.ID, err)
		return
	}
	if len(memberIDs) == 0 {
		return
	}

	medName := s.medicationName(entry.MedicationID)
	msg := fcm.Message{
		Title: "Missed Dose Alert",
		Body:  fmt.Sprintf("%s missed their %s dose", owner.Name, medName),
		Data: map[string]string{
			"type":    "missed_alert",
			"user_id": owner.ID,
		},
	}

	for _, memberID := range memberIDs {
		member, err := s.userRepo.FindByID(memberID)
		if err != nil || member == nil {
			continue
		}
		s.pushToUser(ctx, member.ID, msg)
	}
}

// RunRefillSweep pushes a reminder for every medication whose tracked pill
// count is in the low-but-nonzero band. A depleted medication (zero pills)
// is excluded: it needs a replacement, not a reminder.
func (s *Sweeper) RunRefillSweep(ctx context.Context, now time.Time) {
	meds, err := s.medRepo.FindLowStock(s.refillThreshold)
	if err != nil {
		log.Printf("[RefillSweep] failed to load low-stock medications: %v", err)
		return
	}

	for _, med := range meds {
		if med.PillsRemaining == nil {
			continue
		}
		s.pushToUser(ctx, med.UserID, fcm.Message{
			Title: "Refill Reminder",
			Body:  fmt.Sprintf("%s is running low (%d pills remaining)", med.Name, *med.PillsRemaining),
			Data: map[string]string{
				"type":          "refill",
				"medication_id": med.ID,
			},
		})
	}

	if len(meds) > 0 {
		log.Printf("[RefillSweep] notified %d low-stock medications", len(meds))
	}
}

// pushToUser resolves the user's enabled tokens, sends, and prunes whatever
// the gateway rejected. Zero tokens is a quiet no-op.
func (s *Sweeper) pushToUser(ctx context.Context, userID string, msg fcm.Message) {
	if s.pusher == nil {
		return
	}
	tokens, err := s.tokenRepo.GetEnabledTokens(userID)
	if err != nil {
		log.Printf("[Push] failed to load tokens for user %s: %v", userID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	failedTokens, err := s.pusher.SendToDevices(ctx, tokens, msg)
	if err != nil {
		log.Printf("[Push] send failed for user %s: %v", userID, err)
		return
	}

	for _, token := range failedTokens {
		if err := s.tokenRepo.DeleteToken(token); err != nil {
			log.Printf("[Push] failed to prune stale token: %v", err)
		}
	}
}

func (s *Sweeper) medicationName(medID string) string {
	if medID == "" {
		return "Your medication"
	}
	med, err := s.medRepo.FindByID(medID)
	if err != nil || med == nil {
		return "Your medication"
	}
	return med.Name
}
