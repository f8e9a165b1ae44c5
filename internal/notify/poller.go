package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	medrepo "github.com/sampurn31/my-med/internal/medication/repository"
	schedrepo "github.com/sampurn31/my-med/internal/schedule/repository"
)

// LocalNotifier raises a notification on the device running this process.
// Implementations without permission must report Enabled() == false, which
// turns the whole poller pass into a no-op rather than an error.
type LocalNotifier interface {
	Enabled() bool
	Notify(title, body string, data map[string]string)
}

// Poller is the client-side delivery strategy: while a user session is open
// it re-evaluates that user's schedules on a fixed interval and raises local
// notifications, deduplicated per (schedule, instant) by an in-memory cache
// that is cleared on a longer interval to bound its growth. It resolves dose
// instants against the process-local clock, so its engine should be built
// with NewLocalClockEngine and a SymmetricWindow.
type Poller struct {
	engine    *Engine
	schedRepo schedrepo.ScheduleRepository
	medRepo   medrepo.MedicationRepository
	notifier  LocalNotifier

	userID     string
	interval   time.Duration
	cacheReset time.Duration

	mu      sync.Mutex
	seen    map[string]struct{}
	stop    chan struct{}
	started bool
}

// NewPoller creates a poller for one user session
func NewPoller(engine *Engine, schedRepo schedrepo.ScheduleRepository, medRepo medrepo.MedicationRepository, notifier LocalNotifier, userID string, interval, cacheReset time.Duration) *Poller {
	return &Poller{
		engine:     engine,
		schedRepo:  schedRepo,
		medRepo:    medRepo,
		notifier:   notifier,
		userID:     userID,
		interval:   interval,
		cacheReset: cacheReset,
		seen:       make(map[string]struct{}),
	}
}

// Start launches the polling loop. Calling Start on a running poller does
// nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.stop = make(chan struct{})
	stop := p.stop
	p.mu.Unlock()

	log.Printf("[Poller] starting for user %s (interval %s)", p.userID, p.interval)

	go func() {
		// Check immediately, then on the interval.
		p.tick(ctx, time.Now())

		ticker := time.NewTicker(p.interval)
		reset := time.NewTicker(p.cacheReset)
		defer ticker.Stop()
		defer reset.Stop()

		for {
			select {
			case now := <-ticker.C:
				p.tick(ctx, now)
			case <-reset.C:
				p.clearCache()
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the loop. It is immediate, idempotent and safe to call on a
// poller that was never started.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.started = false
	close(p.stop)
	log.Printf("[Poller] stopped for user %s", p.userID)
}

func (p *Poller) tick(ctx context.Context, now time.Time) {
	if !p.notifier.Enabled() {
		return
	}

	schedules, err := p.schedRepo.FindByUserID(p.userID, true)
	if err != nil {
		log.Printf("[Poller] failed to load schedules for user %s: %v", p.userID, err)
		return
	}

	for _, schedule := range schedules {
		if !schedule.InEffectOn(now, now.Location()) {
			continue
		}

		for _, timeStr := range schedule.Times {
			decision, err := p.engine.Evaluate(schedule, timeStr, now)
			if err != nil {
				log.Printf("[Poller] evaluate failed for schedule %s at %q: %v", schedule.ID, timeStr, err)
				continue
			}
			if decision.ScheduledAt.IsZero() {
				continue
			}

			key := cacheKey(schedule.ID, decision.ScheduledAt)
			if p.alreadySeen(key) {
				continue
			}

			if !decision.Notify {
				// A resolved dose stays resolved; caching it saves the store
				// lookups on every later tick. A snoozed dose is NOT cached
				// so it re-notifies once the snooze elapses.
				if decision.Log != nil && decision.Log.Terminal() {
					p.markSeen(key)
				}
				continue
			}

			title := "Time to take your medicine"
			body := p.medicationName(schedule.MedicationID)
			if schedule.Instructions != "" {
				body = body + "\n" + schedule.Instructions
			}
			data := map[string]string{
				"type":        "reminder",
				"schedule_id": schedule.ID,
			}
			if decision.Log != nil {
				data["dose_log_id"] = decision.Log.ID
			}

			p.notifier.Notify(title, body, data)
			p.markSeen(key)
		}
	}
}

func (p *Poller) alreadySeen(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.seen[key]
	return ok
}

func (p *Poller) markSeen(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen[key] = struct{}{}
}

func (p *Poller) clearCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = make(map[string]struct{})
}

func (p *Poller) medicationName(medID string) string {
	if medID == "" {
		return "Your medication"
	}
	med, err := p.medRepo.FindByID(medID)
	if err != nil || med == nil {
		return "Your medication"
	}
	return med.Name
}

func cacheKey(scheduleID string, scheduledAt time.Time) string {
	return fmt.Sprintf("%s-%s", scheduleID, scheduledAt.Format("2006-01-02-15:04"))
}
