package notify

import (
	"context"
	"log"
	"time"
)

// SweepScheduler drives the three sweeps on fixed cadences. Each sweep runs
// on its own ticker; a pass that overruns its period simply overlaps the next
// one, which the idempotent-create and status guards in the sweeps tolerate.
type SweepScheduler struct {
	sweeper *Sweeper

	doseInterval   time.Duration
	missedInterval time.Duration
	refillInterval time.Duration

	stopChan chan struct{}
}

// NewSweepScheduler creates a new scheduler
func NewSweepScheduler(sweeper *Sweeper, doseInterval, missedInterval, refillInterval time.Duration) *SweepScheduler {
	return &SweepScheduler{
		sweeper:        sweeper,
		doseInterval:   doseInterval,
		missedInterval: missedInterval,
		refillInterval: refillInterval,
		stopChan:       make(chan struct{}),
	}
}

// Start begins the sweep loops
func (s *SweepScheduler) Start(ctx context.Context) {
	log.Printf("[SweepScheduler] starting (dose: %s, missed: %s, refill: %s)",
		s.doseInterval, s.missedInterval, s.refillInterval)

	go s.loop(ctx, s.doseInterval, s.sweeper.RunDoseSweep)
	go s.loop(ctx, s.missedInterval, s.sweeper.RunMissedSweep)
	go s.loop(ctx, s.refillInterval, s.sweeper.RunRefillSweep)
}

// Stop gracefully stops all sweep loops
func (s *SweepScheduler) Stop() {
	close(s.stopChan)
}

func (s *SweepScheduler) loop(ctx context.Context, interval time.Duration, sweep func(context.Context, time.Time)) {
	// Run immediately on start
	sweep(ctx, time.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			sweep(ctx, now)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}
