package usecase

import (
	"errors"
	"testing"
	"time"

	dosedomain "github.com/sampurn31/my-med/internal/doselog/domain"
	doserepo "github.com/sampurn31/my-med/internal/doselog/repository"
	meddomain "github.com/sampurn31/my-med/internal/medication/domain"
	medrepo "github.com/sampurn31/my-med/internal/medication/repository"
	scheddomain "github.com/sampurn31/my-med/internal/schedule/domain"
	schedrepo "github.com/sampurn31/my-med/internal/schedule/repository"
	"github.com/sampurn31/my-med/internal/testutil"
	"github.com/sampurn31/my-med/pkg/timewindow"

	"gorm.io/gorm"
)

type fixture struct {
	doseRepo  doserepo.DoseLogRepository
	schedRepo schedrepo.ScheduleRepository
	medRepo   medrepo.MedicationRepository
	usecase   DoseLogUsecase
}

func newFixture(t *testing.T) (*fixture, *gorm.DB) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	f := &fixture{
		doseRepo:  doserepo.NewGormDoseLogRepository(db),
		schedRepo: schedrepo.NewGormScheduleRepository(db),
		medRepo:   medrepo.NewGormMedicationRepository(db),
	}
	f.usecase = NewDoseLogUsecase(f.doseRepo, f.schedRepo, f.medRepo)
	return f, db
}

func (f *fixture) createMedication(t *testing.T, userID string, pills *int) *meddomain.Medication {
	t.Helper()
	med := &meddomain.Medication{UserID: userID, Name: "Metformin", PillsRemaining: pills}
	if err := f.medRepo.Create(med); err != nil {
		t.Fatalf("failed to create medication: %v", err)
	}
	return med
}

func (f *fixture) createSchedule(t *testing.T, userID, medID string, times []string, now time.Time) *scheddomain.Schedule {
	t.Helper()
	schedule := &scheddomain.Schedule{
		UserID:         userID,
		MedicationID:   medID,
		StartDate:      now.AddDate(0, 0, -1),
		RecurrenceType: scheddomain.RecurrenceDaily,
		Times:          times,
		Timezone:       "Asia/Kolkata",
		Active:         true,
	}
	if err := f.schedRepo.Create(schedule); err != nil {
		t.Fatalf("failed to create schedule: %v", err)
	}
	return schedule
}

func intPtr(n int) *int { return &n }

func TestSyncTodayCreatesOneLogPerTime(t *testing.T) {
	f, _ := newFixture(t)
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	med := f.createMedication(t, "user-1", nil)
	schedule := f.createSchedule(t, "user-1", med.ID, []string{"09:00", "21:00"}, now)

	if err := f.usecase.SyncToday("user-1", now); err != nil {
		t.Fatalf("SyncToday failed: %v", err)
	}

	logs, err := f.usecase.Today("user-1", now)
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 dose logs, got %d", len(logs))
	}

	morning, err := timewindow.At("09:00", "Asia/Kolkata", now)
	if err != nil {
		t.Fatal(err)
	}
	if !logs[0].ScheduledAt.Equal(morning) {
		t.Errorf("first dose at %v, want %v", logs[0].ScheduledAt, morning)
	}
	for _, entry := range logs {
		if entry.Status != dosedomain.DoseScheduled {
			t.Errorf("expected scheduled status, got %s", entry.Status)
		}
		if entry.ScheduleID != schedule.ID {
			t.Errorf("expected schedule %s, got %s", schedule.ID, entry.ScheduleID)
		}
		if entry.MedicationID != med.ID {
			t.Errorf("expected medication %s, got %s", med.ID, entry.MedicationID)
		}
	}
}

func TestSyncTodayIsIdempotent(t *testing.T) {
	f, _ := newFixture(t)
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	med := f.createMedication(t, "user-1", nil)
	f.createSchedule(t, "user-1", med.ID, []string{"09:00"}, now)

	for i := 0; i < 3; i++ {
		if err := f.usecase.SyncToday("user-1", now); err != nil {
			t.Fatalf("SyncToday run %d failed: %v", i, err)
		}
	}

	logs, err := f.usecase.Today("user-1", now)
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("expected 1 dose log after repeated syncs, got %d", len(logs))
	}
}

func TestSyncTodaySkipsEndedSchedules(t *testing.T) {
	f, _ := newFixture(t)
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	med := f.createMedication(t, "user-1", nil)
	schedule := f.createSchedule(t, "user-1", med.ID, []string{"09:00"}, now)
	ended := now.AddDate(0, 0, -1)
	schedule.EndDate = &ended
	if err := f.schedRepo.Update(schedule); err != nil {
		t.Fatalf("failed to update schedule: %v", err)
	}

	if err := f.usecase.SyncToday("user-1", now); err != nil {
		t.Fatalf("SyncToday failed: %v", err)
	}

	logs, err := f.usecase.Today("user-1", now)
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("expected no dose logs for an ended schedule, got %d", len(logs))
	}
}

func TestSyncTodaySkipsMalformedTimes(t *testing.T) {
	f, _ := newFixture(t)
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	med := f.createMedication(t, "user-1", nil)
	f.createSchedule(t, "user-1", med.ID, []string{"25:99", "09:00"}, now)

	if err := f.usecase.SyncToday("user-1", now); err != nil {
		t.Fatalf("SyncToday failed: %v", err)
	}

	logs, err := f.usecase.Today("user-1", now)
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("expected the valid time to survive a malformed sibling, got %d logs", len(logs))
	}
}

func TestMarkTakenDecrementsPills(t *testing.T) {
	f, _ := newFixture(t)
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	med := f.createMedication(t, "user-1", intPtr(1))
	f.createSchedule(t, "user-1", med.ID, []string{"09:00"}, now)
	if err := f.usecase.SyncToday("user-1", now); err != nil {
		t.Fatalf("SyncToday failed: %v", err)
	}
	logs, _ := f.usecase.Today("user-1", now)
	if len(logs) != 1 {
		t.Fatalf("expected 1 dose log, got %d", len(logs))
	}

	entry, err := f.usecase.MarkTaken("user-1", logs[0].ID, now)
	if err != nil {
		t.Fatalf("MarkTaken failed: %v", err)
	}
	if entry.Status != dosedomain.DoseTaken {
		t.Errorf("expected taken status, got %s", entry.Status)
	}
	if entry.TakenAt == nil || !entry.TakenAt.Equal(now) {
		t.Errorf("expected TakenAt %v, got %v", now, entry.TakenAt)
	}

	updated, err := f.medRepo.FindByID(med.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.PillsRemaining == nil || *updated.PillsRemaining != 0 {
		t.Errorf("expected 0 pills remaining, got %v", updated.PillsRemaining)
	}
}

func TestMarkTakenNeverGoesBelowZeroPills(t *testing.T) {
	f, _ := newFixture(t)
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	med := f.createMedication(t, "user-1", intPtr(0))
	f.createSchedule(t, "user-1", med.ID, []string{"09:00"}, now)
	if err := f.usecase.SyncToday("user-1", now); err != nil {
		t.Fatalf("SyncToday failed: %v", err)
	}
	logs, _ := f.usecase.Today("user-1", now)

	if _, err := f.usecase.MarkTaken("user-1", logs[0].ID, now); err != nil {
		t.Fatalf("MarkTaken failed: %v", err)
	}

	updated, err := f.medRepo.FindByID(med.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.PillsRemaining == nil || *updated.PillsRemaining != 0 {
		t.Errorf("expected pills to stay at 0, got %v", updated.PillsRemaining)
	}
}

func TestMarkTakenOnlyFromScheduled(t *testing.T) {
	f, _ := newFixture(t)
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	med := f.createMedication(t, "user-1", nil)
	f.createSchedule(t, "user-1", med.ID, []string{"09:00"}, now)
	if err := f.usecase.SyncToday("user-1", now); err != nil {
		t.Fatalf("SyncToday failed: %v", err)
	}
	logs, _ := f.usecase.Today("user-1", now)

	if _, err := f.usecase.MarkTaken("user-1", logs[0].ID, now); err != nil {
		t.Fatalf("first MarkTaken failed: %v", err)
	}
	if _, err := f.usecase.MarkTaken("user-1", logs[0].ID, now); !errors.Is(err, ErrNotScheduled) {
		t.Errorf("expected ErrNotScheduled on second take, got %v", err)
	}
	if _, err := f.usecase.Skip("user-1", logs[0].ID); !errors.Is(err, ErrNotScheduled) {
		t.Errorf("expected ErrNotScheduled on skip after take, got %v", err)
	}
}

func TestSnooze(t *testing.T) {
	f, _ := newFixture(t)
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	med := f.createMedication(t, "user-1", nil)
	f.createSchedule(t, "user-1", med.ID, []string{"09:00"}, now)
	if err := f.usecase.SyncToday("user-1", now); err != nil {
		t.Fatalf("SyncToday failed: %v", err)
	}
	logs, _ := f.usecase.Today("user-1", now)

	if _, err := f.usecase.Snooze("user-1", logs[0].ID, 0, now); !errors.Is(err, ErrInvalidSnooze) {
		t.Errorf("expected ErrInvalidSnooze for zero minutes, got %v", err)
	}
	if _, err := f.usecase.Snooze("user-1", logs[0].ID, -5, now); !errors.Is(err, ErrInvalidSnooze) {
		t.Errorf("expected ErrInvalidSnooze for negative minutes, got %v", err)
	}

	entry, err := f.usecase.Snooze("user-1", logs[0].ID, 10, now)
	if err != nil {
		t.Fatalf("Snooze failed: %v", err)
	}
	if entry.Status != dosedomain.DoseScheduled {
		t.Errorf("snooze must not change status, got %s", entry.Status)
	}
	want := now.Add(10 * time.Minute)
	if entry.SnoozedUntil == nil || !entry.SnoozedUntil.Equal(want) {
		t.Errorf("expected SnoozedUntil %v, got %v", want, entry.SnoozedUntil)
	}

	// A snoozed dose can still be taken, and taking clears the snooze.
	taken, err := f.usecase.MarkTaken("user-1", logs[0].ID, now)
	if err != nil {
		t.Fatalf("MarkTaken failed: %v", err)
	}
	if taken.SnoozedUntil != nil {
		t.Error("expected snooze cleared after take")
	}
}

func TestSkipClearsSnooze(t *testing.T) {
	f, _ := newFixture(t)
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	med := f.createMedication(t, "user-1", nil)
	f.createSchedule(t, "user-1", med.ID, []string{"09:00"}, now)
	if err := f.usecase.SyncToday("user-1", now); err != nil {
		t.Fatalf("SyncToday failed: %v", err)
	}
	logs, _ := f.usecase.Today("user-1", now)

	if _, err := f.usecase.Snooze("user-1", logs[0].ID, 10, now); err != nil {
		t.Fatalf("Snooze failed: %v", err)
	}
	entry, err := f.usecase.Skip("user-1", logs[0].ID)
	if err != nil {
		t.Fatalf("Skip failed: %v", err)
	}
	if entry.Status != dosedomain.DoseSkipped {
		t.Errorf("expected skipped status, got %s", entry.Status)
	}
	if entry.SnoozedUntil != nil {
		t.Error("expected snooze cleared after skip")
	}
}

func TestDoseActionsRejectOtherUsers(t *testing.T) {
	f, _ := newFixture(t)
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	med := f.createMedication(t, "user-1", nil)
	f.createSchedule(t, "user-1", med.ID, []string{"09:00"}, now)
	if err := f.usecase.SyncToday("user-1", now); err != nil {
		t.Fatalf("SyncToday failed: %v", err)
	}
	logs, _ := f.usecase.Today("user-1", now)

	if _, err := f.usecase.MarkTaken("user-2", logs[0].ID, now); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
	if _, err := f.usecase.MarkTaken("user-1", "no-such-log", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLogRecordsAdHocDose(t *testing.T) {
	f, _ := newFixture(t)
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	med := f.createMedication(t, "user-1", nil)
	schedule := f.createSchedule(t, "user-1", med.ID, []string{"09:00"}, now)

	entry, err := f.usecase.Log("user-1", schedule.ID, now)
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if entry.Status != dosedomain.DoseScheduled {
		t.Errorf("expected scheduled status, got %s", entry.Status)
	}
	if entry.MedicationID != med.ID {
		t.Errorf("expected medication inherited from schedule, got %q", entry.MedicationID)
	}

	if _, err := f.usecase.Log("user-2", schedule.ID, now); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
	if _, err := f.usecase.Log("user-1", "no-such-schedule", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeduplicateKeepsEarliestRecord(t *testing.T) {
	f, _ := newFixture(t)
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	scheduledAt, _ := timewindow.At("09:00", "Asia/Kolkata", now)

	base := time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC)
	var kept string
	for i := 0; i < 3; i++ {
		entry := &dosedomain.DoseLog{
			UserID:      "user-1",
			ScheduleID:  "sched-1",
			ScheduledAt: scheduledAt,
			Status:      dosedomain.DoseScheduled,
		}
		if err := f.doseRepo.Create(entry); err != nil {
			t.Fatalf("failed to create dose log: %v", err)
		}
		// Backdate creation so the winner is unambiguous.
		entry.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := f.doseRepo.Update(entry); err != nil {
			t.Fatalf("failed to backdate dose log: %v", err)
		}
		if i == 0 {
			kept = entry.ID
		}
	}

	report, err := f.usecase.Deduplicate("user-1", now)
	if err != nil {
		t.Fatalf("Deduplicate failed: %v", err)
	}
	if report.Total != 3 || report.Deleted != 2 || report.Kept != 1 {
		t.Errorf("unexpected report: %+v", report)
	}

	remaining, err := f.doseRepo.FindByScheduleAt("sched-1", scheduledAt)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected 1 surviving log, got %d", len(remaining))
	}
	if remaining[0].ID != kept {
		t.Errorf("expected earliest record %s to survive, got %s", kept, remaining[0].ID)
	}
}

func TestDeduplicateLeavesDistinctSlotsAlone(t *testing.T) {
	f, _ := newFixture(t)
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	morning, _ := timewindow.At("09:00", "Asia/Kolkata", now)
	evening, _ := timewindow.At("21:00", "Asia/Kolkata", now)
	for _, at := range []time.Time{morning, evening} {
		entry := &dosedomain.DoseLog{
			UserID:      "user-1",
			ScheduleID:  "sched-1",
			ScheduledAt: at,
			Status:      dosedomain.DoseScheduled,
		}
		if err := f.doseRepo.Create(entry); err != nil {
			t.Fatalf("failed to create dose log: %v", err)
		}
	}

	report, err := f.usecase.Deduplicate("user-1", now)
	if err != nil {
		t.Fatalf("Deduplicate failed: %v", err)
	}
	if report.Deleted != 0 || report.Kept != 2 {
		t.Errorf("unexpected report: %+v", report)
	}
}
