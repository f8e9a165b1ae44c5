package usecase

import (
	"errors"
	"testing"
	"time"

	dosedomain "github.com/sampurn31/my-med/internal/doselog/domain"
	doserepo "github.com/sampurn31/my-med/internal/doselog/repository"
	"github.com/sampurn31/my-med/internal/medication/domain"
	medrepo "github.com/sampurn31/my-med/internal/medication/repository"
	scheddomain "github.com/sampurn31/my-med/internal/schedule/domain"
	schedrepo "github.com/sampurn31/my-med/internal/schedule/repository"
	"github.com/sampurn31/my-med/internal/testutil"
)

type medFixture struct {
	usecase   MedicationUsecase
	medRepo   medrepo.MedicationRepository
	schedRepo schedrepo.ScheduleRepository
	doseRepo  doserepo.DoseLogRepository
}

func newMedFixture(t *testing.T) *medFixture {
	t.Helper()
	db := testutil.OpenTestDB(t)
	f := &medFixture{
		medRepo:   medrepo.NewGormMedicationRepository(db),
		schedRepo: schedrepo.NewGormScheduleRepository(db),
		doseRepo:  doserepo.NewGormDoseLogRepository(db),
	}
	f.usecase = NewMedicationUsecase(f.medRepo, f.schedRepo, f.doseRepo)
	return f
}

func intPtr(n int) *int { return &n }

func TestCreateMedicationDefaults(t *testing.T) {
	f := newMedFixture(t)

	med, err := f.usecase.Create("user-1", &domain.Medication{Name: "Metformin"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if med.Form != "tablet" {
		t.Errorf("expected default form tablet, got %q", med.Form)
	}
	if med.PillsRemaining != nil {
		t.Error("expected untracked inventory by default")
	}

	if _, err := f.usecase.Create("user-1", &domain.Medication{}); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := f.usecase.Create("user-1", &domain.Medication{Name: "X", PillsRemaining: intPtr(-1)}); err == nil {
		t.Error("expected error for negative pills")
	}
}

func TestUpdateMedicationPartialFields(t *testing.T) {
	f := newMedFixture(t)

	med, err := f.usecase.Create("user-1", &domain.Medication{Name: "Metformin", Strength: "500mg"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	notes := "take with water"
	updated, err := f.usecase.Update("user-1", med.ID, MedicationUpdate{Notes: &notes})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Notes != notes {
		t.Errorf("expected notes update, got %q", updated.Notes)
	}
	if updated.Name != "Metformin" || updated.Strength != "500mg" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
}

func TestUpdatePillsSetAndClear(t *testing.T) {
	f := newMedFixture(t)

	med, err := f.usecase.Create("user-1", &domain.Medication{Name: "Metformin"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tracked, err := f.usecase.UpdatePills("user-1", med.ID, intPtr(30))
	if err != nil {
		t.Fatalf("UpdatePills failed: %v", err)
	}
	if tracked.PillsRemaining == nil || *tracked.PillsRemaining != 30 {
		t.Errorf("expected 30 pills, got %v", tracked.PillsRemaining)
	}

	if _, err := f.usecase.UpdatePills("user-1", med.ID, intPtr(-3)); err == nil {
		t.Error("expected error for negative pills")
	}

	untracked, err := f.usecase.UpdatePills("user-1", med.ID, nil)
	if err != nil {
		t.Fatalf("UpdatePills failed: %v", err)
	}
	if untracked.PillsRemaining != nil {
		t.Error("expected inventory tracking cleared")
	}
}

func TestMedicationOwnership(t *testing.T) {
	f := newMedFixture(t)

	med, err := f.usecase.Create("user-1", &domain.Medication{Name: "Metformin"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := f.usecase.GetByID("user-2", med.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
	if _, err := f.usecase.GetByID("user-1", "no-such-med"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := f.usecase.Delete("user-2", med.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner on delete, got %v", err)
	}
}

func TestDeleteMedicationCascades(t *testing.T) {
	f := newMedFixture(t)
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	med, err := f.usecase.Create("user-1", &domain.Medication{Name: "Metformin"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	schedule := &scheddomain.Schedule{
		UserID:       "user-1",
		MedicationID: med.ID,
		StartDate:    now.AddDate(0, 0, -1),
		Times:        []string{"09:00"},
		Timezone:     "Asia/Kolkata",
		Active:       true,
	}
	if err := f.schedRepo.Create(schedule); err != nil {
		t.Fatal(err)
	}
	entry := &dosedomain.DoseLog{
		UserID:       "user-1",
		ScheduleID:   schedule.ID,
		MedicationID: med.ID,
		ScheduledAt:  now,
		Status:       dosedomain.DoseScheduled,
	}
	if err := f.doseRepo.Create(entry); err != nil {
		t.Fatal(err)
	}

	if err := f.usecase.Delete("user-1", med.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if got, _ := f.medRepo.FindByID(med.ID); got != nil {
		t.Error("expected medication deleted")
	}
	if got, _ := f.schedRepo.FindByID(schedule.ID); got != nil {
		t.Error("expected schedule deleted")
	}
	if got, _ := f.doseRepo.FindByID(entry.ID); got != nil {
		t.Error("expected dose log deleted")
	}
}
