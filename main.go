package main

import (
	"context"
	"log"
	"os"
	"time"

	api "github.com/sampurn31/my-med/cmd/api"
	authdomain "github.com/sampurn31/my-med/internal/auth/domain"
	authRepo "github.com/sampurn31/my-med/internal/auth/repository"
	authUsecase "github.com/sampurn31/my-med/internal/auth/usecase"
	dosedomain "github.com/sampurn31/my-med/internal/doselog/domain"
	doseRepo "github.com/sampurn31/my-med/internal/doselog/repository"
	doseUsecase "github.com/sampurn31/my-med/internal/doselog/usecase"
	familydomain "github.com/sampurn31/my-med/internal/family/domain"
	familyRepo "github.com/sampurn31/my-med/internal/family/repository"
	familyUsecase "github.com/sampurn31/my-med/internal/family/usecase"
	meddomain "github.com/sampurn31/my-med/internal/medication/domain"
	medRepo "github.com/sampurn31/my-med/internal/medication/repository"
	medUsecase "github.com/sampurn31/my-med/internal/medication/usecase"
	"github.com/sampurn31/my-med/internal/notify"
	scheddomain "github.com/sampurn31/my-med/internal/schedule/domain"
	schedRepo "github.com/sampurn31/my-med/internal/schedule/repository"
	schedUsecase "github.com/sampurn31/my-med/internal/schedule/usecase"
	"github.com/sampurn31/my-med/pkg/config"
	"github.com/sampurn31/my-med/pkg/database"
	"github.com/sampurn31/my-med/pkg/fcm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&authdomain.DeviceToken{},
		&meddomain.Medication{},
		&scheddomain.Schedule{},
		&dosedomain.DoseLog{},
		&familydomain.FamilyLink{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	deviceTokenRepository := authRepo.NewDeviceTokenRepository(db)
	medicationRepository := medRepo.NewGormMedicationRepository(db)
	scheduleRepository := schedRepo.NewGormScheduleRepository(db)
	doseLogRepository := doseRepo.NewGormDoseLogRepository(db)
	familyRepository := familyRepo.NewFamilyRepository(db)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, deviceTokenRepository, cfg)
	medUsecaseInstance := medUsecase.NewMedicationUsecase(medicationRepository, scheduleRepository, doseLogRepository)
	schedUsecaseInstance := schedUsecase.NewScheduleUsecase(scheduleRepository, medicationRepository, doseLogRepository)
	doseUsecaseInstance := doseUsecase.NewDoseLogUsecase(doseLogRepository, scheduleRepository, medicationRepository)
	familyUsecaseInstance := familyUsecase.NewFamilyUsecase(familyRepository, userRepository)

	// Newly created schedules materialize today's doses right away
	schedUsecaseInstance.SetSyncer(doseUsecaseInstance)

	// Initialize FCM client (optional, sweeps run without it and skip pushes)
	var fcmClient *fcm.Client
	if cfg.FirebaseCredentials != "" {
		fcmClient, err = fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		}
	} else {
		log.Printf("[WARN] No Firebase credentials configured, FCM disabled")
	}

	// Sweep engine and scheduler
	engine := notify.NewEngine(doseLogRepository, notify.LookaheadWindow{Ahead: cfg.Lookahead})
	var pusher notify.Pusher
	if fcmClient != nil {
		pusher = fcmClient
	}
	sweeper := notify.NewSweeper(
		engine,
		scheduleRepository,
		doseLogRepository,
		medicationRepository,
		userRepository,
		deviceTokenRepository,
		familyRepository,
		pusher,
		cfg.GracePeriod,
		cfg.RefillThreshold,
	)

	scheduler := notify.NewSweepScheduler(sweeper, cfg.DoseSweepInterval, cfg.MissedSweepInterval, cfg.RefillSweepInterval)
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	// Single-user local polling mode: evaluate one user's schedules against
	// the process clock and notify via the log instead of FCM.
	if pollUser := os.Getenv("LOCAL_POLL_USER"); pollUser != "" {
		localEngine := notify.NewLocalClockEngine(doseLogRepository, notify.SymmetricWindow{
			Before: 5 * time.Minute,
			After:  5 * time.Minute,
		})
		poller := notify.NewPoller(localEngine, scheduleRepository, medicationRepository, notify.NewLogNotifier(), pollUser, cfg.PollInterval, cfg.PollCacheReset)
		poller.Start(context.Background())
		defer poller.Stop()
	}

	// Pub/Sub trigger for externally driven sweeps, only when configured
	if cfg.GoogleProjectID != "" {
		trigger, err := notify.NewSweepTrigger(cfg.GoogleProjectID, cfg.SweepTopic, cfg.FirebaseCredentials, sweeper)
		if err != nil {
			log.Printf("[ERROR] Failed to initialize sweep trigger: %v", err)
		} else {
			go trigger.Start(context.Background())
		}
	} else {
		log.Printf("[WARN] GoogleProjectID not configured, sweep trigger disabled")
	}

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, medUsecaseInstance, schedUsecaseInstance, doseUsecaseInstance, familyUsecaseInstance, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
