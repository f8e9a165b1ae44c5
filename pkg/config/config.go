package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	FirebaseCredentials string
	GoogleProjectID     string
	SweepTopic          string

	// Reminder engine tunables
	Lookahead       time.Duration // how far ahead the dose sweep looks for upcoming doses
	GracePeriod     time.Duration // how long past due a dose stays "scheduled" before it counts as missed
	RefillThreshold int           // pills-remaining level at or below which a refill reminder fires
	SnoozeDefault   time.Duration

	// Sweep cadences
	DoseSweepInterval   time.Duration
	MissedSweepInterval time.Duration
	RefillSweepInterval time.Duration

	// Client-style poller
	PollInterval   time.Duration
	PollCacheReset time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=mymed port=5432 sslmode=disable"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:  getDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry: getDuration("JWT_REFRESH_EXPIRY", 168*time.Hour),

		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		GoogleProjectID:     getEnv("GOOGLE_PROJECT_ID", ""),
		SweepTopic:          getEnv("SWEEP_TOPIC", "sweep-triggers"),

		Lookahead:       getDuration("REMINDER_LOOKAHEAD", 10*time.Minute),
		GracePeriod:     getDuration("REMINDER_GRACE_PERIOD", 15*time.Minute),
		RefillThreshold: getInt("REFILL_THRESHOLD", 10),
		SnoozeDefault:   getDuration("SNOOZE_DEFAULT", 10*time.Minute),

		DoseSweepInterval:   getDuration("DOSE_SWEEP_INTERVAL", 5*time.Minute),
		MissedSweepInterval: getDuration("MISSED_SWEEP_INTERVAL", 15*time.Minute),
		RefillSweepInterval: getDuration("REFILL_SWEEP_INTERVAL", 24*time.Hour),

		PollInterval:   getDuration("POLL_INTERVAL", 60*time.Second),
		PollCacheReset: getDuration("POLL_CACHE_RESET", time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
