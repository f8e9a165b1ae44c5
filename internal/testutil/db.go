// Package testutil provides shared helpers for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	authdomain "github.com/sampurn31/my-med/internal/auth/domain"
	dosedomain "github.com/sampurn31/my-med/internal/doselog/domain"
	familydomain "github.com/sampurn31/my-med/internal/family/domain"
	meddomain "github.com/sampurn31/my-med/internal/medication/domain"
	scheddomain "github.com/sampurn31/my-med/internal/schedule/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB opens an in-memory sqlite database migrated with every model,
// named after the test so parallel tests do not share state.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&authdomain.DeviceToken{},
		&meddomain.Medication{},
		&scheddomain.Schedule{},
		&dosedomain.DoseLog{},
		&familydomain.FamilyLink{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access underlying DB: %v", err)
	}
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}
	})

	return gdb
}
