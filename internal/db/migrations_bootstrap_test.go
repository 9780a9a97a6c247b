package db

import (
	"path/filepath"
	"reflect"
	"testing"

	"gorm.io/gorm"
)

func openSQLiteForTest(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return database
}

func TestOpenSQLiteAppliesEmbeddedMigrations(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "pomoflow-clean.db")
	database := openSQLiteForTest(t, databasePath)

	for _, table := range []string{"users", "tasks", "projects", "schema_migrations"} {
		if !database.Migrator().HasTable(table) {
			t.Fatalf("expected table %s after migrations", table)
		}
	}

	migrations, err := loadEmbeddedMigrations()
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}
	applied, err := loadAppliedMigrationVersions(database)
	if err != nil {
		t.Fatalf("load applied versions: %v", err)
	}
	for _, migration := range migrations {
		if _, ok := applied[migration.Version]; !ok {
			t.Fatalf("expected migration %s to be recorded as applied", migration.Version)
		}
	}
}

func TestOpenSQLiteMigrationBootstrapIsIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "pomoflow-idempotent.db")

	firstOpen, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open sqlite: %v", err)
	}
	firstApplied, err := loadAppliedMigrationVersions(firstOpen)
	if err != nil {
		t.Fatalf("load first applied versions: %v", err)
	}
	firstSQLDB, err := firstOpen.DB()
	if err != nil {
		t.Fatalf("first open sql db: %v", err)
	}
	if err := firstSQLDB.Close(); err != nil {
		t.Fatalf("close first sql db: %v", err)
	}

	secondOpen := openSQLiteForTest(t, databasePath)
	secondApplied, err := loadAppliedMigrationVersions(secondOpen)
	if err != nil {
		t.Fatalf("load second applied versions: %v", err)
	}

	if !reflect.DeepEqual(firstApplied, secondApplied) {
		t.Fatalf("expected applied versions unchanged between boots, before=%v after=%v", firstApplied, secondApplied)
	}
}
