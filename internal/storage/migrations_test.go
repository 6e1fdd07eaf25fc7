package storage

import (
	"context"
	"testing"
)

func TestMigrate_SchemaVersion(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("SchemaVersion() = %d, want %d", version, ExpectedSchemaVersion)
	}
	if got := migrations[len(migrations)-1].Version; got != ExpectedSchemaVersion {
		t.Errorf("last migration version = %d, want %d", got, ExpectedSchemaVersion)
	}
}

func TestMigrate_CreatesTables(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	tables := []string{"receipts", "user_profiles", "user_progress", "achievement_unlocks", "tip_displays"}
	for _, table := range tables {
		var count int
		err := store.db.QueryRow(`
			SELECT COUNT(*) FROM sqlite_master
			WHERE type='table' AND name=?
		`, table).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to check table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("table %s was not created", table)
		}
	}

	var indexCount int
	err := store.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='index' AND name='idx_receipts_user_created'
	`).Scan(&indexCount)
	if err != nil {
		t.Fatalf("Failed to check index: %v", err)
	}
	if indexCount != 1 {
		t.Error("receipt index was not created")
	}
}

func TestMigrate_ProfileConstraints(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	// The schema rejects unknown brackets even when validation is bypassed.
	_, err := store.db.Exec(`
		INSERT INTO user_profiles (user_id, income_bracket, filing_status, created_at, last_updated)
		VALUES ('u', 'ultra', 'single', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`)
	if err == nil {
		t.Error("expected check constraint violation for unknown bracket")
	}
}
