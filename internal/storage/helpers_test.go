package storage

import (
	"path/filepath"
	"testing"
)

// setupTestService creates a test service with a temporary, fully migrated database file.
func setupTestService(t *testing.T) *Service {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	config := DefaultConfig(dbPath)
	config.AutoMigrate = true
	db, err := Open(config)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	service := NewService(db)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return service
}
