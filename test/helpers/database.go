package helpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/andrescamacho/tileplanner-go/internal/infrastructure/config"
	"github.com/andrescamacho/tileplanner-go/internal/infrastructure/database"
)

// NewTestDB creates an in-memory SQLite database with the full schema
// migrated, cleaned up when the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewConnection(&config.DatabaseConfig{
		Type: "sqlite",
		Path: ":memory:",
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = database.Close(db)
	})

	return db
}
