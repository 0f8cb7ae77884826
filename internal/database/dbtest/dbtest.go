package dbtest

import (
	"testing"

	"scholarsync/internal/config"
	"scholarsync/internal/database"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Open returns a migrated, private in-memory SQLite database that is
// closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		DatabaseDriver: "sqlite",
		DatabaseDSN:    "file:" + uuid.New().String() + "?mode=memory&cache=shared",
	}
	db, err := database.Open(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
