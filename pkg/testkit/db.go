package testkit

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/farmermarket/backend/pkg/database"
)

// NewDB opens a fresh file-backed SQLite database in t.TempDir(), migrates
// the given models and closes it when the test ends.
func NewDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("testkit: open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("testkit: migrate: %v", err)
		}
	}
	return db
}
