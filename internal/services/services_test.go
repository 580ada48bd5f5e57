package services

import (
	"testing"

	"github.com/tahcohcat/habitquest-web/internal/database"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}
