package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tahcohcat/habitquest-web/internal/database"
	"github.com/tahcohcat/habitquest-web/internal/models"
)

// AppStateService is a generic string key/value store. Writes are
// full-replace; callers own the encoding of their values.
type AppStateService struct {
	db *database.DB
}

func NewAppStateService(db *database.DB) *AppStateService {
	return &AppStateService{db: db}
}

// Get returns the entry for key, or nil when the key has never been set.
func (s *AppStateService) Get(key string) (*models.AppStateEntry, error) {
	var entry models.AppStateEntry
	err := s.db.Get(&entry, `SELECT key, value, updated_at FROM app_state WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get app state %q: %w", key, err)
	}
	return &entry, nil
}

// Set stores value under key, replacing any previous value.
func (s *AppStateService) Set(key, value string) error {
	query := `
		INSERT INTO app_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to set app state %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *AppStateService) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM app_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove app state %q: %w", key, err)
	}
	return nil
}
