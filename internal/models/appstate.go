package models

import (
	"time"
)

// AppStateEntry is one row of the generic key/value app-state store.
// Writes are full-replace; the gamification core keeps its XP total here.
type AppStateEntry struct {
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
