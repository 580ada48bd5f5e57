package models

import (
	"time"
)

// Achievement is the persisted unlock state for one achievement type.
// One row exists per Type (upsert-by-type). UnlockedAt is null until the
// achievement first unlocks and is never cleared afterwards.
type Achievement struct {
	ID         string     `json:"id" db:"id"`
	Type       string     `json:"type" db:"type"`
	UnlockedAt *time.Time `json:"unlocked_at" db:"unlocked_at"`
	Progress   int        `json:"progress" db:"progress"`
	Metadata   *string    `json:"metadata" db:"metadata"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// AchievementUnlock is the read model returned to the UI when an
// achievement unlocks during a gamification run.
type AchievementUnlock struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
