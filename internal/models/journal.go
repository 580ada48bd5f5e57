package models

import (
	"time"
)

// JournalEntry is a daily reflection, at most one per local calendar day.
// Mood and energy are 0-100 sliders; HabitIDs links the entry to the habits
// it reflects on.
type JournalEntry struct {
	ID        string    `json:"id" db:"id"`
	DateKey   string    `json:"date_key" db:"date_key"`
	Mood      int       `json:"mood" db:"mood"`
	Energy    int       `json:"energy" db:"energy"`
	Notes     *string   `json:"notes" db:"notes"`
	HabitIDs  []string  `json:"habit_ids"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// JournalInput is the upsert payload for a day's journal entry.
type JournalInput struct {
	DateKey  string   `json:"date_key" validate:"required"`
	Mood     int      `json:"mood" validate:"min=0,max=100"`
	Energy   int      `json:"energy" validate:"min=0,max=100"`
	Notes    *string  `json:"notes"`
	HabitIDs []string `json:"habit_ids"`
	Tags     []string `json:"tags"`
}
