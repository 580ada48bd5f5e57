package models

import (
	"time"
)

// HabitSchedule describes when a habit is meant to happen: the weekdays it
// is scheduled on (0=Sunday..6=Saturday) and optional times of day.
type HabitSchedule struct {
	Days  []int    `json:"days"`
	Times []string `json:"times,omitempty"`
}

// Habit is a tracked habit definition. Target is the number of completions
// per day required for that day to count toward a streak.
type Habit struct {
	ID           string        `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	Icon         string        `json:"icon" db:"icon"`
	Color        string        `json:"color" db:"color"`
	Schedule     HabitSchedule `json:"schedule"`
	Target       int           `json:"target" db:"target"`
	ReminderTime *string       `json:"reminder_time" db:"reminder_time"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// Checkin records completions of one habit on one local calendar day.
// At most one row exists per (habit, day key); repeat completions on the
// same day bump Count instead of inserting.
type Checkin struct {
	ID        string    `json:"id" db:"id"`
	HabitID   string    `json:"habit_id" db:"habit_id"`
	DateKey   string    `json:"date_key" db:"date_key"`
	Count     int       `json:"count" db:"count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateHabitRequest is the payload for creating or updating a habit.
type CreateHabitRequest struct {
	Name         string        `json:"name" validate:"required,min=1,max=60"`
	Icon         string        `json:"icon"`
	Color        string        `json:"color"`
	Schedule     HabitSchedule `json:"schedule"`
	Target       int           `json:"target" validate:"min=1"`
	ReminderTime *string       `json:"reminder_time"`
}

// HabitSuggestion is a preset habit template surfaced by fuzzy search.
type HabitSuggestion struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}
