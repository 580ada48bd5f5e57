package models

import (
	"time"
)

// Challenge is a group streak challenge. Friends join with the share code
// and race to hold a streak of TargetStreak days on the linked habits
// between StartDate and EndDate (day keys, inclusive).
type Challenge struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Code         string    `json:"code" db:"code"`
	StartDate    string    `json:"start_date" db:"start_date"`
	EndDate      string    `json:"end_date" db:"end_date"`
	TargetStreak int       `json:"target_streak" db:"target_streak"`
	HabitIDs     []string  `json:"habit_ids"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ChallengeMember is one participant. Progress is their best current
// streak on the challenge habits, clamped to the challenge target.
type ChallengeMember struct {
	ID          string    `json:"id" db:"id"`
	ChallengeID string    `json:"challenge_id" db:"challenge_id"`
	Name        string    `json:"name" db:"name"`
	Avatar      *string   `json:"avatar" db:"avatar"`
	IsSelf      bool      `json:"is_self" db:"is_self"`
	JoinedAt    time.Time `json:"joined_at" db:"joined_at"`
	Progress    int       `json:"progress" db:"progress"`
}

// CreateChallengeRequest is the payload for creating a challenge.
type CreateChallengeRequest struct {
	Name         string   `json:"name" validate:"required,min=1,max=60"`
	StartDate    string   `json:"start_date" validate:"required"`
	EndDate      string   `json:"end_date" validate:"required"`
	TargetStreak int      `json:"target_streak" validate:"min=1"`
	HabitIDs     []string `json:"habit_ids"`
}
