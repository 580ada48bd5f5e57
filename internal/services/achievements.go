package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tahcohcat/habitquest-web/internal/database"
	"github.com/tahcohcat/habitquest-web/internal/models"
)

// AchievementContext is the fact snapshot achievement predicates read.
// LastCheckinHour is a pointer because journal-driven evaluations have no
// check-in hour; each time-of-day predicate substitutes its own neutral
// default so an absent hour can never falsely trigger it.
type AchievementContext struct {
	TotalCheckins   int
	CurrentStreak   int
	BestStreak      int
	JournalDays     int
	LastCheckinHour *int
}

func (c AchievementContext) hourOr(fallback int) int {
	if c.LastCheckinHour == nil {
		return fallback
	}
	return *c.LastCheckinHour
}

// AchievementDefinition is one catalog entry: a stable id plus a pure
// predicate over the context snapshot.
type AchievementDefinition struct {
	ID          string
	Title       string
	Description string
	Condition   func(AchievementContext) bool
}

// achievementCatalog is ordered: when several achievements unlock at once
// they are reported in this order, and the UI surfaces the first.
var achievementCatalog = []AchievementDefinition{
	{
		ID:          "first_checkin",
		Title:       "First Check-in",
		Description: "Complete your first habit.",
		Condition:   func(c AchievementContext) bool { return c.TotalCheckins >= 1 },
	},
	{
		ID:          "streak_7",
		Title:       "7-Day Streak",
		Description: "Keep the momentum alive for a week.",
		Condition:   func(c AchievementContext) bool { return c.CurrentStreak >= 7 },
	},
	{
		ID:          "streak_14",
		Title:       "14-Day Streak",
		Description: "Two weeks, strong and steady.",
		Condition:   func(c AchievementContext) bool { return c.CurrentStreak >= 14 },
	},
	{
		ID:          "checkins_10",
		Title:       "Double Digits",
		Description: "Hit 10 total check-ins.",
		Condition:   func(c AchievementContext) bool { return c.TotalCheckins >= 10 },
	},
	{
		ID:          "early_bird",
		Title:       "Early Bird",
		Description: "Check in before 7 AM.",
		Condition:   func(c AchievementContext) bool { return c.hourOr(24) < 7 },
	},
	{
		ID:          "night_owl",
		Title:       "Night Owl",
		Description: "Check in after 9 PM.",
		Condition:   func(c AchievementContext) bool { return c.hourOr(0) >= 21 },
	},
	{
		ID:          "journal_7",
		Title:       "Reflective",
		Description: "Write in your journal 7 times.",
		Condition:   func(c AchievementContext) bool { return c.JournalDays >= 7 },
	},
}

// AchievementCatalog returns the full ordered catalog.
func AchievementCatalog() []AchievementDefinition {
	return achievementCatalog
}

// EligibleAchievements returns, in catalog order, every definition that is
// not yet unlocked and whose predicate holds for ctx. Pure, no I/O.
func EligibleAchievements(ctx AchievementContext, unlockedIDs map[string]bool) []AchievementDefinition {
	var eligible []AchievementDefinition
	for _, def := range achievementCatalog {
		if !unlockedIDs[def.ID] && def.Condition(ctx) {
			eligible = append(eligible, def)
		}
	}
	return eligible
}

// AchievementService persists achievement unlock state.
type AchievementService struct {
	db *database.DB
}

func NewAchievementService(db *database.DB) *AchievementService {
	return &AchievementService{db: db}
}

// GetAchievements returns all persisted achievement rows, newest first.
func (s *AchievementService) GetAchievements() ([]models.Achievement, error) {
	var achievements []models.Achievement
	query := `
		SELECT id, type, unlocked_at, progress, metadata, created_at
		FROM achievements
		ORDER BY created_at DESC
	`
	if err := s.db.Select(&achievements, query); err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}
	return achievements, nil
}

// UpsertAchievement creates or updates the row for an achievement type,
// leaving unlock state untouched.
func (s *AchievementService) UpsertAchievement(achievementType string, progress int, metadata map[string]string) (*models.Achievement, error) {
	var metaJSON *string
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode achievement metadata: %w", err)
		}
		encoded := string(raw)
		metaJSON = &encoded
	}

	var existing models.Achievement
	err := s.db.Get(&existing,
		`SELECT id, type, unlocked_at, progress, metadata, created_at FROM achievements WHERE type = ?`,
		achievementType)

	if err == nil {
		_, err = s.db.Exec(`UPDATE achievements SET progress = ?, metadata = ? WHERE id = ?`,
			progress, metaJSON, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update achievement %q: %w", achievementType, err)
		}
		existing.Progress = progress
		existing.Metadata = metaJSON
		return &existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to look up achievement %q: %w", achievementType, err)
	}

	record := models.Achievement{
		ID:        uuid.New().String(),
		Type:      achievementType,
		Progress:  progress,
		Metadata:  metaJSON,
		CreatedAt: time.Now(),
	}
	_, err = s.db.Exec(
		`INSERT INTO achievements (id, type, unlocked_at, progress, metadata, created_at) VALUES (?, ?, NULL, ?, ?, ?)`,
		record.ID, record.Type, record.Progress, record.Metadata, record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert achievement %q: %w", achievementType, err)
	}
	return &record, nil
}

// UnlockAchievement sets unlocked_at if it is still null. Unlocking is a
// one-way transition; repeated calls leave the original timestamp.
func (s *AchievementService) UnlockAchievement(id string) error {
	_, err := s.db.Exec(
		`UPDATE achievements SET unlocked_at = ? WHERE id = ? AND unlocked_at IS NULL`,
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to unlock achievement %q: %w", id, err)
	}
	return nil
}

// Evaluate loads the persisted unlock state, finds newly eligible
// achievements for ctx and unlocks them, returning the new unlocks in
// catalog order. Re-running with an unchanged context and state is a
// no-op: an interrupted upsert-then-unlock heals on the next run because
// predicates depend on persistent facts, not on the achievement rows.
func (s *AchievementService) Evaluate(ctx AchievementContext) ([]models.AchievementUnlock, error) {
	existing, err := s.GetAchievements()
	if err != nil {
		return nil, err
	}

	unlocked := make(map[string]bool, len(existing))
	for _, entry := range existing {
		if entry.UnlockedAt != nil {
			unlocked[entry.Type] = true
		}
	}

	newlyUnlocked := []models.AchievementUnlock{}
	for _, def := range EligibleAchievements(ctx, unlocked) {
		record, err := s.UpsertAchievement(def.ID, 1, map[string]string{
			"title":       def.Title,
			"description": def.Description,
		})
		if err != nil {
			return nil, err
		}
		if err := s.UnlockAchievement(record.ID); err != nil {
			return nil, err
		}
		newlyUnlocked = append(newlyUnlocked, models.AchievementUnlock{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
		})
	}

	return newlyUnlocked, nil
}
