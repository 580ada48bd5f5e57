package services

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tahcohcat/habitquest-web/internal/database"
)

const xpStateKey = "xp_total"

// streakMilestoneBonuses awards bonus XP at exact streak lengths only.
// A streak of 8 gets nothing; it already earned the day-7 bonus on day 7.
var streakMilestoneBonuses = map[int]int{
	3:  10,
	7:  30,
	14: 60,
	30: 150,
}

// LevelProgress is the derived leveling snapshot for a total XP amount.
type LevelProgress struct {
	Level       int     `json:"level"`
	CurrentXP   int     `json:"current_xp"`
	NextLevelXP int     `json:"next_level_xp"`
	Progress    float64 `json:"progress"`
	PetStage    string  `json:"pet_stage"`
}

// XPForLevel is the cumulative XP required to reach level. The curve is
// convex and strictly increasing: floor(120 * level^1.35).
func XPForLevel(level int) int {
	return int(math.Floor(120 * math.Pow(float64(level), 1.35)))
}

// XPForCheckin is the base award for completing a habit; it scales with
// how demanding the habit's daily target is.
func XPForCheckin(target int) int {
	return 12 + 2*target
}

// XPForStreakMilestone returns the bonus for hitting an exact streak
// milestone, zero for every other streak length.
func XPForStreakMilestone(streak int) int {
	return streakMilestoneBonuses[streak]
}

// PetStageForLevel maps the level to the companion pet's growth stage.
func PetStageForLevel(level int) string {
	switch {
	case level >= 5:
		return "bloom"
	case level >= 3:
		return "sprout"
	default:
		return "seed"
	}
}

// LevelProgressFor derives the level snapshot from a total XP amount:
// the greatest level whose threshold totalXP has reached, plus the
// within-level progress fraction toward the next threshold.
func LevelProgressFor(totalXP int) LevelProgress {
	level := 1
	for totalXP >= XPForLevel(level+1) {
		level++
	}

	levelFloor := XPForLevel(level)
	nextLevelXP := XPForLevel(level + 1)
	progress := float64(totalXP-levelFloor) / float64(nextLevelXP-levelFloor)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	return LevelProgress{
		Level:       level,
		CurrentXP:   totalXP,
		NextLevelXP: nextLevelXP,
		Progress:    progress,
		PetStage:    PetStageForLevel(level),
	}
}

// XPService owns the persisted XP total. The total lives in the app_state
// store and is re-read on every call; it is never cached in memory.
type XPService struct {
	state *AppStateService
}

func NewXPService(db *database.DB) *XPService {
	return &XPService{state: NewAppStateService(db)}
}

// TotalXP reads the persisted XP total. A missing or unparseable value
// reads as zero.
func (s *XPService) TotalXP() (int, error) {
	entry, err := s.state.Get(xpStateKey)
	if err != nil {
		return 0, err
	}
	if entry == nil {
		return 0, nil
	}
	total, err := strconv.Atoi(entry.Value)
	if err != nil {
		return 0, nil
	}
	return total, nil
}

// AddXP adds a non-negative award to the persisted total and returns the
// new total. Negative amounts are a contract violation and are rejected;
// the total never decreases.
func (s *XPService) AddXP(amount int) (int, error) {
	if amount < 0 {
		return 0, fmt.Errorf("xp award must be non-negative, got %d", amount)
	}

	current, err := s.TotalXP()
	if err != nil {
		return 0, err
	}

	next := current + amount
	if err := s.state.Set(xpStateKey, strconv.Itoa(next)); err != nil {
		return 0, err
	}
	return next, nil
}
