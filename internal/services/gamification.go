package services

import (
	"time"

	"github.com/tahcohcat/habitquest-web/internal/database"
	"github.com/tahcohcat/habitquest-web/internal/dateutil"
	"github.com/tahcohcat/habitquest-web/internal/models"
)

// EventPublisher receives gamification events for live UI delivery. A nil
// publisher disables delivery without changing any other behavior.
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

// GamificationResult is what a check-in completion reports back to the UI.
type GamificationResult struct {
	XPGained      int                        `json:"xp_gained"`
	TotalXP       int                        `json:"total_xp"`
	LevelProgress LevelProgress              `json:"level_progress"`
	Achievements  []models.AchievementUnlock `json:"achievements"`
}

// GamificationService composes the streak analyzer, XP engine and
// achievement evaluator. It is the only gamification component with side
// effects: it persists the XP total and achievement unlock state.
//
// Callers must serialize concurrent runs for the same habit; the service
// takes no locks of its own.
type GamificationService struct {
	checkins     *CheckinService
	journal      *JournalService
	xp           *XPService
	achievements *AchievementService
	events       EventPublisher

	now func() time.Time
}

func NewGamificationService(db *database.DB, events EventPublisher) *GamificationService {
	return &GamificationService{
		checkins:     NewCheckinService(db),
		journal:      NewJournalService(db),
		xp:           NewXPService(db),
		achievements: NewAchievementService(db),
		events:       events,
		now:          time.Now,
	}
}

// HandleCheckinComplete runs the full gamification pass after a habit
// completion: streak stats for the habit, XP award (base plus any exact
// streak-milestone bonus), level snapshot, then achievement evaluation
// over the cross-habit context. The three reads are independent; a
// concurrent writer can at worst delay an unlock to the next run.
func (s *GamificationService) HandleCheckinComplete(habit *models.Habit) (*GamificationResult, error) {
	habitCheckins, err := s.checkins.GetCheckinsForHabit(habit.ID)
	if err != nil {
		return nil, err
	}
	allCheckins, err := s.checkins.GetAllCheckins()
	if err != nil {
		return nil, err
	}
	journalEntries, err := s.journal.GetEntries()
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := CalculateStreakStats(habitCheckins, habit.Target, now)
	xpGained := XPForCheckin(habit.Target) + XPForStreakMilestone(stats.CurrentStreak)

	totalXP, err := s.xp.AddXP(xpGained)
	if err != nil {
		return nil, err
	}
	levelProgress := LevelProgressFor(totalXP)

	hour := now.Hour()
	unlocks, err := s.achievements.Evaluate(AchievementContext{
		TotalCheckins:   len(allCheckins),
		CurrentStreak:   stats.CurrentStreak,
		BestStreak:      stats.BestStreak,
		JournalDays:     len(journalEntries),
		LastCheckinHour: &hour,
	})
	if err != nil {
		return nil, err
	}

	result := &GamificationResult{
		XPGained:      xpGained,
		TotalXP:       totalXP,
		LevelProgress: levelProgress,
		Achievements:  unlocks,
	}
	s.publishResult(habit, result)
	return result, nil
}

// HandleJournalSaved re-evaluates achievements after a journal save.
// Journaling feeds achievement eligibility only; it never awards XP or
// touches streaks, so the context carries just the two counters.
func (s *GamificationService) HandleJournalSaved() ([]models.AchievementUnlock, error) {
	allCheckins, err := s.checkins.GetAllCheckins()
	if err != nil {
		return nil, err
	}
	journalEntries, err := s.journal.GetEntries()
	if err != nil {
		return nil, err
	}

	unlocks, err := s.achievements.Evaluate(AchievementContext{
		TotalCheckins: len(allCheckins),
		JournalDays:   len(journalEntries),
	})
	if err != nil {
		return nil, err
	}

	for _, unlock := range unlocks {
		s.publish("achievement_unlocked", unlock)
	}
	return unlocks, nil
}

// LevelSnapshot reads the persisted XP total and derives the level view.
// Used by screens on focus; triggers no event logic.
func (s *GamificationService) LevelSnapshot() (LevelProgress, error) {
	totalXP, err := s.xp.TotalXP()
	if err != nil {
		return LevelProgress{}, err
	}
	return LevelProgressFor(totalXP), nil
}

// StreakStatsForHabit computes the streak view for one habit as of now.
func (s *GamificationService) StreakStatsForHabit(habit *models.Habit) (StreakStats, error) {
	habitCheckins, err := s.checkins.GetCheckinsForHabit(habit.ID)
	if err != nil {
		return StreakStats{}, err
	}
	return CalculateStreakStats(habitCheckins, habit.Target, s.now()), nil
}

func (s *GamificationService) publishResult(habit *models.Habit, result *GamificationResult) {
	s.publish("xp_gained", map[string]interface{}{
		"habit_id":  habit.ID,
		"xp_gained": result.XPGained,
		"total_xp":  result.TotalXP,
	})

	prevLevel := LevelProgressFor(result.TotalXP - result.XPGained).Level
	if result.LevelProgress.Level > prevLevel {
		s.publish("level_up", result.LevelProgress)
	}
	for _, unlock := range result.Achievements {
		s.publish("achievement_unlocked", unlock)
	}
}

func (s *GamificationService) publish(eventType string, payload interface{}) {
	if s.events != nil {
		s.events.Publish(eventType, payload)
	}
}

// TodayKey is the day key for the service's current clock.
func (s *GamificationService) TodayKey() string {
	return dateutil.ToDayKey(s.now())
}
