package services

import (
	"testing"
	"time"

	"github.com/tahcohcat/habitquest-web/internal/database"
	"github.com/tahcohcat/habitquest-web/internal/dateutil"
	"github.com/tahcohcat/habitquest-web/internal/models"
)

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(eventType string, payload interface{}) {
	p.events = append(p.events, eventType)
}

func seedHabitWithStreak(t *testing.T, db *database.DB, days int, today time.Time) *models.Habit {
	t.Helper()

	habits := NewHabitService(db)
	habit, err := habits.CreateHabit(&models.CreateHabitRequest{Name: "Read", Target: 1})
	if err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}

	checkins := NewCheckinService(db)
	for offset := 0; offset < days; offset++ {
		key := dateutil.ToDayKey(dateutil.AddDays(today, -offset))
		if _, err := checkins.UpsertCheckin(habit.ID, key, 1); err != nil {
			t.Fatalf("UpsertCheckin day -%d: %v", offset, err)
		}
	}
	return habit
}

func TestHandleCheckinCompleteAwardsXPAndUnlocks(t *testing.T) {
	db := newTestDB(t)
	publisher := &recordingPublisher{}
	svc := NewGamificationService(db, publisher)

	today := time.Date(2025, time.April, 10, 9, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return today }

	habit := seedHabitWithStreak(t, db, 3, today)

	result, err := svc.HandleCheckinComplete(habit)
	if err != nil {
		t.Fatalf("HandleCheckinComplete: %v", err)
	}

	// Base 12 + 2*1 plus the exact day-3 milestone bonus of 10.
	if result.XPGained != 24 {
		t.Errorf("XPGained = %d, want 24", result.XPGained)
	}
	if result.TotalXP != 24 {
		t.Errorf("TotalXP = %d, want 24", result.TotalXP)
	}
	if result.LevelProgress.Level != 1 {
		t.Errorf("Level = %d, want 1", result.LevelProgress.Level)
	}

	ids := make(map[string]bool)
	for _, unlock := range result.Achievements {
		ids[unlock.ID] = true
	}
	if !ids["first_checkin"] {
		t.Errorf("achievements = %v, want first_checkin included", result.Achievements)
	}

	foundXPEvent := false
	for _, event := range publisher.events {
		if event == "xp_gained" {
			foundXPEvent = true
		}
	}
	if !foundXPEvent {
		t.Errorf("published events = %v, want xp_gained", publisher.events)
	}
}

func TestHandleCheckinCompleteNoMilestoneOffDay(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db, nil)

	today := time.Date(2025, time.April, 10, 9, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return today }

	habit := seedHabitWithStreak(t, db, 8, today)

	result, err := svc.HandleCheckinComplete(habit)
	if err != nil {
		t.Fatalf("HandleCheckinComplete: %v", err)
	}
	// Streak 8 is not a milestone; only the base award applies.
	if result.XPGained != 14 {
		t.Errorf("XPGained = %d, want 14", result.XPGained)
	}
}

func TestHandleCheckinCompleteSecondRunAddsNoUnlocks(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db, nil)

	today := time.Date(2025, time.April, 10, 9, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return today }

	habit := seedHabitWithStreak(t, db, 1, today)

	first, err := svc.HandleCheckinComplete(habit)
	if err != nil {
		t.Fatalf("first HandleCheckinComplete: %v", err)
	}
	if len(first.Achievements) == 0 {
		t.Fatal("first run unlocked nothing")
	}

	second, err := svc.HandleCheckinComplete(habit)
	if err != nil {
		t.Fatalf("second HandleCheckinComplete: %v", err)
	}
	if len(second.Achievements) != 0 {
		t.Errorf("second run unlocked %v, want none", second.Achievements)
	}
	if second.TotalXP != first.TotalXP+second.XPGained {
		t.Errorf("TotalXP = %d, want %d", second.TotalXP, first.TotalXP+second.XPGained)
	}
}

func TestHandleJournalSavedUnlocksWithoutXP(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db, nil)

	today := time.Date(2025, time.April, 10, 22, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return today }

	journal := NewJournalService(db)
	for offset := 0; offset < 7; offset++ {
		key := dateutil.ToDayKey(dateutil.AddDays(today, -offset))
		if _, err := journal.UpsertEntry(&models.JournalInput{DateKey: key, Mood: 60, Energy: 50}); err != nil {
			t.Fatalf("UpsertEntry: %v", err)
		}
	}

	unlocks, err := svc.HandleJournalSaved()
	if err != nil {
		t.Fatalf("HandleJournalSaved: %v", err)
	}

	ids := make(map[string]bool)
	for _, unlock := range unlocks {
		ids[unlock.ID] = true
	}
	if !ids["journal_7"] {
		t.Errorf("unlocks = %v, want journal_7", unlocks)
	}
	// No check-in hour in a journal context: neither time-of-day
	// achievement may fire, even this late in the evening.
	if ids["night_owl"] || ids["early_bird"] {
		t.Errorf("time-of-day achievement unlocked from journal save: %v", unlocks)
	}

	snapshot, err := svc.LevelSnapshot()
	if err != nil {
		t.Fatalf("LevelSnapshot: %v", err)
	}
	if snapshot.CurrentXP != 0 {
		t.Errorf("journal save awarded %d xp, want 0", snapshot.CurrentXP)
	}
}

func TestLevelSnapshotReadsPersistedTotal(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db, nil)

	if _, err := NewXPService(db).AddXP(500); err != nil {
		t.Fatalf("AddXP: %v", err)
	}

	snapshot, err := svc.LevelSnapshot()
	if err != nil {
		t.Fatalf("LevelSnapshot: %v", err)
	}
	if snapshot.CurrentXP != 500 {
		t.Errorf("CurrentXP = %d, want 500", snapshot.CurrentXP)
	}
	if snapshot.Level < 2 {
		t.Errorf("Level = %d, want >= 2 at 500 xp", snapshot.Level)
	}
}
