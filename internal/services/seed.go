package services

import (
	"time"

	"github.com/tahcohcat/habitquest-web/internal/database"
	"github.com/tahcohcat/habitquest-web/internal/dateutil"
	"github.com/tahcohcat/habitquest-web/internal/models"
)

const seedStateKey = "demo_seeded"

// SeedDemoData fills an empty database with a pair of sample habits, a
// short check-in streak and today's journal entry. Guarded by an
// app_state flag so it runs at most once per database.
func SeedDemoData(db *database.DB) error {
	state := NewAppStateService(db)
	if entry, err := state.Get(seedStateKey); err != nil {
		return err
	} else if entry != nil && entry.Value == "true" {
		return nil
	}

	habits := NewHabitService(db)
	checkins := NewCheckinService(db)
	journal := NewJournalService(db)

	focusReminder := "09:00"
	focus, err := habits.CreateHabit(&models.CreateHabitRequest{
		Name:         "Focus Sprint",
		Icon:         "focus",
		Color:        "#7B6CFF",
		Schedule:     models.HabitSchedule{Days: []int{1, 2, 3, 4, 5}, Times: []string{"09:00"}},
		Target:       1,
		ReminderTime: &focusReminder,
	})
	if err != nil {
		return err
	}

	hydrateReminder := "11:00"
	if _, err := habits.CreateHabit(&models.CreateHabitRequest{
		Name:         "Hydration",
		Icon:         "drop",
		Color:        "#5AA6FF",
		Schedule:     models.HabitSchedule{Days: []int{0, 1, 2, 3, 4, 5, 6}, Times: []string{"11:00"}},
		Target:       8,
		ReminderTime: &hydrateReminder,
	}); err != nil {
		return err
	}

	today := time.Now()
	for offset := 0; offset < 6; offset++ {
		key := dateutil.ToDayKey(dateutil.AddDays(today, -offset))
		if _, err := checkins.UpsertCheckin(focus.ID, key, 1); err != nil {
			return err
		}
	}

	notes := "A focused morning with clear priorities."
	if _, err := journal.UpsertEntry(&models.JournalInput{
		DateKey:  dateutil.ToDayKey(today),
		Mood:     78,
		Energy:   66,
		Notes:    &notes,
		HabitIDs: []string{focus.ID},
		Tags:     []string{"clarity", "momentum"},
	}); err != nil {
		return err
	}

	return state.Set(seedStateKey, "true")
}
