package services

import (
	"testing"

	"github.com/tahcohcat/habitquest-web/internal/models"
)

func TestUpsertCheckinOneRowPerDay(t *testing.T) {
	db := newTestDB(t)
	habits := NewHabitService(db)
	svc := NewCheckinService(db)

	habit, err := habits.CreateHabit(&models.CreateHabitRequest{Name: "Water", Target: 3})
	if err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}

	if _, err := svc.UpsertCheckin(habit.ID, "2025-04-01", 1); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	updated, err := svc.UpsertCheckin(habit.ID, "2025-04-01", 2)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if updated.Count != 2 {
		t.Fatalf("count = %d, want 2", updated.Count)
	}

	history, err := svc.GetCheckinsForHabit(habit.ID)
	if err != nil {
		t.Fatalf("GetCheckinsForHabit: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("rows = %d, want 1 per (habit, day)", len(history))
	}
	if history[0].Count != 2 {
		t.Fatalf("persisted count = %d, want 2", history[0].Count)
	}
}

func TestIncrementCheckinStartsAtOne(t *testing.T) {
	db := newTestDB(t)
	habits := NewHabitService(db)
	svc := NewCheckinService(db)

	habit, _ := habits.CreateHabit(&models.CreateHabitRequest{Name: "Stretch", Target: 1})

	first, err := svc.IncrementCheckin(habit.ID, "2025-04-01")
	if err != nil || first.Count != 1 {
		t.Fatalf("first increment = %+v, %v; want count 1", first, err)
	}
	second, err := svc.IncrementCheckin(habit.ID, "2025-04-01")
	if err != nil || second.Count != 2 {
		t.Fatalf("second increment = %+v, %v; want count 2", second, err)
	}
}

func TestUpsertCheckinRejectsNegativeCount(t *testing.T) {
	db := newTestDB(t)
	habits := NewHabitService(db)
	svc := NewCheckinService(db)

	habit, _ := habits.CreateHabit(&models.CreateHabitRequest{Name: "Read", Target: 1})

	if _, err := svc.UpsertCheckin(habit.ID, "2025-04-01", -1); err == nil {
		t.Fatal("negative count accepted")
	}
}

func TestGetCheckinsForDateRangeInclusive(t *testing.T) {
	db := newTestDB(t)
	habits := NewHabitService(db)
	svc := NewCheckinService(db)

	habit, _ := habits.CreateHabit(&models.CreateHabitRequest{Name: "Read", Target: 1})
	for _, key := range []string{"2025-03-30", "2025-03-31", "2025-04-01", "2025-04-02"} {
		if _, err := svc.UpsertCheckin(habit.ID, key, 1); err != nil {
			t.Fatalf("UpsertCheckin(%s): %v", key, err)
		}
	}

	inRange, err := svc.GetCheckinsForDateRange("2025-03-31", "2025-04-01")
	if err != nil {
		t.Fatalf("GetCheckinsForDateRange: %v", err)
	}
	if len(inRange) != 2 {
		t.Fatalf("rows in range = %d, want 2", len(inRange))
	}
	if inRange[0].DateKey != "2025-03-31" || inRange[1].DateKey != "2025-04-01" {
		t.Fatalf("range order = %v", inRange)
	}
}
