package services

import (
	"testing"

	"github.com/tahcohcat/habitquest-web/internal/models"
)

func TestUpsertJournalEntryUniquePerDay(t *testing.T) {
	db := newTestDB(t)
	svc := NewJournalService(db)

	notes := "slow morning"
	if _, err := svc.UpsertEntry(&models.JournalInput{
		DateKey: "2025-04-01",
		Mood:    40,
		Energy:  30,
		Notes:   &notes,
		Tags:    []string{"tired"},
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	entry, err := svc.UpsertEntry(&models.JournalInput{
		DateKey: "2025-04-01",
		Mood:    70,
		Energy:  65,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if entry.Mood != 70 || entry.Energy != 65 {
		t.Fatalf("entry = %+v, want updated mood/energy", entry)
	}

	entries, err := svc.GetEntries()
	if err != nil {
		t.Fatalf("GetEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1 per day", len(entries))
	}
}

func TestUpsertJournalEntryValidatesRanges(t *testing.T) {
	db := newTestDB(t)
	svc := NewJournalService(db)

	if _, err := svc.UpsertEntry(&models.JournalInput{DateKey: "2025-04-01", Mood: 120, Energy: 50}); err == nil {
		t.Fatal("mood 120 accepted")
	}
	if _, err := svc.UpsertEntry(&models.JournalInput{DateKey: "2025-04-01", Mood: 50, Energy: -1}); err == nil {
		t.Fatal("energy -1 accepted")
	}
	if _, err := svc.UpsertEntry(&models.JournalInput{Mood: 50, Energy: 50}); err == nil {
		t.Fatal("missing date key accepted")
	}
}

func TestGetEntryMissingDayIsNil(t *testing.T) {
	db := newTestDB(t)
	svc := NewJournalService(db)

	entry, err := svc.GetEntry("2025-04-01")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if entry != nil {
		t.Fatalf("entry = %+v, want nil", entry)
	}
}

func TestJournalEntryListsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewJournalService(db)

	if _, err := svc.UpsertEntry(&models.JournalInput{
		DateKey:  "2025-04-02",
		Mood:     55,
		Energy:   60,
		HabitIDs: []string{"h1", "h2"},
		Tags:     []string{"focus", "walk"},
	}); err != nil {
		t.Fatalf("UpsertEntry: %v", err)
	}

	entry, err := svc.GetEntry("2025-04-02")
	if err != nil || entry == nil {
		t.Fatalf("GetEntry: %v, %v", entry, err)
	}
	if len(entry.HabitIDs) != 2 || len(entry.Tags) != 2 {
		t.Fatalf("lists did not round trip: %+v", entry)
	}
}
