package dateutil

import (
	"testing"
	"time"
)

func TestToDayKeyPadsComponents(t *testing.T) {
	got := ToDayKey(time.Date(2025, time.March, 4, 15, 30, 0, 0, time.Local))
	if got != "2025-03-04" {
		t.Fatalf("ToDayKey = %q, want 2025-03-04", got)
	}
}

func TestParseDayKeyRoundTrip(t *testing.T) {
	dates := []time.Time{
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local),
		time.Date(2024, time.February, 29, 0, 0, 0, 0, time.Local),
		time.Date(2025, time.December, 31, 23, 59, 0, 0, time.Local),
	}

	for _, d := range dates {
		back := ParseDayKey(ToDayKey(d))
		if back.Year() != d.Year() || back.Month() != d.Month() || back.Day() != d.Day() {
			t.Errorf("round trip of %v produced %v", d, back)
		}
	}
}

func TestParseDayKeyMalformedFallsBack(t *testing.T) {
	got := ParseDayKey("2025-xx-yy")
	want := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("ParseDayKey(malformed) = %v, want %v", got, want)
	}

	got = ParseDayKey("2025")
	if !got.Equal(want) {
		t.Fatalf("ParseDayKey(partial) = %v, want %v", got, want)
	}
}

func TestAddDaysRollsOverMonthBoundary(t *testing.T) {
	start := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.Local)
	if key := ToDayKey(AddDays(start, 1)); key != "2025-02-01" {
		t.Fatalf("AddDays(+1) = %s, want 2025-02-01", key)
	}

	start = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.Local)
	if key := ToDayKey(AddDays(start, -1)); key != "2025-02-28" {
		t.Fatalf("AddDays(-1) = %s, want 2025-02-28", key)
	}

	start = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)
	if key := ToDayKey(AddDays(start, -1)); key != "2024-12-31" {
		t.Fatalf("AddDays(-1) across year = %s, want 2024-12-31", key)
	}
}
