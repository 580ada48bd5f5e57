package services

import (
	"testing"
)

func TestXPForLevelStrictlyIncreasing(t *testing.T) {
	for level := 1; level < 100; level++ {
		if XPForLevel(level+1) <= XPForLevel(level) {
			t.Fatalf("XPForLevel(%d) = %d not above XPForLevel(%d) = %d",
				level+1, XPForLevel(level+1), level, XPForLevel(level))
		}
	}
}

func TestXPForLevelKnownValues(t *testing.T) {
	if got := XPForLevel(1); got != 120 {
		t.Errorf("XPForLevel(1) = %d, want 120", got)
	}
	// floor(120 * 2^1.35) = 305
	if got := XPForLevel(2); got <= 120 || got >= 400 {
		t.Errorf("XPForLevel(2) = %d, outside expected range", got)
	}
}

func TestLevelProgressForBounds(t *testing.T) {
	for _, xp := range []int{0, 1, 119, 120, 300, 1000, 50000} {
		lp := LevelProgressFor(xp)
		if lp.Level < 1 {
			t.Errorf("LevelProgressFor(%d).Level = %d, want >= 1", xp, lp.Level)
		}
		if lp.Progress < 0 || lp.Progress > 1 {
			t.Errorf("LevelProgressFor(%d).Progress = %f, want in [0,1]", xp, lp.Progress)
		}
		if lp.CurrentXP != xp {
			t.Errorf("LevelProgressFor(%d).CurrentXP = %d", xp, lp.CurrentXP)
		}
		if lp.NextLevelXP != XPForLevel(lp.Level+1) {
			t.Errorf("LevelProgressFor(%d).NextLevelXP = %d, want %d", xp, lp.NextLevelXP, XPForLevel(lp.Level+1))
		}
	}
}

func TestLevelProgressFor120IsLevelOne(t *testing.T) {
	lp := LevelProgressFor(120)
	if lp.Level != 1 {
		t.Fatalf("LevelProgressFor(120).Level = %d, want 1", lp.Level)
	}
}

func TestXPForCheckinScalesWithTarget(t *testing.T) {
	if got := XPForCheckin(1); got != 14 {
		t.Errorf("XPForCheckin(1) = %d, want 14", got)
	}
	if got := XPForCheckin(5); got != 22 {
		t.Errorf("XPForCheckin(5) = %d, want 22", got)
	}
}

func TestXPForStreakMilestoneExactMatchesOnly(t *testing.T) {
	cases := map[int]int{1: 0, 3: 10, 7: 30, 8: 0, 14: 60, 30: 150, 31: 0}
	for streak, want := range cases {
		if got := XPForStreakMilestone(streak); got != want {
			t.Errorf("XPForStreakMilestone(%d) = %d, want %d", streak, got, want)
		}
	}
}

func TestPetStageForLevel(t *testing.T) {
	cases := map[int]string{1: "seed", 2: "seed", 3: "sprout", 4: "sprout", 5: "bloom", 9: "bloom"}
	for level, want := range cases {
		if got := PetStageForLevel(level); got != want {
			t.Errorf("PetStageForLevel(%d) = %q, want %q", level, got, want)
		}
	}
}

func TestXPServiceAddXPAccumulates(t *testing.T) {
	db := newTestDB(t)
	xp := NewXPService(db)

	if total, err := xp.AddXP(50); err != nil || total != 50 {
		t.Fatalf("AddXP(50) = %d, %v; want 50", total, err)
	}
	if total, err := xp.AddXP(70); err != nil || total != 120 {
		t.Fatalf("AddXP(70) = %d, %v; want 120", total, err)
	}

	total, err := xp.TotalXP()
	if err != nil || total != 120 {
		t.Fatalf("TotalXP = %d, %v; want 120", total, err)
	}
	if lp := LevelProgressFor(total); lp.Level != 1 {
		t.Fatalf("level after 120 xp = %d, want 1", lp.Level)
	}
}

func TestXPServiceRejectsNegativeAwards(t *testing.T) {
	db := newTestDB(t)
	xp := NewXPService(db)

	if _, err := xp.AddXP(30); err != nil {
		t.Fatalf("AddXP(30): %v", err)
	}
	if _, err := xp.AddXP(-10); err == nil {
		t.Fatal("AddXP(-10) succeeded, want error")
	}

	total, err := xp.TotalXP()
	if err != nil || total != 30 {
		t.Fatalf("TotalXP after rejected award = %d, %v; want 30", total, err)
	}
}
