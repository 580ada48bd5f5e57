package services

import (
	"testing"
	"time"

	"github.com/tahcohcat/habitquest-web/internal/dateutil"
	"github.com/tahcohcat/habitquest-web/internal/models"
)

func TestCreateChallengeAddsSelfMember(t *testing.T) {
	db := newTestDB(t)
	svc := NewChallengeService(db)

	challenge, err := svc.CreateChallenge(&models.CreateChallengeRequest{
		Name:         "April streak race",
		StartDate:    "2025-04-01",
		EndDate:      "2025-04-30",
		TargetStreak: 14,
	}, "Me")
	if err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	if len(challenge.Code) != 6 {
		t.Fatalf("share code = %q, want 6 chars", challenge.Code)
	}

	members, err := svc.GetMembers(challenge.ID)
	if err != nil {
		t.Fatalf("GetMembers: %v", err)
	}
	if len(members) != 1 || !members[0].IsSelf || members[0].Name != "Me" {
		t.Fatalf("members = %+v, want single self member", members)
	}
}

func TestJoinByCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewChallengeService(db)

	created, err := svc.CreateChallenge(&models.CreateChallengeRequest{
		Name:         "Race",
		StartDate:    "2025-04-01",
		EndDate:      "2025-04-30",
		TargetStreak: 7,
	}, "Me")
	if err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}

	joined, member, err := svc.JoinByCode(created.Code, "Sam")
	if err != nil {
		t.Fatalf("JoinByCode: %v", err)
	}
	if joined.ID != created.ID {
		t.Fatalf("joined challenge %q, want %q", joined.ID, created.ID)
	}
	if member.IsSelf {
		t.Fatal("joined member flagged as self")
	}

	if _, _, err := svc.JoinByCode("NOPE99", "Sam"); err == nil {
		t.Fatal("join with unknown code succeeded")
	}
}

func TestUpdateMemberProgressClampsToTarget(t *testing.T) {
	db := newTestDB(t)
	svc := NewChallengeService(db)

	challenge, err := svc.CreateChallenge(&models.CreateChallengeRequest{
		Name:         "Race",
		StartDate:    "2025-04-01",
		EndDate:      "2025-04-30",
		TargetStreak: 7,
	}, "Me")
	if err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	members, _ := svc.GetMembers(challenge.ID)

	if err := svc.UpdateMemberProgress(challenge.ID, members[0].ID, 12); err != nil {
		t.Fatalf("UpdateMemberProgress: %v", err)
	}

	members, _ = svc.GetMembers(challenge.ID)
	if members[0].Progress != 7 {
		t.Fatalf("progress = %d, want clamped to 7", members[0].Progress)
	}
}

func TestSyncSelfProgressUsesCurrentStreak(t *testing.T) {
	db := newTestDB(t)
	habits := NewHabitService(db)
	checkins := NewCheckinService(db)
	svc := NewChallengeService(db)

	habit, err := habits.CreateHabit(&models.CreateHabitRequest{Name: "Run", Target: 1})
	if err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}

	today := time.Date(2025, time.April, 10, 9, 0, 0, 0, time.Local)
	for offset := 0; offset < 3; offset++ {
		key := dateutil.ToDayKey(dateutil.AddDays(today, -offset))
		if _, err := checkins.UpsertCheckin(habit.ID, key, 1); err != nil {
			t.Fatalf("UpsertCheckin: %v", err)
		}
	}

	challenge, err := svc.CreateChallenge(&models.CreateChallengeRequest{
		Name:         "Race",
		StartDate:    "2025-04-01",
		EndDate:      "2025-04-30",
		TargetStreak: 14,
		HabitIDs:     []string{habit.ID},
	}, "Me")
	if err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}

	if err := svc.SyncSelfProgress(challenge.ID, today); err != nil {
		t.Fatalf("SyncSelfProgress: %v", err)
	}

	members, _ := svc.GetMembers(challenge.ID)
	if members[0].Progress != 3 {
		t.Fatalf("self progress = %d, want 3", members[0].Progress)
	}
}

func TestCreateChallengeValidatesDateRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewChallengeService(db)

	_, err := svc.CreateChallenge(&models.CreateChallengeRequest{
		Name:         "Backwards",
		StartDate:    "2025-04-30",
		EndDate:      "2025-04-01",
		TargetStreak: 7,
	}, "Me")
	if err == nil {
		t.Fatal("end before start accepted")
	}
}
