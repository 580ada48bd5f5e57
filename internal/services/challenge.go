package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tahcohcat/habitquest-web/internal/database"
	"github.com/tahcohcat/habitquest-web/internal/models"
)

// ChallengeService owns group streak challenges and their members.
type ChallengeService struct {
	db       *database.DB
	checkins *CheckinService
}

func NewChallengeService(db *database.DB) *ChallengeService {
	return &ChallengeService{db: db, checkins: NewCheckinService(db)}
}

type challengeRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Code         string    `db:"code"`
	StartDate    string    `db:"start_date"`
	EndDate      string    `db:"end_date"`
	TargetStreak int       `db:"target_streak"`
	HabitIDs     string    `db:"habit_ids"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r challengeRow) toModel() models.Challenge {
	challenge := models.Challenge{
		ID:           r.ID,
		Name:         r.Name,
		Code:         r.Code,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		TargetStreak: r.TargetStreak,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(r.HabitIDs), &challenge.HabitIDs); err != nil {
		challenge.HabitIDs = []string{}
	}
	return challenge
}

const challengeColumns = `id, name, code, start_date, end_date, target_streak, habit_ids, created_at, updated_at`

const shareCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func newShareCode() string {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteByte(shareCodeAlphabet[rand.Intn(len(shareCodeAlphabet))])
	}
	return b.String()
}

// CreateChallenge creates a challenge with a fresh share code and adds the
// creator as the self member.
func (s *ChallengeService) CreateChallenge(req *models.CreateChallengeRequest, selfName string) (*models.Challenge, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("challenge name is required")
	}
	if req.TargetStreak < 1 {
		return nil, fmt.Errorf("target streak must be at least 1, got %d", req.TargetStreak)
	}
	if req.StartDate == "" || req.EndDate == "" || req.EndDate < req.StartDate {
		return nil, fmt.Errorf("challenge needs a valid start/end date range")
	}

	habitIDs := req.HabitIDs
	if habitIDs == nil {
		habitIDs = []string{}
	}
	rawHabitIDs, _ := json.Marshal(habitIDs)

	now := time.Now()
	challenge := models.Challenge{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Code:         newShareCode(),
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		TargetStreak: req.TargetStreak,
		HabitIDs:     habitIDs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := `
		INSERT INTO challenges (id, name, code, start_date, end_date, target_streak, habit_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query, challenge.ID, challenge.Name, challenge.Code,
		challenge.StartDate, challenge.EndDate, challenge.TargetStreak,
		string(rawHabitIDs), challenge.CreatedAt, challenge.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	if selfName != "" {
		if _, err := s.AddMember(challenge.ID, selfName, true); err != nil {
			return nil, err
		}
	}
	return &challenge, nil
}

// GetChallenges returns all challenges, newest first.
func (s *ChallengeService) GetChallenges() ([]models.Challenge, error) {
	var rows []challengeRow
	query := `SELECT ` + challengeColumns + ` FROM challenges ORDER BY created_at DESC`
	if err := s.db.Select(&rows, query); err != nil {
		return nil, fmt.Errorf("failed to get challenges: %w", err)
	}

	challenges := make([]models.Challenge, 0, len(rows))
	for _, row := range rows {
		challenges = append(challenges, row.toModel())
	}
	return challenges, nil
}

// GetChallengeByID returns a single challenge.
func (s *ChallengeService) GetChallengeByID(id string) (*models.Challenge, error) {
	var row challengeRow
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = ?`
	err := s.db.Get(&row, query, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("challenge not found")
	} else if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	challenge := row.toModel()
	return &challenge, nil
}

// GetChallengeByCode looks a challenge up by its share code.
func (s *ChallengeService) GetChallengeByCode(code string) (*models.Challenge, error) {
	var row challengeRow
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE code = ?`
	err := s.db.Get(&row, query, strings.ToUpper(strings.TrimSpace(code)))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("challenge not found")
	} else if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	challenge := row.toModel()
	return &challenge, nil
}

// GetMembers returns a challenge's members in join order.
func (s *ChallengeService) GetMembers(challengeID string) ([]models.ChallengeMember, error) {
	var members []models.ChallengeMember
	query := `
		SELECT id, challenge_id, name, avatar, is_self, joined_at, progress
		FROM challenge_members
		WHERE challenge_id = ?
		ORDER BY joined_at ASC
	`
	if err := s.db.Select(&members, query, challengeID); err != nil {
		return nil, fmt.Errorf("failed to get challenge members: %w", err)
	}
	return members, nil
}

// AddMember adds a participant with zero progress.
func (s *ChallengeService) AddMember(challengeID, name string, isSelf bool) (*models.ChallengeMember, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("member name is required")
	}

	member := models.ChallengeMember{
		ID:          uuid.New().String(),
		ChallengeID: challengeID,
		Name:        name,
		IsSelf:      isSelf,
		JoinedAt:    time.Now(),
	}
	query := `
		INSERT INTO challenge_members (id, challenge_id, name, avatar, is_self, joined_at, progress)
		VALUES (?, ?, ?, NULL, ?, ?, 0)
	`
	if _, err := s.db.Exec(query, member.ID, member.ChallengeID, member.Name, member.IsSelf, member.JoinedAt); err != nil {
		return nil, fmt.Errorf("failed to add challenge member: %w", err)
	}
	return &member, nil
}

// JoinByCode adds a member to the challenge behind a share code.
func (s *ChallengeService) JoinByCode(code, name string) (*models.Challenge, *models.ChallengeMember, error) {
	challenge, err := s.GetChallengeByCode(code)
	if err != nil {
		return nil, nil, err
	}
	member, err := s.AddMember(challenge.ID, name, false)
	if err != nil {
		return nil, nil, err
	}
	return challenge, member, nil
}

// UpdateMemberProgress stores a member's reported streak, clamped to the
// challenge target.
func (s *ChallengeService) UpdateMemberProgress(challengeID, memberID string, progress int) error {
	challenge, err := s.GetChallengeByID(challengeID)
	if err != nil {
		return err
	}

	if progress < 0 {
		progress = 0
	}
	if progress > challenge.TargetStreak {
		progress = challenge.TargetStreak
	}

	result, err := s.db.Exec(
		`UPDATE challenge_members SET progress = ? WHERE id = ? AND challenge_id = ?`,
		progress, memberID, challengeID)
	if err != nil {
		return fmt.Errorf("failed to update member progress: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("challenge member not found")
	}
	return nil
}

// SyncSelfProgress recomputes the self member's progress from the current
// streak on the challenge habits (best streak across them, clamped).
func (s *ChallengeService) SyncSelfProgress(challengeID string, today time.Time) error {
	challenge, err := s.GetChallengeByID(challengeID)
	if err != nil {
		return err
	}
	members, err := s.GetMembers(challengeID)
	if err != nil {
		return err
	}

	best := 0
	for _, habitID := range challenge.HabitIDs {
		var target int
		if err := s.db.Get(&target, `SELECT target FROM habits WHERE id = ?`, habitID); err != nil {
			if err == sql.ErrNoRows {
				continue // habit deleted since the challenge was created
			}
			return fmt.Errorf("failed to get habit target: %w", err)
		}

		checkins, err := s.checkins.GetCheckinsForHabit(habitID)
		if err != nil {
			return err
		}
		stats := CalculateStreakStats(checkins, target, today)
		if stats.CurrentStreak > best {
			best = stats.CurrentStreak
		}
	}

	for _, member := range members {
		if member.IsSelf {
			return s.UpdateMemberProgress(challengeID, member.ID, best)
		}
	}
	return nil
}
