package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tahcohcat/habitquest-web/internal/database"
	"github.com/tahcohcat/habitquest-web/internal/models"
)

// CheckinService owns the append-only check-in history. The table is
// unique on (habit_id, date_key): completing the same habit twice on one
// day updates the existing row's count.
type CheckinService struct {
	db *database.DB
}

func NewCheckinService(db *database.DB) *CheckinService {
	return &CheckinService{db: db}
}

const checkinColumns = `id, habit_id, date_key, count, created_at, updated_at`

// GetCheckinsForHabit returns one habit's full history, newest day first.
func (s *CheckinService) GetCheckinsForHabit(habitID string) ([]models.Checkin, error) {
	var checkins []models.Checkin
	query := `SELECT ` + checkinColumns + ` FROM checkins WHERE habit_id = ? ORDER BY date_key DESC`
	if err := s.db.Select(&checkins, query, habitID); err != nil {
		return nil, fmt.Errorf("failed to get checkins for habit %q: %w", habitID, err)
	}
	return checkins, nil
}

// GetAllCheckins returns every check-in across all habits.
func (s *CheckinService) GetAllCheckins() ([]models.Checkin, error) {
	var checkins []models.Checkin
	query := `SELECT ` + checkinColumns + ` FROM checkins ORDER BY date_key DESC`
	if err := s.db.Select(&checkins, query); err != nil {
		return nil, fmt.Errorf("failed to get checkins: %w", err)
	}
	return checkins, nil
}

// GetCheckinsForDateRange returns all check-ins with day keys between
// start and end, inclusive. Day keys sort lexicographically in date order
// so BETWEEN is exact.
func (s *CheckinService) GetCheckinsForDateRange(startDateKey, endDateKey string) ([]models.Checkin, error) {
	var checkins []models.Checkin
	query := `SELECT ` + checkinColumns + ` FROM checkins WHERE date_key BETWEEN ? AND ? ORDER BY date_key ASC`
	if err := s.db.Select(&checkins, query, startDateKey, endDateKey); err != nil {
		return nil, fmt.Errorf("failed to get checkins in range: %w", err)
	}
	return checkins, nil
}

// GetCheckin returns the single row for (habit, day), or nil if the habit
// has not been logged that day.
func (s *CheckinService) GetCheckin(habitID, dateKey string) (*models.Checkin, error) {
	var checkin models.Checkin
	query := `SELECT ` + checkinColumns + ` FROM checkins WHERE habit_id = ? AND date_key = ?`
	err := s.db.Get(&checkin, query, habitID, dateKey)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get checkin: %w", err)
	}
	return &checkin, nil
}

// UpsertCheckin sets the count for (habit, day), creating the row on the
// first completion of the day and updating it afterwards.
func (s *CheckinService) UpsertCheckin(habitID, dateKey string, count int) (*models.Checkin, error) {
	if count < 0 {
		return nil, fmt.Errorf("checkin count must be non-negative, got %d", count)
	}

	existing, err := s.GetCheckin(habitID, dateKey)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if existing != nil {
		_, err := s.db.Exec(`UPDATE checkins SET count = ?, updated_at = ? WHERE id = ?`,
			count, now, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update checkin: %w", err)
		}
		existing.Count = count
		existing.UpdatedAt = now
		return existing, nil
	}

	checkin := models.Checkin{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		DateKey:   dateKey,
		Count:     count,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.db.Exec(
		`INSERT INTO checkins (id, habit_id, date_key, count, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		checkin.ID, checkin.HabitID, checkin.DateKey, checkin.Count, checkin.CreatedAt, checkin.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert checkin: %w", err)
	}
	return &checkin, nil
}

// IncrementCheckin bumps the day's count by one and returns the new row.
func (s *CheckinService) IncrementCheckin(habitID, dateKey string) (*models.Checkin, error) {
	existing, err := s.GetCheckin(habitID, dateKey)
	if err != nil {
		return nil, err
	}

	count := 1
	if existing != nil {
		count = existing.Count + 1
	}
	return s.UpsertCheckin(habitID, dateKey, count)
}

// RemoveCheckin deletes a single check-in row by id.
func (s *CheckinService) RemoveCheckin(id string) error {
	if _, err := s.db.Exec(`DELETE FROM checkins WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove checkin: %w", err)
	}
	return nil
}
