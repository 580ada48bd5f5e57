package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tahcohcat/habitquest-web/internal/database"
	"github.com/tahcohcat/habitquest-web/internal/models"
)

// JournalService owns daily journal entries, unique per day key.
type JournalService struct {
	db *database.DB
}

func NewJournalService(db *database.DB) *JournalService {
	return &JournalService{db: db}
}

type journalRow struct {
	ID        string    `db:"id"`
	DateKey   string    `db:"date_key"`
	Mood      int       `db:"mood"`
	Energy    int       `db:"energy"`
	Notes     *string   `db:"notes"`
	HabitIDs  string    `db:"habit_ids"`
	Tags      string    `db:"tags"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r journalRow) toModel() models.JournalEntry {
	entry := models.JournalEntry{
		ID:        r.ID,
		DateKey:   r.DateKey,
		Mood:      r.Mood,
		Energy:    r.Energy,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(r.HabitIDs), &entry.HabitIDs); err != nil {
		entry.HabitIDs = []string{}
	}
	if err := json.Unmarshal([]byte(r.Tags), &entry.Tags); err != nil {
		entry.Tags = []string{}
	}
	return entry
}

const journalColumns = `id, date_key, mood, energy, notes, habit_ids, tags, created_at, updated_at`

// GetEntry returns the entry for a day key, or nil when the day has no entry.
func (s *JournalService) GetEntry(dateKey string) (*models.JournalEntry, error) {
	var row journalRow
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE date_key = ?`
	err := s.db.Get(&row, query, dateKey)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}

	entry := row.toModel()
	return &entry, nil
}

// GetEntries returns all journal entries, newest day first.
func (s *JournalService) GetEntries() ([]models.JournalEntry, error) {
	var rows []journalRow
	query := `SELECT ` + journalColumns + ` FROM journal_entries ORDER BY date_key DESC`
	if err := s.db.Select(&rows, query); err != nil {
		return nil, fmt.Errorf("failed to get journal entries: %w", err)
	}

	entries := make([]models.JournalEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toModel())
	}
	return entries, nil
}

// UpsertEntry writes the day's entry, replacing an existing one for the
// same day key.
func (s *JournalService) UpsertEntry(input *models.JournalInput) (*models.JournalEntry, error) {
	if input.DateKey == "" {
		return nil, fmt.Errorf("journal date key is required")
	}
	if input.Mood < 0 || input.Mood > 100 {
		return nil, fmt.Errorf("mood must be between 0 and 100, got %d", input.Mood)
	}
	if input.Energy < 0 || input.Energy > 100 {
		return nil, fmt.Errorf("energy must be between 0 and 100, got %d", input.Energy)
	}

	habitIDs := input.HabitIDs
	if habitIDs == nil {
		habitIDs = []string{}
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	rawHabitIDs, _ := json.Marshal(habitIDs)
	rawTags, _ := json.Marshal(tags)

	existing, err := s.GetEntry(input.DateKey)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if existing != nil {
		query := `
			UPDATE journal_entries
			SET mood = ?, energy = ?, notes = ?, habit_ids = ?, tags = ?, updated_at = ?
			WHERE id = ?
		`
		_, err := s.db.Exec(query, input.Mood, input.Energy, input.Notes,
			string(rawHabitIDs), string(rawTags), now, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update journal entry: %w", err)
		}
		existing.Mood = input.Mood
		existing.Energy = input.Energy
		existing.Notes = input.Notes
		existing.HabitIDs = habitIDs
		existing.Tags = tags
		existing.UpdatedAt = now
		return existing, nil
	}

	entry := models.JournalEntry{
		ID:        uuid.New().String(),
		DateKey:   input.DateKey,
		Mood:      input.Mood,
		Energy:    input.Energy,
		Notes:     input.Notes,
		HabitIDs:  habitIDs,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	query := `
		INSERT INTO journal_entries (id, date_key, mood, energy, notes, habit_ids, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.Exec(query, entry.ID, entry.DateKey, entry.Mood, entry.Energy,
		entry.Notes, string(rawHabitIDs), string(rawTags), entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return &entry, nil
}
