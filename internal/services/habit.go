package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/closestmatch"
	"github.com/tahcohcat/habitquest-web/internal/database"
	"github.com/tahcohcat/habitquest-web/internal/models"
)

// habitTemplates are the preset suggestions offered while creating a habit.
var habitTemplates = []models.HabitSuggestion{
	{Name: "Morning sunlight", Icon: "sun", Color: "#F6C36A"},
	{Name: "Drink water", Icon: "droplet", Color: "#5AA6FF"},
	{Name: "Exercise", Icon: "activity", Color: "#FF8B7A"},
	{Name: "Read", Icon: "book", Color: "#7B6CFF"},
	{Name: "No coffee after noon", Icon: "coffee", Color: "#F472B6"},
	{Name: "Gratitude", Icon: "heart", Color: "#2EC4B6"},
	{Name: "Eat greens", Icon: "leaf", Color: "#22C55E"},
	{Name: "Sleep by 11", Icon: "moon", Color: "#8B5CF6"},
	{Name: "Check in with a friend", Icon: "smile", Color: "#0EA5E9"},
	{Name: "Stretch", Icon: "zap", Color: "#4FD1B5"},
	{Name: "Breathing practice", Icon: "wind", Color: "#5AA6FF"},
}

type HabitService struct {
	db      *database.DB
	matcher *closestmatch.ClosestMatch
}

func NewHabitService(db *database.DB) *HabitService {
	names := make([]string, 0, len(habitTemplates))
	for _, tpl := range habitTemplates {
		names = append(names, tpl.Name)
	}

	return &HabitService{
		db:      db,
		matcher: closestmatch.New(names, []int{2, 3}),
	}
}

// habitRow is the raw table shape; schedule columns hold JSON text.
type habitRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Icon          string    `db:"icon"`
	Color         string    `db:"color"`
	ScheduleDays  string    `db:"schedule_days"`
	ScheduleTimes string    `db:"schedule_times"`
	Target        int       `db:"target"`
	ReminderTime  *string   `db:"reminder_time"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r habitRow) toModel() models.Habit {
	habit := models.Habit{
		ID:           r.ID,
		Name:         r.Name,
		Icon:         r.Icon,
		Color:        r.Color,
		Target:       r.Target,
		ReminderTime: r.ReminderTime,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	// Corrupt schedule JSON degrades to an empty schedule rather than
	// failing the read.
	if err := json.Unmarshal([]byte(r.ScheduleDays), &habit.Schedule.Days); err != nil {
		habit.Schedule.Days = []int{}
	}
	if err := json.Unmarshal([]byte(r.ScheduleTimes), &habit.Schedule.Times); err != nil {
		habit.Schedule.Times = nil
	}
	return habit
}

func marshalSchedule(schedule models.HabitSchedule) (string, string) {
	days := schedule.Days
	if days == nil {
		days = []int{}
	}
	times := schedule.Times
	if times == nil {
		times = []string{}
	}
	rawDays, _ := json.Marshal(days)
	rawTimes, _ := json.Marshal(times)
	return string(rawDays), string(rawTimes)
}

// CreateHabit creates a new habit definition.
func (s *HabitService) CreateHabit(req *models.CreateHabitRequest) (*models.Habit, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("habit name is required")
	}
	if req.Target < 1 {
		req.Target = 1
	}

	now := time.Now()
	habit := models.Habit{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Icon:         req.Icon,
		Color:        req.Color,
		Schedule:     req.Schedule,
		Target:       req.Target,
		ReminderTime: req.ReminderTime,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	days, times := marshalSchedule(habit.Schedule)
	query := `
		INSERT INTO habits (id, name, icon, color, schedule_days, schedule_times, target, reminder_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query, habit.ID, habit.Name, habit.Icon, habit.Color,
		days, times, habit.Target, habit.ReminderTime, habit.CreatedAt, habit.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}
	return &habit, nil
}

// GetHabits returns all habit definitions, newest first.
func (s *HabitService) GetHabits() ([]models.Habit, error) {
	var rows []habitRow
	query := `
		SELECT id, name, icon, color, schedule_days, schedule_times, target, reminder_time, created_at, updated_at
		FROM habits
		ORDER BY created_at DESC
	`
	if err := s.db.Select(&rows, query); err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}

	habits := make([]models.Habit, 0, len(rows))
	for _, row := range rows {
		habits = append(habits, row.toModel())
	}
	return habits, nil
}

// GetHabitByID returns a single habit.
func (s *HabitService) GetHabitByID(id string) (*models.Habit, error) {
	var row habitRow
	query := `
		SELECT id, name, icon, color, schedule_days, schedule_times, target, reminder_time, created_at, updated_at
		FROM habits WHERE id = ?
	`
	err := s.db.Get(&row, query, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("habit not found")
	} else if err != nil {
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	habit := row.toModel()
	return &habit, nil
}

// UpdateHabit replaces the editable fields of a habit.
func (s *HabitService) UpdateHabit(id string, req *models.CreateHabitRequest) (*models.Habit, error) {
	habit, err := s.GetHabitByID(id)
	if err != nil {
		return nil, err
	}

	habit.Name = req.Name
	habit.Icon = req.Icon
	habit.Color = req.Color
	habit.Schedule = req.Schedule
	if req.Target >= 1 {
		habit.Target = req.Target
	}
	habit.ReminderTime = req.ReminderTime
	habit.UpdatedAt = time.Now()

	days, times := marshalSchedule(habit.Schedule)
	query := `
		UPDATE habits
		SET name = ?, icon = ?, color = ?, schedule_days = ?, schedule_times = ?, target = ?, reminder_time = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = s.db.Exec(query, habit.Name, habit.Icon, habit.Color, days, times,
		habit.Target, habit.ReminderTime, habit.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}
	return habit, nil
}

// DeleteHabit removes a habit; its check-ins cascade away with it.
func (s *HabitService) DeleteHabit(id string) error {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("habit not found")
	}
	return nil
}

// SuggestTemplates fuzzy-matches preset habit templates against a query.
// An empty query returns the full template list.
func (s *HabitService) SuggestTemplates(query string, limit int) []models.HabitSuggestion {
	if limit <= 0 || limit > len(habitTemplates) {
		limit = len(habitTemplates)
	}
	if strings.TrimSpace(query) == "" {
		return habitTemplates[:limit]
	}

	matches := s.matcher.ClosestN(query, limit)
	suggestions := make([]models.HabitSuggestion, 0, len(matches))
	for _, name := range matches {
		for _, tpl := range habitTemplates {
			if tpl.Name == name {
				suggestions = append(suggestions, tpl)
				break
			}
		}
	}
	return suggestions
}
