package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/tahcohcat/habitquest-web/internal/database"
	"github.com/tahcohcat/habitquest-web/internal/dateutil"
	"github.com/tahcohcat/habitquest-web/internal/logger"
	"github.com/tahcohcat/habitquest-web/internal/models"
	"github.com/tahcohcat/habitquest-web/internal/services"
)

// Handler bundles the services behind the /api/v1 surface.
type Handler struct {
	habits       *services.HabitService
	checkins     *services.CheckinService
	journal      *services.JournalService
	achievements *services.AchievementService
	challenges   *services.ChallengeService
	gamification *services.GamificationService

	log *logger.Log
}

func NewHandler(db *database.DB, events services.EventPublisher) *Handler {
	return &Handler{
		habits:       services.NewHabitService(db),
		checkins:     services.NewCheckinService(db),
		journal:      services.NewJournalService(db),
		achievements: services.NewAchievementService(db),
		challenges:   services.NewChallengeService(db),
		gamification: services.NewGamificationService(db, events),
		log:          logger.New(),
	}
}

// RegisterRoutes wires the API onto an (authenticated) subrouter.
func RegisterRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/habits", h.ListHabits).Methods("GET")
	r.HandleFunc("/habits", h.CreateHabit).Methods("POST")
	r.HandleFunc("/habits/suggestions", h.SuggestHabits).Methods("GET")
	r.HandleFunc("/habits/{id}", h.GetHabit).Methods("GET")
	r.HandleFunc("/habits/{id}", h.UpdateHabit).Methods("PUT")
	r.HandleFunc("/habits/{id}", h.DeleteHabit).Methods("DELETE")
	r.HandleFunc("/habits/{id}/checkin", h.CompleteCheckin).Methods("POST")
	r.HandleFunc("/habits/{id}/stats", h.HabitStats).Methods("GET")

	r.HandleFunc("/journal", h.ListJournalEntries).Methods("GET")
	r.HandleFunc("/journal/{dateKey}", h.GetJournalEntry).Methods("GET")
	r.HandleFunc("/journal/{dateKey}", h.SaveJournalEntry).Methods("PUT")

	r.HandleFunc("/insights/heatmap", h.Heatmap).Methods("GET")
	r.HandleFunc("/achievements", h.ListAchievements).Methods("GET")
	r.HandleFunc("/level", h.LevelSnapshot).Methods("GET")

	registerChallengeRoutes(r, h)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// GET /api/v1/habits
func (h *Handler) ListHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := h.habits.GetHabits()
	if err != nil {
		h.log.WithError(err).Error("failed to list habits")
		respondError(w, http.StatusInternalServerError, "failed to list habits")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"habits": habits})
}

// POST /api/v1/habits
func (h *Handler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	var req models.CreateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	habit, err := h.habits.CreateHabit(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, habit)
}

// GET /api/v1/habits/{id}
func (h *Handler) GetHabit(w http.ResponseWriter, r *http.Request) {
	habit, err := h.habits.GetHabitByID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "habit not found")
		return
	}
	respondJSON(w, http.StatusOK, habit)
}

// PUT /api/v1/habits/{id}
func (h *Handler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	var req models.CreateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	habit, err := h.habits.UpdateHabit(mux.Vars(r)["id"], &req)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, habit)
}

// DELETE /api/v1/habits/{id}
func (h *Handler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := h.habits.DeleteHabit(mux.Vars(r)["id"]); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// GET /api/v1/habits/suggestions?q=
func (h *Handler) SuggestHabits(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	suggestions := h.habits.SuggestTemplates(r.URL.Query().Get("q"), limit)
	respondJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

// POST /api/v1/habits/{id}/checkin
//
// Logs one completion for today (or the date_key in the body) and runs
// the full gamification pass. The response carries everything the UI
// shows after the tap: XP gained, the level snapshot and any unlocks.
func (h *Handler) CompleteCheckin(w http.ResponseWriter, r *http.Request) {
	habit, err := h.habits.GetHabitByID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "habit not found")
		return
	}

	var req struct {
		DateKey string `json:"date_key"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req) // body is optional
	}
	dateKey := req.DateKey
	if dateKey == "" {
		dateKey = h.gamification.TodayKey()
	}

	checkin, err := h.checkins.IncrementCheckin(habit.ID, dateKey)
	if err != nil {
		h.log.WithError(err).Error("failed to record checkin")
		respondError(w, http.StatusInternalServerError, "failed to record checkin")
		return
	}

	result, err := h.gamification.HandleCheckinComplete(habit)
	if err != nil {
		h.log.WithError(err).Error("gamification pass failed")
		respondError(w, http.StatusInternalServerError, "failed to process checkin")
		return
	}

	h.log.Info(fmt.Sprintf("checkin %s day %s: +%d xp", habit.Name, dateKey, result.XPGained))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"checkin": checkin,
		"result":  result,
	})
}

// GET /api/v1/habits/{id}/stats
func (h *Handler) HabitStats(w http.ResponseWriter, r *http.Request) {
	habit, err := h.habits.GetHabitByID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "habit not found")
		return
	}

	stats, err := h.gamification.StreakStatsForHabit(habit)
	if err != nil {
		h.log.WithError(err).Error("failed to compute streak stats")
		respondError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GET /api/v1/journal
func (h *Handler) ListJournalEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.journal.GetEntries()
	if err != nil {
		h.log.WithError(err).Error("failed to list journal entries")
		respondError(w, http.StatusInternalServerError, "failed to list journal entries")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// GET /api/v1/journal/{dateKey}
func (h *Handler) GetJournalEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.journal.GetEntry(mux.Vars(r)["dateKey"])
	if err != nil {
		h.log.WithError(err).Error("failed to get journal entry")
		respondError(w, http.StatusInternalServerError, "failed to get journal entry")
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, "no entry for that day")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// PUT /api/v1/journal/{dateKey}
func (h *Handler) SaveJournalEntry(w http.ResponseWriter, r *http.Request) {
	var input models.JournalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input.DateKey = mux.Vars(r)["dateKey"]

	entry, err := h.journal.UpsertEntry(&input)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	unlocks, err := h.gamification.HandleJournalSaved()
	if err != nil {
		h.log.WithError(err).Error("achievement evaluation failed after journal save")
		respondError(w, http.StatusInternalServerError, "failed to process journal entry")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"entry":        entry,
		"achievements": unlocks,
	})
}

// GET /api/v1/insights/heatmap?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handler) Heatmap(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		// Default to the trailing 30-day window.
		today := dateutil.ParseDayKey(h.gamification.TodayKey())
		end = dateutil.ToDayKey(today)
		start = dateutil.ToDayKey(dateutil.AddDays(today, -29))
	}

	checkins, err := h.checkins.GetCheckinsForDateRange(start, end)
	if err != nil {
		h.log.WithError(err).Error("failed to load heatmap range")
		respondError(w, http.StatusInternalServerError, "failed to load heatmap")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"start":    start,
		"end":      end,
		"checkins": checkins,
	})
}

// GET /api/v1/achievements
func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	records, err := h.achievements.GetAchievements()
	if err != nil {
		h.log.WithError(err).Error("failed to list achievements")
		respondError(w, http.StatusInternalServerError, "failed to list achievements")
		return
	}

	unlocked := make(map[string]*models.Achievement, len(records))
	for i := range records {
		unlocked[records[i].Type] = &records[i]
	}

	// The full catalog with per-type unlock state, in catalog order.
	type achievementView struct {
		ID          string              `json:"id"`
		Title       string              `json:"title"`
		Description string              `json:"description"`
		Unlocked    bool                `json:"unlocked"`
		Record      *models.Achievement `json:"record,omitempty"`
	}

	views := make([]achievementView, 0, len(services.AchievementCatalog()))
	for _, def := range services.AchievementCatalog() {
		record := unlocked[def.ID]
		views = append(views, achievementView{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Unlocked:    record != nil && record.UnlockedAt != nil,
			Record:      record,
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"achievements": views})
}

// GET /api/v1/level
func (h *Handler) LevelSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.gamification.LevelSnapshot()
	if err != nil {
		h.log.WithError(err).Error("failed to read level snapshot")
		respondError(w, http.StatusInternalServerError, "failed to read level")
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}
