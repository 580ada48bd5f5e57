package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/tahcohcat/habitquest-web/internal/models"
)

func registerChallengeRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/challenges", h.ListChallenges).Methods("GET")
	r.HandleFunc("/challenges", h.CreateChallenge).Methods("POST")
	r.HandleFunc("/challenges/join", h.JoinChallenge).Methods("POST")
	r.HandleFunc("/challenges/{id}", h.GetChallenge).Methods("GET")
	r.HandleFunc("/challenges/{id}/members/{memberId}/progress", h.UpdateChallengeProgress).Methods("POST")
	r.HandleFunc("/challenges/{id}/sync", h.SyncChallengeProgress).Methods("POST")
}

// GET /api/v1/challenges
func (h *Handler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.challenges.GetChallenges()
	if err != nil {
		h.log.WithError(err).Error("failed to list challenges")
		respondError(w, http.StatusInternalServerError, "failed to list challenges")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"challenges": challenges})
}

// POST /api/v1/challenges
func (h *Handler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		models.CreateChallengeRequest
		SelfName string `json:"self_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SelfName == "" {
		req.SelfName = "Me"
	}

	challenge, err := h.challenges.CreateChallenge(&req.CreateChallengeRequest, req.SelfName)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, challenge)
}

// GET /api/v1/challenges/{id}
func (h *Handler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	challenge, err := h.challenges.GetChallengeByID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "challenge not found")
		return
	}

	members, err := h.challenges.GetMembers(challenge.ID)
	if err != nil {
		h.log.WithError(err).Error("failed to load challenge members")
		respondError(w, http.StatusInternalServerError, "failed to load members")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"challenge": challenge,
		"members":   members,
	})
}

// POST /api/v1/challenges/join {"code": "...", "name": "..."}
func (h *Handler) JoinChallenge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	challenge, member, err := h.challenges.JoinByCode(req.Code, req.Name)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"challenge": challenge,
		"member":    member,
	})
}

// POST /api/v1/challenges/{id}/members/{memberId}/progress {"progress": n}
func (h *Handler) UpdateChallengeProgress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Progress int `json:"progress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vars := mux.Vars(r)
	if err := h.challenges.UpdateMemberProgress(vars["id"], vars["memberId"], req.Progress); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// POST /api/v1/challenges/{id}/sync — recompute the self member's
// progress from the linked habits' current streaks.
func (h *Handler) SyncChallengeProgress(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.challenges.SyncSelfProgress(id, time.Now()); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	members, err := h.challenges.GetMembers(id)
	if err != nil {
		h.log.WithError(err).Error("failed to load challenge members")
		respondError(w, http.StatusInternalServerError, "failed to load members")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}
