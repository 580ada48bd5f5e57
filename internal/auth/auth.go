package auth

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/spf13/viper"
	"github.com/tahcohcat/habitquest-web/internal/logger"
	"github.com/tahcohcat/habitquest-web/internal/models"
	"github.com/tahcohcat/habitquest-web/internal/services"
)

const sessionName = "habitquest-session"

var (
	Store       *sessions.CookieStore
	userService *services.UserService
)

// Init sets up the session store and the user service the handlers use.
func Init(users *services.UserService) {
	Store = sessions.NewCookieStore([]byte(viper.GetString("auth.session_secret")))
	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
	}
	userService = users
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// RegisterHandler creates a new account and starts a session.
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := userService.CreateUser(&req)
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	startSession(w, r, user.ID)
	writeJSON(w, http.StatusCreated, user)
}

// LoginHandler validates credentials and starts a session.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := userService.AuthenticateUser(&req)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	startSession(w, r, user.ID)
	writeJSON(w, http.StatusOK, user)
}

// LogoutHandler ends the session.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, sessionName)
	session.Values["authenticated"] = false
	delete(session.Values, "user_id")
	session.Save(r, w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ProfileHandler returns or updates the signed-in user's profile.
func ProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromSession(r)
	if userID == 0 {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	if r.Method == http.MethodPost {
		var req models.ProfileUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		user, err := userService.UpdateProfile(userID, &req)
		if err != nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, user)
		return
	}

	user, err := userService.GetUserByID(userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func startSession(w http.ResponseWriter, r *http.Request, userID int) {
	session, _ := Store.Get(r, sessionName)
	session.Values["authenticated"] = true
	session.Values["user_id"] = userID
	if err := session.Save(r, w); err != nil {
		logger.New().WithError(err).Warn("failed to save session")
	}
}

// GetUserIDFromSession returns the signed-in user id, or 0 when the
// request has no authenticated session.
func GetUserIDFromSession(r *http.Request) int {
	session, err := Store.Get(r, sessionName)
	if err != nil {
		return 0
	}
	if auth, ok := session.Values["authenticated"].(bool); !ok || !auth {
		return 0
	}
	if id, ok := session.Values["user_id"].(int); ok {
		return id
	}
	return 0
}

// AuthMiddleware rejects requests without an authenticated session.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserIDFromSession(r) == 0 {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
