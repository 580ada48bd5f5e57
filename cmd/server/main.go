// cmd/server/main.go
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/tahcohcat/habitquest-web/config"
	"github.com/tahcohcat/habitquest-web/internal/api"
	"github.com/tahcohcat/habitquest-web/internal/auth"
	"github.com/tahcohcat/habitquest-web/internal/database"
	"github.com/tahcohcat/habitquest-web/internal/logger"
	"github.com/tahcohcat/habitquest-web/internal/services"
	"github.com/tahcohcat/habitquest-web/internal/websocket"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Error("failed to load config")
		os.Exit(1)
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.WithError(err).Error("failed to initialize database")
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Demo.Seed {
		if err := services.SeedDemoData(db); err != nil {
			log.WithError(err).Warn("demo seeding failed")
		}
	}

	userService := services.NewUserService(db)
	auth.Init(userService)

	r := mux.NewRouter()

	// Public routes (no authentication required)
	r.HandleFunc("/register", auth.RegisterHandler).Methods("POST")
	r.HandleFunc("/login", auth.LoginHandler).Methods("POST")
	r.HandleFunc("/logout", auth.LogoutHandler).Methods("POST")

	// Authenticated routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(auth.AuthMiddleware)
	authRouter.HandleFunc("/profile", auth.ProfileHandler).Methods("GET", "POST")

	// Live gamification events
	hub := websocket.RegisterRoutes(authRouter)

	// API routes
	apiRouter := authRouter.PathPrefix("/api/v1").Subrouter()
	api.RegisterRoutes(apiRouter, api.NewHandler(db, hub))

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	log.Info(fmt.Sprintf("🌱 HabitQuest server starting on port %s", port))
	log.Info(fmt.Sprintf("🗄️  Database: %s", cfg.Database.Path))

	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
