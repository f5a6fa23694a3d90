// backend/main.go
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/ktnaka/anpi/backend/config"
	"github.com/ktnaka/anpi/backend/database"
	"github.com/ktnaka/anpi/backend/handlers"
	"github.com/ktnaka/anpi/backend/services"
)

func main() {
	log.Println("Starting safety check-in backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment.")
	}

	configPath, err := config.FindConfigFile()
	if err != nil {
		log.Fatalf("Config file not found: %v", err)
	}
	if err := config.LoadConfig(configPath); err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.Printf("Configuration loaded. Server port: %s, DB name: %s, backup dir: %s",
		config.AppConfig.Server.Port, config.AppConfig.Database.DBName, config.AppConfig.Backup.Dir)
	if config.AppConfig.Admin.Password == "" {
		log.Println("WARN: ADMIN_PASSWORD is not set; admin endpoints will refuse all requests.")
	}

	services.InitClock(config.AppConfig.Checkin.Timezone)

	if err := database.InitDB(config.AppConfig.Database); err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer database.CloseDB()
	if err := database.InitSchema(); err != nil {
		log.Fatalf("Error initializing schema: %v", err)
	}

	r := chi.NewRouter()

	r.Get("/api/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.DB.Ping(); err != nil {
			http.Error(w, `{"status": "error", "message": "database connection error"}`, http.StatusInternalServerError)
			log.Printf("Health check failed: DB ping error: %v", err)
			return
		}
		fmt.Fprintln(w, `{"status": "ok", "message": "safety check-in backend is healthy"}`)
	})

	// Participant side: QR scans land here.
	r.Get("/checkin", handlers.CheckinHandler)

	// QR card issuing.
	r.Get("/api/qr/image", handlers.QRImageHandler)
	r.Post("/api/qr/cards", handlers.QRCardsHandler)

	// Admin side, behind the shared secret.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(handlers.RequireAdmin)
		r.Get("/history", handlers.AdminHistoryHandler)
		r.Post("/delete", handlers.DeleteByIDsHandler)
		r.Post("/delete-before", handlers.DeleteBeforeHandler)
		r.Post("/delete-all", handlers.DeleteAllHandler)
		r.Get("/deletions", handlers.DeletionLogHandler)
		r.Get("/export", handlers.ExportHandler)
	})

	serverAddr := ":" + config.AppConfig.Server.Port
	log.Printf("Server starting on http://localhost%s\n", serverAddr)
	if err := http.ListenAndServe(serverAddr, r); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
