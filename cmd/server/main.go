package main

import (
	"log"
	"os"
	"time"

	"pulse/internal/db"
	"pulse/internal/handlers"
	"pulse/internal/middleware"
	"pulse/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	// Initialize Database
	db.Init()

	if os.Getenv("SEED_DEMO") == "1" {
		db.SeedDemo()
	}

	// Live feed event hub
	hub := ws.NewHub()
	go hub.Run()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("pulse_session", store))

	// CORS for the SPA frontend
	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:5173"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// One content write per 3 seconds per IP
	limiter := middleware.NewIPRateLimiter(rate.Every(3*time.Second), 1)

	handlers.SetupRoutes(r, hub, limiter)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Pulse server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
