package main

import (
	"fmt"
	"html/template"
	"log"

	"sainiksetu/internal/config"
	"sainiksetu/internal/database"
	"sainiksetu/internal/email"
	"sainiksetu/internal/handlers"
	"sainiksetu/internal/logger"
	"sainiksetu/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg := config.Load()
	logger.Initialize(logger.INFO, cfg.IsDevelopment())

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Seed before the listener starts so no request ever races the
	// initial data load.
	if err := database.Seed(db, cfg); err != nil {
		log.Fatal("Failed to seed database:", err)
	}

	emailService := email.NewService(cfg)
	if emailService.IsEnabled() {
		log.Println("Email service enabled with Mailgun")
	} else {
		log.Println("Email service disabled - Mailgun not configured")
	}

	r := gin.Default()

	r.SetFuncMap(template.FuncMap{
		"money": func(v float64) string {
			return fmt.Sprintf("₹%.2f", v)
		},
	})
	r.LoadHTMLGlob("templates/*.html")

	r.Use(middleware.RateLimit(cfg))

	handlers.SetupRoutes(r, db, cfg, emailService)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(r.Run(":" + cfg.Port))
}
