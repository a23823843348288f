package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"

	"github.com/fiberwatch/fiberwatch/internal/bot"
	"github.com/fiberwatch/fiberwatch/internal/config"
	"github.com/fiberwatch/fiberwatch/internal/database"
	"github.com/fiberwatch/fiberwatch/internal/handlers"
	"github.com/fiberwatch/fiberwatch/internal/ingest"
	"github.com/fiberwatch/fiberwatch/internal/middleware"
	"github.com/fiberwatch/fiberwatch/internal/services"
	"github.com/fiberwatch/fiberwatch/internal/sla"
	slackutil "github.com/fiberwatch/fiberwatch/internal/slack"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it (this is fine if using environment variables): %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting FiberWatch SLA service...")

	// Initialize JWT authentication middleware
	if cfg.AdminPassword == "" {
		log.Fatalf("ADMIN_PASSWORD is not set")
	}

	passwordHash, err := middleware.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	jwtAuthMiddleware := middleware.NewJWTAuthMiddleware(&middleware.JWTAuthConfig{
		Enabled:           true,
		AdminUsername:     cfg.AdminUsername,
		AdminPasswordHash: passwordHash,
		JWTSecret:         cfg.JWTSecret,
		JWTExpiryHours:    cfg.JWTExpiryHours,
		SkipPaths: []string{
			"/health",
			"/auth/login",
		},
	})
	log.Printf("JWT authentication enabled for user: %s", cfg.AdminUsername)

	// Initialize database connection
	if err := database.Connect(cfg.DatabaseURL, logger.Warn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Printf("Database connection established")

	// Run database migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	db := database.GetDB()

	// Initialize services
	slaOptions := sla.Options{
		MergeGap:    cfg.MergeGap(),
		MinDowntime: cfg.MinDowntime(),
		Location:    cfg.Location,
	}
	reportService := services.NewReportService(db, slaOptions)
	catalogService := services.NewCatalogService(db)
	fiberService := services.NewFiberService(db)
	log.Printf("SLA engine configured: merge gap %s, min downtime %s, timezone %s",
		cfg.MergeGap(), cfg.MinDowntime(), cfg.DefaultTimezone)

	// Seed the service catalog from YAML if configured
	if cfg.ServicesFile != "" {
		seed, err := ingest.LoadCatalogYAML(cfg.ServicesFile)
		if err != nil {
			log.Fatalf("Failed to load services file %s: %v", cfg.ServicesFile, err)
		}
		if err := catalogService.Sync(seed); err != nil {
			log.Fatalf("Failed to sync service catalog: %v", err)
		}
		log.Printf("Service catalog synced from %s (%d services)", cfg.ServicesFile, len(seed))
	}

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(reportService, catalogService, fiberService)
	authHandler := handlers.NewAuthHandler(jwtAuthMiddleware, cfg.JWTExpiryHours)

	// Optional Slack notifications for generated reports
	if notifier := slackutil.NewNotifier(cfg.SlackBotToken, cfg.SlackReportChannel); notifier != nil {
		apiHandler.SetNotifier(notifier)
		log.Printf("Slack notifications enabled for channel %s", cfg.SlackReportChannel)
	} else {
		log.Printf("Slack notifications disabled (set SLACK_BOT_TOKEN and SLACK_REPORT_CHANNEL to enable)")
	}

	// Set up HTTP server routes
	mux := http.NewServeMux()
	apiHandler.SetupRoutes(mux)
	authHandler.SetupRoutes(mux)

	// Middleware chain: request ID, then CORS, then JWT authentication
	corsMiddleware := middleware.NewCORSMiddleware() // Allow all origins
	rootHandler := middleware.RequestIDMiddleware(corsMiddleware.Wrap(jwtAuthMiddleware.Wrap(mux)))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: rootHandler,
	}

	go func() {
		log.Printf("Starting HTTP server on port %d", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	ctx, ctxCancel := context.WithCancel(context.Background())
	defer ctxCancel()

	// Optional Telegram bot for chat-side report queries
	if cfg.TelegramBotToken != "" {
		reportBot, err := bot.New(cfg.TelegramBotToken, reportService)
		if err != nil {
			log.Fatalf("Failed to start Telegram bot: %v", err)
		}
		go reportBot.Run(ctx)
	} else {
		log.Printf("Telegram bot disabled (set TELEGRAM_BOT_TOKEN to enable)")
	}

	log.Printf("Health check endpoint: http://localhost:%d/health", cfg.HTTPPort)
	log.Printf("API base URL: http://localhost:%d/api", cfg.HTTPPort)

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Received shutdown signal, cleaning up...")
	ctxCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}
	log.Println("Shutdown complete")
}
