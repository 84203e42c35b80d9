package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "toolcrib-backend/internal/api/http"
	"toolcrib-backend/internal/config"
	"toolcrib-backend/internal/dispatcher"
	"toolcrib-backend/internal/logger"
	"toolcrib-backend/internal/repository/postgres"
	"toolcrib-backend/internal/security"
	"toolcrib-backend/internal/service"
	"toolcrib-backend/migrations"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Toolcrib Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Apply schema migrations
	if err := migrations.Run(db); err != nil {
		logger.Error("Failed to apply migrations", "error", err)
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	logger.Info("Schema migrations applied")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Event Hub
	hub := dispatcher.NewHub(cfg.Dispatch.SubscriberBuffer)

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	toolSvc := service.NewToolService(
		store.ToolRepository,
		store.UserRepository,
		store.UsageRepository,
		store.NotificationRepository,
		hub,
	)
	orderSvc := service.NewOrderService(
		store.OrderRepository,
		store.ToolRepository,
		store.UserRepository,
		store.NotificationRepository,
		hub,
	)
	usageSvc := service.NewUsageService(store.UsageRepository)
	dashboardSvc := service.NewDashboardService(
		store.ToolRepository,
		store.OrderRepository,
		store.UsageRepository,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.RouterDeps{
		AuthService:         authSvc,
		ToolService:         toolSvc,
		OrderService:        orderSvc,
		UsageService:        usageSvc,
		DashboardService:    dashboardSvc,
		NotificationService: noteSvc,
		UserRepo:            store.UserRepository,
		Tokens:              tokenManager,
		Hub:                 hub,
		AllowedOrigins:      cfg.Server.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket connections stay open
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
