package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"

	_ "github.com/tasknest/tasknest/docs" // Swagger docs (generated)
	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/database"
	httpServer "github.com/tasknest/tasknest/internal/http"
	"github.com/tasknest/tasknest/internal/logging"
	"github.com/tasknest/tasknest/internal/task"
	"github.com/tasknest/tasknest/internal/user"
)

// @title           TaskNest API
// @version         1.0
// @description     A multi-user task API with bearer-token authentication and per-owner task isolation.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Ensure tables exist
	if err := database.CreateSchema(context.Background(), db); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Initialize repositories
	userRepo := user.NewRepository(db)
	taskRepo := task.NewRepository(db)

	// Initialize PASETO service
	pasetoService, err := auth.NewPasetoService(cfg.Auth.PasetoKey)
	if err != nil {
		return fmt.Errorf("failed to initialize PASETO service: %w", err)
	}

	// Initialize services
	authService := auth.NewService(userRepo, pasetoService, cfg.Auth.AccessTokenDuration)
	taskService := task.NewService(taskRepo)

	// Initialize HTTP handlers
	authHandler := auth.NewHandler(authService)
	taskHandler := task.NewHandler(taskService)
	authMiddleware := auth.NewMiddleware(pasetoService, userRepo)

	// Initialize router
	router := httpServer.NewRouter(cfg, authHandler, taskHandler, authMiddleware, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}
