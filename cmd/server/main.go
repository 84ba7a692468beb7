// Package main is the entry point for the rental housing tribunal case desk.
// It serves the public complaint intake wizard and the staff review dashboard
// over a JSON API.
//
// Architecture:
//   - Complaints live in PostgreSQL with one JSONB column per form section
//   - Wizard sessions are parked in Redis between requests, locked per session
//   - A submitted complaint is inserted exactly once; the session keeps the
//     confirmation so repeat submits are rejected
//
// Without DATABASE_URL or REDIS_URL the server falls back to in-process
// stores, which is only allowed outside production.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rht/casedesk/internal/config"
	"github.com/rht/casedesk/internal/database"
	"github.com/rht/casedesk/internal/handlers"
	"github.com/rht/casedesk/internal/services"
	"github.com/rht/casedesk/internal/wizard"
	"go.uber.org/zap"
)

// complaintStore is what the server needs from a complaints repository
type complaintStore interface {
	wizard.Inserter
	services.CaseReader
	handlers.Pinger
}

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	if os.Getenv("ENVIRONMENT") == "development" {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("Failed to load config: %v", err)
	}

	sugar.Infow("Starting case desk server",
		"port", cfg.Port,
		"env", cfg.Environment,
		"timezone", cfg.Timezone,
		"sample_data", cfg.SampleData,
	)

	ctx := context.Background()
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	// Complaints store
	var store complaintStore
	if cfg.DatabaseURL != "" {
		db, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			sugar.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if cfg.AutoMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				sugar.Fatalf("Failed to migrate database: %v", err)
			}
			sugar.Info("Database schema is up to date")
		}
		store = database.NewComplaintRepository(db, cfg.Location, sugar)
	} else {
		sugar.Warn("DATABASE_URL not set, complaints are kept in memory")
		store = database.NewMemoryRepository(cfg.Location)
	}

	// Intake session store
	var sessions services.SessionStore
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			sugar.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			sugar.Fatalf("Failed to connect to redis: %v", err)
		}
		sessions = services.NewRedisSessionStore(rdb, cfg.SessionTTL)
	} else {
		sugar.Warn("REDIS_URL not set, intake sessions are kept in memory")
		mem := services.NewMemorySessionStore(cfg.SessionTTL)
		go services.NewSessionSweeper(mem, sugar).Start(workerCtx, 5*time.Minute)
		sessions = mem
	}

	// Initialize services
	intakeSvc := services.NewIntakeService(sessions, store, cfg.SampleData, sugar)
	caseSvc := services.NewCaseService(store, cfg.Location, sugar)

	// Initialize handlers
	router := handlers.NewRouter(
		handlers.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			RateLimitRPM:   cfg.RateLimitRPM,
		},
		handlers.NewHealthHandler(store, sugar),
		handlers.NewIntakeHandler(intakeSvc, sugar),
		handlers.NewCaseHandler(caseSvc, sugar),
		logger,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	sugar.Info("Shutting down gracefully...")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Fatalf("Forced shutdown: %v", err)
	}

	sugar.Info("Server stopped")
}
