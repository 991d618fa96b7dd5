package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/timecard/timecard-backend/internal/timecard/events"
	"github.com/timecard/timecard-backend/internal/timecard/handler"
	"github.com/timecard/timecard-backend/internal/timecard/repository"
	"github.com/timecard/timecard-backend/internal/timecard/service"
	"github.com/timecard/timecard-backend/pkg/auth"
	"github.com/timecard/timecard-backend/pkg/config"
	"github.com/timecard/timecard-backend/pkg/database"
	"github.com/timecard/timecard-backend/pkg/httputil"
	"github.com/timecard/timecard-backend/pkg/logger"
	"github.com/timecard/timecard-backend/pkg/messaging"
)

const serviceName = "timecard-service"

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadWithValidation(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(serviceName, cfg.Server.Environment)
	log.Info().Msg("starting Timecard Service")

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database.MigrationURL(), log); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	} else if status, err := database.Status(cfg.Database.MigrationURL()); err != nil {
		log.Warn().Err(err).Msg("could not read schema version")
	} else if status.Pending || status.Dirty {
		log.Warn().
			Uint("current", status.CurrentVersion).
			Uint("latest", status.LatestVersion).
			Bool("dirty", status.Dirty).
			Msg("database schema is behind; enable auto_migrate or run migrations")
	}

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to RabbitMQ when enabled; without it events are dropped
	var rmq *messaging.RabbitMQ
	publisher := events.Disabled(log)
	if cfg.RabbitMQ.Enabled {
		rmq, err = messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		publisher, err = events.NewTimecardEventPublisher(rmq, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		go watchRabbitMQ(ctx, rmq, log)
	}

	// Initialize repositories
	employeeRepo := repository.NewEmployeeRepository(db)
	wageRepo := repository.NewWageHistoryRepository(db)
	recordRepo := repository.NewRecordRepository(db)

	// Initialize services
	summaryService := service.NewSummaryService(employeeRepo, wageRepo, recordRepo, log)
	recordService := service.NewRecordService(recordRepo)
	clockService := service.NewClockService(recordRepo, publisher, log)
	employeeService := service.NewEmployeeService(employeeRepo, wageRepo, publisher, log)

	// Initialize handlers
	handlers := handler.Handlers{
		Attendance: handler.NewAttendanceHandler(summaryService, recordService, log),
		Employees:  handler.NewEmployeeHandler(employeeService, log),
		Clock:      handler.NewClockHandler(clockService, log),
	}

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{
			"status":   "healthy",
			"service":  serviceName,
			"database": db.Health(r.Context()),
		}
		if rmq != nil {
			status["rabbitmq"] = rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, status)
	})

	// API routes
	r.Mount("/api/v1", handlers.Routes(auth.NewManager(&cfg.JWT), log))

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// watchRabbitMQ reconnects whenever the broker closes the channel.
func watchRabbitMQ(ctx context.Context, rmq *messaging.RabbitMQ, log *logger.Logger) {
	for {
		ch := rmq.Channel()
		if ch == nil {
			return
		}
		closed := ch.NotifyClose(make(chan *amqp.Error, 1))

		select {
		case <-ctx.Done():
			return
		case amqpErr, ok := <-closed:
			if !ok && ctx.Err() != nil {
				return
			}
			log.Warn().Interface("reason", amqpErr).Msg("RabbitMQ channel closed")
			if err := rmq.Reconnect(ctx); err != nil {
				log.Error().Err(err).Msg("giving up on RabbitMQ")
				return
			}
		}
	}
}
