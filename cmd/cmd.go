package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"splitrip-backend/internal/config"
	"splitrip-backend/internal/exchange"
	"splitrip-backend/internal/handlers"
	"splitrip-backend/internal/middleware"
	"splitrip-backend/internal/repository"
	"splitrip-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Apply schema
	if err := repository.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tripRepo := repository.NewTripRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	requestRepo := repository.NewTravelRequestRepository(db)

	// Initialize exchange-rate client and normalizer
	rateClient := exchange.NewClient(cfg.Exchange.BaseURL, cfg.Exchange.Timeout)
	normalizer := exchange.NewNormalizer(rateClient, cfg.Exchange.SettlementCurrency)

	// Initialize services
	userService := services.NewUserService(userRepo, cfg.JWT.Secret, cfg.JWT.TokenTTL)
	tripService := services.NewTripService(tripRepo)
	expenseService := services.NewExpenseService(expenseRepo, normalizer)
	participantService := services.NewParticipantService(participantRepo)
	splitService := services.NewSplitService(tripService, participantService, expenseRepo, cfg.Exchange.SettlementCurrency)
	requestService := services.NewTravelRequestService(requestRepo)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	tripHandler := handlers.NewTripHandler(tripService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	participantHandler := handlers.NewParticipantHandler(participantService)
	splitHandler := handlers.NewSplitHandler(splitService)
	requestHandler := handlers.NewTravelRequestHandler(requestService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/users/register", userHandler.Register)
		r.Post("/users/login", userHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Post("/trips", tripHandler.CreateTrip)
			r.Get("/trips", tripHandler.ListTrips)
			r.Delete("/trips/{trip_id}", tripHandler.DeleteTrip)

			r.Post("/trips/{trip_id}/participants", participantHandler.AddParticipant)
			r.Get("/trips/{trip_id}/participants", participantHandler.ListParticipants)
			r.Get("/trips/{trip_id}/split", splitHandler.GetSplit)

			r.Post("/expenses", expenseHandler.CreateExpense)
			r.Get("/expenses", expenseHandler.ListExpenses)
			r.Put("/expenses/{expense_id}", expenseHandler.UpdateExpense)
			r.Delete("/expenses/{expense_id}", expenseHandler.DeleteExpense)

			r.Post("/travel-requests", requestHandler.CreateRequest)
			r.Get("/travel-requests", requestHandler.ListRequests)
			r.Patch("/travel-requests/{request_id}", requestHandler.UpdateStatus)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("settlement_currency", cfg.Exchange.SettlementCurrency).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
