package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/courtside/tournament-engine/config"
	"github.com/courtside/tournament-engine/db"
	"github.com/courtside/tournament-engine/handlers"
	"github.com/courtside/tournament-engine/repositories"
	api "github.com/courtside/tournament-engine/routes"
	"github.com/courtside/tournament-engine/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	tournamentRepo := repositories.NewPostgresTournamentRepository()
	bracketRepo := repositories.NewPostgresBracketRepository()
	participantRepo := repositories.NewPostgresParticipantRepository()
	matchRepo := repositories.NewPostgresMatchRepository()
	transactor := repositories.NewTransactor(dbConn)
	logger.Info("repositories initialized")

	courtGuard := services.NewCourtGuard()
	tournamentService := services.NewTournamentService(
		logger, dbConn, transactor,
		tournamentRepo, bracketRepo, participantRepo, matchRepo,
	)
	bracketService := services.NewBracketService(
		logger, transactor,
		tournamentRepo, bracketRepo, participantRepo, matchRepo,
	)
	matchService := services.NewMatchService(
		logger, transactor, courtGuard,
		tournamentRepo, bracketRepo, participantRepo, matchRepo,
	)
	logger.Info("services initialized")

	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	bracketHandler := handlers.NewBracketHandler(bracketService)
	matchHandler := handlers.NewMatchHandler(matchService)

	router := chi.NewRouter()
	api.SetupRoutes(router, cfg.CORSAllowedOrigins, tournamentHandler, bracketHandler, matchHandler)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
