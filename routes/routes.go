package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/courtside/tournament-engine/handlers"
)

// SetupRoutes wires the HTTP surface onto the router. Commands that mutate
// engine state are POSTs; everything else is read-only.
func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	tournamentHandler *handlers.TournamentHandler,
	bracketHandler *handlers.BracketHandler,
	matchHandler *handlers.MatchHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Post("/", tournamentHandler.CreateTournamentHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetTournamentHandler)
		r.Patch("/{tournamentID}/status", tournamentHandler.UpdateTournamentStatusHandler)
		r.Post("/{tournamentID}/brackets", tournamentHandler.CreateBracketHandler)
	})

	router.Route("/brackets", func(r chi.Router) {
		r.Post("/{bracketID}/participants", tournamentHandler.AddParticipantHandler)
		r.Post("/{bracketID}/generate", bracketHandler.GenerateBracketHandler)
		r.Post("/{bracketID}/generate-blank", bracketHandler.GenerateBlankBracketHandler)
		r.Get("/{bracketID}/standings", tournamentHandler.BracketStandingsHandler)
	})

	router.Post("/participants/{participantID}/fill", bracketHandler.FillPlaceholderHandler)

	router.Route("/matches/{matchID}", func(r chi.Router) {
		r.Post("/start", matchHandler.StartMatchHandler)
		r.Post("/tennis/init", matchHandler.InitTennisScoringHandler)
		r.Post("/tennis/point", matchHandler.ScorePointHandler)
		r.Post("/tennis/undo", matchHandler.UndoPointHandler)
		r.Post("/tennis/server", matchHandler.SetServerHandler)
		r.Post("/complete", matchHandler.CompleteMatchHandler)
	})
}
