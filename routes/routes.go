package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dipta11/Football-Tournamnet-Maker/handlers"
	"github.com/dipta11/Football-Tournamnet-Maker/middleware"
)

// SetupRoutes настраивает все маршруты API.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	progressHandler *handlers.ProgressHandler,
	statsHandler *handlers.StatsHandler,
	venueHandler *handlers.VenueHandler,
	playerHandler *handlers.PlayerHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные маршруты просмотра
		r.Get("/", tournamentHandler.ListPublicHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
		r.Get("/{tournamentID}/matches", matchHandler.FixtureHandler)
		r.Get("/{tournamentID}/matches/next", matchHandler.NextHandler)
		r.Get("/{tournamentID}/groups/{groupName}/standings", tournamentHandler.StandingsHandler)
		r.Get("/{tournamentID}/progress", progressHandler.SnapshotHandler)
		r.Get("/{tournamentID}/progress/recommended-group-target", progressHandler.RecommendedTargetHandler)
		r.Get("/{tournamentID}/champion", progressHandler.ChampionHandler)
		r.Get("/{tournamentID}/roster", playerHandler.RosterHandler)

		// Маршруты организатора
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/", tournamentHandler.CreateHandler)
			r.Post("/{tournamentID}/matches", matchHandler.CreateHandler)
			r.Post("/{tournamentID}/progress/group-target", progressHandler.DeclareGroupTargetHandler)
			r.Post("/{tournamentID}/progress/knockout-target", progressHandler.DeclareKnockoutTargetHandler)
			r.Post("/{tournamentID}/logo", tournamentHandler.UploadLogoHandler)
			r.Post("/{tournamentID}/teams/{teamID}/logo", tournamentHandler.UploadTeamLogoHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/{matchID}/result", matchHandler.RecordResultHandler)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/my/tournaments", tournamentHandler.ListMineHandler)
	})

	router.Route("/venues", func(r chi.Router) {
		r.Get("/", venueHandler.ListHandler)
		r.Get("/{venueID}", venueHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/", venueHandler.CreateHandler)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.ListHandler)
		r.Get("/{playerID}", playerHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/", playerHandler.CreateHandler)
		})
	})

	router.Route("/stats", func(r chi.Router) {
		r.Get("/top-scorers", statsHandler.TopScorersHandler)
		r.Get("/player-tournaments", statsHandler.TournamentsPerPlayerHandler)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
