package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, svc *hunt.Service) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("PuzzleHunt API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, store))

	r.Get("/api/hunts", handleListHunts(store))
	r.Post("/api/hunts", handleCreateHunt(store))

	// Organizer routes — session bound to one hunt.
	r.Post("/api/admin/signin", handleAdminSignin(store))
	r.Post("/api/admin/signout", handleAdminSignout(store))
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(adminAuthMiddleware(store))
		r.Get("/hunt", handleAdminGetHunt())
		r.Put("/hunt", handleAdminUpdateHunt(store))
		r.Get("/teams", handleAdminListTeams(store))
		r.Get("/teams/emails", handleAdminTeamEmails(store))
		r.Get("/waves", handleAdminListWaves(store))
		r.Put("/waves", handleAdminSetWaves(store))
		r.Get("/puzzles", handleAdminListPuzzles(store))
		r.Put("/puzzles", handleAdminSetPuzzles(store))
		r.Get("/hints", handleAdminListHints(store))
		r.Put("/hints", handleAdminSetHints(store))
	})

	// Player routes — {hunt} resolved by huntMiddleware.
	r.Route("/api/{hunt}", func(r chi.Router) {
		r.Use(huntMiddleware(store))

		r.Get("/", handleGetHunt())
		r.Post("/register", handleRegister(store))
		r.Post("/signin", handleSignin(store))
		r.Post("/signout", handleSignout(store))

		r.Get("/puzzles", handleListPuzzles(svc))
		r.Get("/puzzles/{puzzleKey}", handleGetPuzzle(svc))
		r.Get("/hints/{hintKey}", handleGetHint(svc))
		r.Get("/stats/puzzles", handlePuzzleStats(svc))
		r.Get("/stats/teams", handleTeamStats(svc))
		r.Get("/events", handleEvents(store, broker))

		r.Group(func(r chi.Router) {
			r.Use(teamAuthMiddleware(store))
			r.Get("/team", handleGetTeam())
			r.Put("/team", handleUpdateTeam(store))
			r.Post("/puzzles/{puzzleKey}/guess", handleSubmitGuess(logger, svc, broker))
		})
	})
}
