package server

import (
	"net/http"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

func handlePuzzleStats(svc *hunt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := huntFrom(r)

		stats, err := svc.PuzzleStats(r.Context(), h.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if stats == nil {
			stats = []hunt.PuzzleStats{}
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func handleTeamStats(svc *hunt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := huntFrom(r)

		stats, err := svc.TeamStats(r.Context(), h.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
