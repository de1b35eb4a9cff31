package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

// handleListPuzzles returns the released waves with their puzzles and
// released hints. Unreleased waves are absent entirely.
func handleListPuzzles(svc *hunt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := huntFrom(r)

		waves, err := svc.ReleasedWaves(r.Context(), h.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if waves == nil {
			waves = []hunt.ReleasedWave{}
		}
		writeJSON(w, http.StatusOK, waves)
	}
}

func handleGetPuzzle(svc *hunt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := huntFrom(r)

		puzzle, err := svc.GetReleasedPuzzle(r.Context(), h.ID, chi.URLParam(r, "puzzleKey"))
		if errors.Is(err, hunt.ErrNotFound) {
			writeError(w, http.StatusNotFound, "puzzle not found (or not yet released)")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		hints, err := svc.VisibleHints(r.Context(), h.ID, puzzle.Name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, hunt.ReleasedPuzzle{
			Name:  puzzle.Name,
			Wave:  puzzle.Wave,
			Key:   puzzle.Key,
			Hints: hints,
		})
	}
}

func handleGetHint(svc *hunt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := huntFrom(r)

		hint, err := svc.GetReleasedHint(r.Context(), h.ID, chi.URLParam(r, "hintKey"))
		if errors.Is(err, hunt.ErrNotFound) {
			writeError(w, http.StatusNotFound, "hint not found (or not yet released)")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, hint)
	}
}
