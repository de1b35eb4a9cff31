package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

type GuessRequest struct {
	Guess string `json:"guess"`
}

// handleSubmitGuess resolves the released puzzle and hands judgement to the
// engine. Game-state outcomes (wrong, duplicate, out of guesses, already
// solved) are 200s carrying the judgement; only caller bugs and storage
// failures are errors.
func handleSubmitGuess(logger *slog.Logger, svc *hunt.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := huntFrom(r)
		team := teamFrom(r)

		if h.Closed {
			writeError(w, http.StatusConflict, "this hunt is closed")
			return
		}

		var req GuessRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Guess == "" {
			writeError(w, http.StatusBadRequest, "guess is required")
			return
		}

		puzzle, err := svc.GetReleasedPuzzle(r.Context(), h.ID, chi.URLParam(r, "puzzleKey"))
		if errors.Is(err, hunt.ErrNotFound) {
			writeError(w, http.StatusNotFound, "puzzle not found (or not yet released)")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		judgement, err := svc.SubmitGuess(r.Context(), team, puzzle, req.Guess)
		if err != nil {
			logger.Error("judging guess",
				"team", team.Name,
				"puzzle", puzzle.Key,
				"error", err,
			)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(team.ID, GuessEvent{
			Type:             "guess_judged",
			PuzzleKey:        puzzle.Key,
			PuzzleName:       puzzle.Name,
			Correctness:      judgement.Correctness,
			GuessesRemaining: judgement.GuessesRemaining,
		})

		writeJSON(w, http.StatusOK, judgement)
	}
}
