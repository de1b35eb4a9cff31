package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

type AdminSigninRequest struct {
	HuntKey  string `json:"huntKey"`
	Password string `json:"password"`
}

func handleAdminSignin(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminSigninRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.HuntKey = strings.TrimSpace(strings.ToLower(req.HuntKey))

		huntID, hash, err := store.HuntPasswordHash(r.Context(), req.HuntKey)
		if errors.Is(err, hunt.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid hunt key or password")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
			writeError(w, http.StatusUnauthorized, "invalid hunt key or password")
			return
		}

		token := newSessionToken()
		if err := store.CreateAdminSession(r.Context(), huntID, token); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		setSessionCookie(w, adminCookieName, token)

		h, err := store.GetHunt(r.Context(), req.HuntKey)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, h)
	}
}

func handleAdminSignout(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(adminCookieName); err == nil && cookie.Value != "" {
			store.DeleteAdminSession(r.Context(), cookie.Value)
		}
		clearSessionCookie(w, adminCookieName)
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAdminGetHunt() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, adminHuntFrom(r))
	}
}

// AdminHuntRequest edits the mutable hunt settings.
type AdminHuntRequest struct {
	Name        string `json:"name"`
	TeamSize    int    `json:"teamSize"`
	InitGuesses int    `json:"initGuesses"`
	Closed      bool   `json:"closed"`
	Visible     bool   `json:"visible"`
}

func handleAdminUpdateHunt(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := adminHuntFrom(r)

		var req AdminHuntRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		switch {
		case req.Name == "":
			writeError(w, http.StatusBadRequest, "hunt name is required")
			return
		case req.TeamSize < 1:
			writeError(w, http.StatusBadRequest, "team size must be at least 1")
			return
		case req.InitGuesses < 0:
			writeError(w, http.StatusBadRequest, "initial guesses must not be negative")
			return
		}

		h.Name = req.Name
		h.TeamSize = req.TeamSize
		h.InitGuesses = req.InitGuesses
		h.Closed = req.Closed
		h.Visible = req.Visible

		if err := store.UpdateHunt(r.Context(), h); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, h)
	}
}

func handleAdminListTeams(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := adminHuntFrom(r)

		teams, err := store.ListTeams(r.Context(), h.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if teams == nil {
			teams = []hunt.Team{}
		}
		writeJSON(w, http.StatusOK, teams)
	}
}

// handleAdminTeamEmails flattens every member email for announcement lists.
func handleAdminTeamEmails(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := adminHuntFrom(r)

		teams, err := store.ListTeams(r.Context(), h.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		emails := []string{}
		for _, t := range teams {
			for _, m := range t.Members {
				emails = append(emails, m.Email)
			}
		}
		writeJSON(w, http.StatusOK, emails)
	}
}

// WaveInput mirrors the original's replace-all wave editing: PUT sends the
// complete wave list.
type WaveInput struct {
	Name        string    `json:"name"`
	ReleaseTime time.Time `json:"releaseTime"`
	Guesses     int       `json:"guesses"`
}

func handleAdminListWaves(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := adminHuntFrom(r)

		waves, err := store.ListWaves(r.Context(), h.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if waves == nil {
			waves = []hunt.Wave{}
		}
		writeJSON(w, http.StatusOK, waves)
	}
}

func handleAdminSetWaves(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := adminHuntFrom(r)

		var inputs []WaveInput
		if err := readJSON(r, &inputs); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		seen := map[string]bool{}
		waves := make([]hunt.Wave, 0, len(inputs))
		for _, in := range inputs {
			in.Name = strings.TrimSpace(in.Name)
			if in.Name == "" {
				writeError(w, http.StatusBadRequest, "wave name is required")
				return
			}
			if seen[in.Name] {
				writeError(w, http.StatusBadRequest, "duplicate wave name: "+in.Name)
				return
			}
			seen[in.Name] = true
			if in.ReleaseTime.IsZero() {
				writeError(w, http.StatusBadRequest, "wave release time is required")
				return
			}
			waves = append(waves, hunt.Wave{
				HuntID:      h.ID,
				Name:        in.Name,
				ReleaseTime: in.ReleaseTime,
				Guesses:     in.Guesses,
			})
		}

		if err := store.SetWaves(r.Context(), h.ID, waves); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, waves)
	}
}

// PuzzleInput carries the answer, so these requests stay admin-only.
type PuzzleInput struct {
	Name   string `json:"name"`
	Answer string `json:"answer"`
	Wave   string `json:"wave"`
	Key    string `json:"key"`
}

func handleAdminListPuzzles(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := adminHuntFrom(r)

		puzzles, err := store.ListAllPuzzles(r.Context(), h.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		inputs := []PuzzleInput{}
		for _, p := range puzzles {
			inputs = append(inputs, PuzzleInput{Name: p.Name, Answer: p.Answer, Wave: p.Wave, Key: p.Key})
		}
		writeJSON(w, http.StatusOK, inputs)
	}
}

func handleAdminSetPuzzles(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := adminHuntFrom(r)

		var inputs []PuzzleInput
		if err := readJSON(r, &inputs); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		waves, err := store.ListWaves(r.Context(), h.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		waveNames := map[string]bool{}
		for _, wv := range waves {
			waveNames[wv.Name] = true
		}

		seenKeys := map[string]bool{}
		puzzles := make([]hunt.Puzzle, 0, len(inputs))
		for _, in := range inputs {
			in.Name = strings.TrimSpace(in.Name)
			in.Key = strings.TrimSpace(in.Key)
			switch {
			case in.Name == "" || in.Key == "":
				writeError(w, http.StatusBadRequest, "puzzle name and key are required")
				return
			case in.Answer == "":
				writeError(w, http.StatusBadRequest, "puzzle answer is required")
				return
			case !waveNames[in.Wave]:
				writeError(w, http.StatusBadRequest, "unknown wave: "+in.Wave)
				return
			case seenKeys[in.Key]:
				writeError(w, http.StatusBadRequest, "duplicate puzzle key: "+in.Key)
				return
			}
			seenKeys[in.Key] = true
			puzzles = append(puzzles, hunt.Puzzle{
				HuntID: h.ID,
				Name:   in.Name,
				Answer: in.Answer,
				Wave:   in.Wave,
				Key:    in.Key,
			})
		}

		if err := store.SetPuzzles(r.Context(), h.ID, puzzles); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, inputs)
	}
}

type HintInput struct {
	PuzzleName string `json:"puzzleName"`
	Number     int    `json:"number"`
	Hint       string `json:"hint"`
	Wave       string `json:"wave"`
	Key        string `json:"key"`
}

func handleAdminListHints(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := adminHuntFrom(r)

		hints, err := store.ListAllHints(r.Context(), h.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if hints == nil {
			hints = []hunt.Hint{}
		}
		writeJSON(w, http.StatusOK, hints)
	}
}

func handleAdminSetHints(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := adminHuntFrom(r)

		var inputs []HintInput
		if err := readJSON(r, &inputs); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		waves, err := store.ListWaves(r.Context(), h.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		waveNames := map[string]bool{}
		for _, wv := range waves {
			waveNames[wv.Name] = true
		}

		hints := make([]hunt.Hint, 0, len(inputs))
		for _, in := range inputs {
			in.Key = strings.TrimSpace(in.Key)
			switch {
			case in.PuzzleName == "" || in.Key == "":
				writeError(w, http.StatusBadRequest, "hint puzzle name and key are required")
				return
			case !waveNames[in.Wave]:
				writeError(w, http.StatusBadRequest, "unknown wave: "+in.Wave)
				return
			}
			hints = append(hints, hunt.Hint{
				HuntID:     h.ID,
				PuzzleName: in.PuzzleName,
				Number:     in.Number,
				Hint:       in.Hint,
				Wave:       in.Wave,
				Key:        in.Key,
			})
		}

		if err := store.SetHints(r.Context(), h.ID, hints); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, hints)
	}
}
