package server

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

var huntKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// HuntInfo is the public view of a hunt.
type HuntInfo struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	TeamSize    int    `json:"teamSize"`
	InitGuesses int    `json:"initGuesses"`
	Closed      bool   `json:"closed"`
}

func huntInfo(h hunt.Hunt) HuntInfo {
	return HuntInfo{
		Key:         h.Key,
		Name:        h.Name,
		TeamSize:    h.TeamSize,
		InitGuesses: h.InitGuesses,
		Closed:      h.Closed,
	}
}

func handleListHunts(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hunts, err := store.ListHunts(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		infos := []HuntInfo{}
		for _, h := range hunts {
			if h.Visible {
				infos = append(infos, huntInfo(h))
			}
		}
		writeJSON(w, http.StatusOK, infos)
	}
}

// CreateHuntRequest bootstraps a new hunt and signs its organizer in.
type CreateHuntRequest struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	Password       string `json:"password"`
	PasswordVerify string `json:"passwordVerify"`
}

func handleCreateHunt(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateHuntRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Key = strings.TrimSpace(strings.ToLower(req.Key))
		req.Name = strings.TrimSpace(req.Name)
		switch {
		case !huntKeyPattern.MatchString(req.Key):
			writeError(w, http.StatusBadRequest, "hunt key must be a lowercase slug")
			return
		case req.Name == "":
			writeError(w, http.StatusBadRequest, "hunt name is required")
			return
		case req.Password == "":
			writeError(w, http.StatusBadRequest, "password is required")
			return
		case req.Password != req.PasswordVerify:
			writeError(w, http.StatusBadRequest, "passwords do not match")
			return
		}

		if _, err := store.GetHunt(r.Context(), req.Key); err == nil {
			writeError(w, http.StatusConflict, "a hunt with that key already exists")
			return
		} else if !errors.Is(err, hunt.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		created, err := store.CreateHunt(r.Context(), req.Key, req.Name, string(hash))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// Sign the organizer in right away.
		token := newSessionToken()
		if err := store.CreateAdminSession(r.Context(), created.ID, token); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		setSessionCookie(w, adminCookieName, token)

		writeJSON(w, http.StatusCreated, huntInfo(created))
	}
}

func handleGetHunt() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, huntInfo(huntFrom(r)))
	}
}
