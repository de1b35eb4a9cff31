package server

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

type MemberInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegisterRequest creates a team and signs it in.
type RegisterRequest struct {
	Name           string        `json:"name"`
	Password       string        `json:"password"`
	PasswordVerify string        `json:"passwordVerify"`
	Members        []MemberInput `json:"members"`
}

// TeamResponse is a team as its own members see it.
type TeamResponse struct {
	Name    string        `json:"name"`
	Guesses int           `json:"guesses"`
	Members []MemberInput `json:"members"`
}

func teamResponse(t hunt.Team) TeamResponse {
	resp := TeamResponse{
		Name:    t.Name,
		Guesses: t.Guesses,
		Members: []MemberInput{},
	}
	for _, m := range t.Members {
		resp.Members = append(resp.Members, MemberInput{Name: m.Name, Email: m.Email})
	}
	return resp
}

func validateMembers(members []MemberInput, teamSize int) string {
	if len(members) == 0 {
		return "team must have at least one member"
	}
	if len(members) > teamSize {
		return "too many members for this hunt"
	}
	for _, m := range members {
		if strings.TrimSpace(m.Name) == "" {
			return "member name is required"
		}
		if !emailPattern.MatchString(m.Email) {
			return "invalid member email address"
		}
	}
	return ""
}

func toMembers(inputs []MemberInput, teamID, huntID int64) []hunt.Member {
	members := make([]hunt.Member, 0, len(inputs))
	for _, m := range inputs {
		members = append(members, hunt.Member{
			TeamID: teamID,
			HuntID: huntID,
			Name:   strings.TrimSpace(m.Name),
			Email:  strings.TrimSpace(m.Email),
		})
	}
	return members
}

func handleRegister(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := huntFrom(r)

		var req RegisterRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		switch {
		case req.Name == "":
			writeError(w, http.StatusBadRequest, "team name is required")
			return
		case req.Password == "":
			writeError(w, http.StatusBadRequest, "password is required")
			return
		case req.Password != req.PasswordVerify:
			writeError(w, http.StatusBadRequest, "passwords do not match")
			return
		}
		if msg := validateMembers(req.Members, h.TeamSize); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		if _, err := store.GetTeam(r.Context(), h.ID, req.Name); err == nil {
			writeError(w, http.StatusConflict, "a team with that name already exists")
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

		team, err := store.CreateTeam(r.Context(), h.ID, req.Name, string(hash),
			h.InitGuesses, toMembers(req.Members, 0, h.ID))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		token := newSessionToken()
		if err := store.CreateTeamSession(r.Context(), team.ID, token); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		setSessionCookie(w, teamCookieName, token)

		writeJSON(w, http.StatusCreated, teamResponse(team))
	}
}

type SigninRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func handleSignin(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := huntFrom(r)

		var req SigninRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Name = strings.TrimSpace(req.Name)

		teamID, hash, err := store.TeamPasswordHash(r.Context(), h.ID, req.Name)
		if errors.Is(err, hunt.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid team name or password")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
			writeError(w, http.StatusUnauthorized, "invalid team name or password")
			return
		}

		token := newSessionToken()
		if err := store.CreateTeamSession(r.Context(), teamID, token); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		setSessionCookie(w, teamCookieName, token)

		team, err := store.GetTeamByID(r.Context(), teamID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, teamResponse(team))
	}
}

func handleSignout(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(teamCookieName); err == nil && cookie.Value != "" {
			store.DeleteTeamSession(r.Context(), cookie.Value)
		}
		clearSessionCookie(w, teamCookieName)
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleGetTeam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, teamResponse(teamFrom(r)))
	}
}

// UpdateTeamRequest replaces the member list; name and password are fixed at
// registration.
type UpdateTeamRequest struct {
	Members []MemberInput `json:"members"`
}

func handleUpdateTeam(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := huntFrom(r)
		team := teamFrom(r)

		var req UpdateTeamRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := validateMembers(req.Members, h.TeamSize); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		if err := store.ReplaceMembers(r.Context(), team.ID, h.ID, toMembers(req.Members, team.ID, h.ID)); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		updated, err := store.GetTeamByID(r.Context(), team.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, teamResponse(updated))
	}
}
