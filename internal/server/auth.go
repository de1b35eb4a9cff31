package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

const (
	teamCookieName  = "team_session"
	adminCookieName = "admin_session"
	sessionMaxAge   = 7 * 24 * time.Hour
)

var (
	errNoSession      = errors.New("no valid team session")
	errNoAdminSession = errors.New("no valid admin session")
)

func newSessionToken() string {
	return uuid.NewString()
}

func setSessionCookie(w http.ResponseWriter, name, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionMaxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// teamFromRequest resolves the team_session cookie to a Team.
func teamFromRequest(r *http.Request, store Store) (hunt.Team, error) {
	cookie, err := r.Cookie(teamCookieName)
	if err != nil || cookie.Value == "" {
		return hunt.Team{}, errNoSession
	}
	team, err := store.TeamFromSession(r.Context(), cookie.Value)
	if errors.Is(err, hunt.ErrNotFound) {
		return hunt.Team{}, errNoSession
	}
	return team, err
}

// adminFromRequest resolves the admin_session cookie to the hunt it
// administers.
func adminFromRequest(r *http.Request, store Store) (hunt.Hunt, error) {
	cookie, err := r.Cookie(adminCookieName)
	if err != nil || cookie.Value == "" {
		return hunt.Hunt{}, errNoAdminSession
	}
	h, err := store.HuntFromAdminSession(r.Context(), cookie.Value)
	if errors.Is(err, hunt.ErrNotFound) {
		return hunt.Hunt{}, errNoAdminSession
	}
	return h, err
}
