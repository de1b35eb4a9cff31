package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

type ctxKey int

const (
	ctxKeyHunt ctxKey = iota
	ctxKeyTeam
	ctxKeyAdminHunt
)

// huntMiddleware resolves the {hunt} slug to a Hunt and stores it in the
// request context. Unknown slugs 404 without revealing anything further.
func huntMiddleware(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := chi.URLParam(r, "hunt")
			if key == "" {
				writeError(w, http.StatusNotFound, "hunt not found")
				return
			}

			h, err := store.GetHunt(r.Context(), key)
			if err != nil {
				writeError(w, http.StatusNotFound, "hunt not found")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyHunt, h)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// teamAuthMiddleware requires a signed-in team belonging to the request's
// hunt.
func teamAuthMiddleware(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			team, err := teamFromRequest(r, store)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not signed in")
				return
			}
			if team.HuntID != huntFrom(r).ID {
				writeError(w, http.StatusUnauthorized, "not signed in")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyTeam, team)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// adminAuthMiddleware requires a signed-in organizer session.
func adminAuthMiddleware(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h, err := adminFromRequest(r, store)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyAdminHunt, h)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func huntFrom(r *http.Request) hunt.Hunt {
	return r.Context().Value(ctxKeyHunt).(hunt.Hunt)
}

func teamFrom(r *http.Request) hunt.Team {
	return r.Context().Value(ctxKeyTeam).(hunt.Team)
}

func adminHuntFrom(r *http.Request) hunt.Hunt {
	return r.Context().Value(ctxKeyAdminHunt).(hunt.Hunt)
}
