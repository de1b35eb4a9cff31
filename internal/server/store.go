package server

import (
	"context"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

// Store is everything the HTTP layer needs from persistence: the engine's
// ledger and lookup queries plus hunt/team management and sessions.
type Store interface {
	hunt.Store

	Ping(ctx context.Context) error

	ListHunts(ctx context.Context) ([]hunt.Hunt, error)
	GetHunt(ctx context.Context, key string) (hunt.Hunt, error)
	CreateHunt(ctx context.Context, key, name, passwordHash string) (hunt.Hunt, error)
	UpdateHunt(ctx context.Context, h hunt.Hunt) error
	HuntPasswordHash(ctx context.Context, key string) (huntID int64, hash string, err error)

	GetTeam(ctx context.Context, huntID int64, name string) (hunt.Team, error)
	GetTeamByID(ctx context.Context, teamID int64) (hunt.Team, error)
	TeamPasswordHash(ctx context.Context, huntID int64, name string) (teamID int64, hash string, err error)
	CreateTeam(ctx context.Context, huntID int64, name, passwordHash string, guesses int, members []hunt.Member) (hunt.Team, error)
	ReplaceMembers(ctx context.Context, teamID, huntID int64, members []hunt.Member) error

	CreateTeamSession(ctx context.Context, teamID int64, token string) error
	TeamFromSession(ctx context.Context, token string) (hunt.Team, error)
	DeleteTeamSession(ctx context.Context, token string) error

	CreateAdminSession(ctx context.Context, huntID int64, token string) error
	HuntFromAdminSession(ctx context.Context, token string) (hunt.Hunt, error)
	DeleteAdminSession(ctx context.Context, token string) error

	SetWaves(ctx context.Context, huntID int64, waves []hunt.Wave) error
	ListAllPuzzles(ctx context.Context, huntID int64) ([]hunt.Puzzle, error)
	SetPuzzles(ctx context.Context, huntID int64, puzzles []hunt.Puzzle) error
	ListAllHints(ctx context.Context, huntID int64) ([]hunt.Hint, error)
	SetHints(ctx context.Context, huntID int64, hints []hunt.Hint) error
}
