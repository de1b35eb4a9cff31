package hunt

import (
	"context"
	"errors"
)

// ErrNotFound is returned by store lookups when no row matches.
var ErrNotFound = errors.New("not found")

// Tally is the aggregate the ledger can compute per puzzle or per team.
type Tally struct {
	Guesses        int
	Solves         int
	TotalSolveTime int64
}

// Store is everything the engine needs from the persistent store. Guess and
// Solve rows are append-only; the only mutable value is the team guess
// budget, which the store must decrement atomically.
type Store interface {
	GetWave(ctx context.Context, huntID int64, name string) (Wave, error)
	ListWaves(ctx context.Context, huntID int64) ([]Wave, error)

	GetPuzzle(ctx context.Context, huntID int64, puzzleKey string) (Puzzle, error)
	ListPuzzles(ctx context.Context, huntID int64, waveName string) ([]Puzzle, error)

	GetHint(ctx context.Context, huntID int64, hintKey string) (Hint, error)
	ListHints(ctx context.Context, huntID int64, puzzleName string) ([]Hint, error)

	HasSolve(ctx context.Context, huntID, teamID int64, puzzleKey string) (bool, error)
	InsertSolve(ctx context.Context, solve Solve) error

	// HasGuess checks hunt-and-puzzle-wide, not per team: any team's prior
	// wrong guess with the same normalized text counts as a duplicate.
	HasGuess(ctx context.Context, huntID int64, puzzleKey, normalizedGuess string) (bool, error)
	InsertGuess(ctx context.Context, guess Guess) error

	TeamGuesses(ctx context.Context, teamID int64) (int, error)
	// DecrementTeamGuesses atomically decrements a positive budget and
	// reports whether a guess was charged. A budget already at zero is left
	// untouched.
	DecrementTeamGuesses(ctx context.Context, teamID int64) (bool, error)

	ListTeams(ctx context.Context, huntID int64) ([]Team, error)
	PuzzleTallies(ctx context.Context, huntID int64) (map[string]Tally, error)
	TeamTallies(ctx context.Context, huntID int64) (map[int64]Tally, error)
}
