// Package hunt implements the progression and answer-judgement engine:
// wave release gating, guess judgement with its precedence rules, the
// append-only guess/solve ledger queries, and leaderboard statistics.
package hunt

import (
	"strings"
	"time"
)

// Hunt is one competition. Key is the URL-safe slug used in routes.
type Hunt struct {
	ID          int64  `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	TeamSize    int    `json:"teamSize"`
	InitGuesses int    `json:"initGuesses"`
	Closed      bool   `json:"closed"`
	Visible     bool   `json:"visible"`
}

// Wave is a batch of puzzles that unlocks at ReleaseTime. Released-ness is
// never stored; it is always derived from the clock.
type Wave struct {
	HuntID      int64     `json:"-"`
	Name        string    `json:"name"`
	ReleaseTime time.Time `json:"releaseTime"`
	Guesses     int       `json:"guesses"`
}

// Released reports whether the wave has unlocked as of now.
func (w Wave) Released(now time.Time) bool {
	return !w.ReleaseTime.After(now)
}

// Puzzle belongs to one wave (by name). Key is the public identifier used
// in URLs; Answer is stored in normalized form.
type Puzzle struct {
	HuntID int64  `json:"-"`
	Name   string `json:"name"`
	Answer string `json:"-"`
	Wave   string `json:"wave"`
	Key    string `json:"key"`
}

// Hint references its puzzle by name and carries its own wave, so hints can
// be scheduled independently of the puzzle they belong to.
type Hint struct {
	HuntID     int64  `json:"-"`
	PuzzleName string `json:"puzzleName"`
	Number     int    `json:"number"`
	Hint       string `json:"hint"`
	Wave       string `json:"wave"`
	Key        string `json:"key"`
}

type Team struct {
	ID      int64    `json:"id"`
	HuntID  int64    `json:"-"`
	Name    string   `json:"name"`
	Guesses int      `json:"guesses"`
	Members []Member `json:"members,omitempty"`
}

type Member struct {
	TeamID int64  `json:"-"`
	HuntID int64  `json:"-"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Guess is an immutable record of one wrong submission.
type Guess struct {
	TeamID    int64     `json:"-"`
	HuntID    int64     `json:"-"`
	PuzzleKey string    `json:"puzzleKey"`
	Guess     string    `json:"guess"`
	Time      time.Time `json:"time"`
}

// Solve is an immutable record of one correct submission. SolveTime is the
// number of seconds between the puzzle's wave release and the solve.
type Solve struct {
	TeamID    int64     `json:"-"`
	HuntID    int64     `json:"-"`
	PuzzleKey string    `json:"puzzleKey"`
	SolvedAt  time.Time `json:"solvedAt"`
	SolveTime int64     `json:"solveTime"`
}

// Correctness is the closed set of judgement outcomes.
type Correctness string

const (
	Right              Correctness = "right"
	Wrong              Correctness = "wrong"
	AlreadySolved      Correctness = "already_solved"
	AlreadyGuessedThat Correctness = "already_guessed"
	OutOfGuesses       Correctness = "out_of_guesses"
)

// Judgement is the result of judging one guess. For AlreadySolved, Guess
// holds the stored answer rather than what was submitted.
type Judgement struct {
	PuzzleName       string      `json:"puzzleName"`
	Guess            string      `json:"guess,omitempty"`
	Correctness      Correctness `json:"correctness"`
	GuessesRemaining int         `json:"guessesRemaining"`
}

// Normalize folds a guess or answer into its canonical comparison form.
// Comparison is case-insensitive; nothing else is altered.
func Normalize(s string) string {
	return strings.ToUpper(s)
}
