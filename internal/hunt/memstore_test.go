package hunt

import (
	"context"
	"sync"
)

// memStore is an in-memory Store for engine tests. It mirrors the SQL
// store's semantics, including the atomic decrement floor at zero.
type memStore struct {
	mu      sync.Mutex
	waves   []Wave
	puzzles []Puzzle
	hints   []Hint
	teams   []Team
	guesses []Guess
	solves  []Solve
}

func (m *memStore) GetWave(_ context.Context, huntID int64, name string) (Wave, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.waves {
		if w.HuntID == huntID && w.Name == name {
			return w, nil
		}
	}
	return Wave{}, ErrNotFound
}

func (m *memStore) ListWaves(_ context.Context, huntID int64) ([]Wave, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Wave
	for _, w := range m.waves {
		if w.HuntID == huntID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memStore) GetPuzzle(_ context.Context, huntID int64, puzzleKey string) (Puzzle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.puzzles {
		if p.HuntID == huntID && p.Key == puzzleKey {
			return p, nil
		}
	}
	return Puzzle{}, ErrNotFound
}

func (m *memStore) ListPuzzles(_ context.Context, huntID int64, waveName string) ([]Puzzle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Puzzle
	for _, p := range m.puzzles {
		if p.HuntID == huntID && p.Wave == waveName {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) GetHint(_ context.Context, huntID int64, hintKey string) (Hint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.hints {
		if h.HuntID == huntID && h.Key == hintKey {
			return h, nil
		}
	}
	return Hint{}, ErrNotFound
}

func (m *memStore) ListHints(_ context.Context, huntID int64, puzzleName string) ([]Hint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Hint
	for _, h := range m.hints {
		if h.HuntID == huntID && h.PuzzleName == puzzleName {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memStore) HasSolve(_ context.Context, huntID, teamID int64, puzzleKey string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.solves {
		if s.HuntID == huntID && s.TeamID == teamID && s.PuzzleKey == puzzleKey {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) InsertSolve(_ context.Context, solve Solve) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solves = append(m.solves, solve)
	return nil
}

func (m *memStore) HasGuess(_ context.Context, huntID int64, puzzleKey, normalizedGuess string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.guesses {
		if g.HuntID == huntID && g.PuzzleKey == puzzleKey && g.Guess == normalizedGuess {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) InsertGuess(_ context.Context, guess Guess) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guesses = append(m.guesses, guess)
	return nil
}

func (m *memStore) TeamGuesses(_ context.Context, teamID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.teams {
		if t.ID == teamID {
			return t.Guesses, nil
		}
	}
	return 0, ErrNotFound
}

func (m *memStore) DecrementTeamGuesses(_ context.Context, teamID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.teams {
		if t.ID == teamID && t.Guesses > 0 {
			m.teams[i].Guesses--
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListTeams(_ context.Context, huntID int64) ([]Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Team
	for _, t := range m.teams {
		if t.HuntID == huntID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) PuzzleTallies(_ context.Context, huntID int64) (map[string]Tally, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Tally)
	for _, g := range m.guesses {
		if g.HuntID == huntID {
			t := out[g.PuzzleKey]
			t.Guesses++
			out[g.PuzzleKey] = t
		}
	}
	for _, s := range m.solves {
		if s.HuntID == huntID {
			t := out[s.PuzzleKey]
			t.Solves++
			t.TotalSolveTime += s.SolveTime
			out[s.PuzzleKey] = t
		}
	}
	return out, nil
}

func (m *memStore) TeamTallies(_ context.Context, huntID int64) (map[int64]Tally, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]Tally)
	for _, g := range m.guesses {
		if g.HuntID == huntID {
			t := out[g.TeamID]
			t.Guesses++
			out[g.TeamID] = t
		}
	}
	for _, s := range m.solves {
		if s.HuntID == huntID {
			t := out[s.TeamID]
			t.Solves++
			t.TotalSolveTime += s.SolveTime
			out[s.TeamID] = t
		}
	}
	return out, nil
}
