package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

// SQLiteStore implements Store on a single SQLite database holding every
// hunt. Timestamps are stored as RFC 3339 UTC strings.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func storeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored timestamp %q: %w", s, err)
	}
	return t, nil
}

// --- Waves ---

func (s *SQLiteStore) GetWave(ctx context.Context, huntID int64, name string) (hunt.Wave, error) {
	var w hunt.Wave
	var release string
	err := s.db.QueryRowContext(ctx, `
		SELECT hunt_id, name, release_time, guesses
		FROM waves
		WHERE hunt_id = ? AND name = ?
	`, huntID, name).Scan(&w.HuntID, &w.Name, &release, &w.Guesses)
	if errors.Is(err, sql.ErrNoRows) {
		return w, hunt.ErrNotFound
	}
	if err != nil {
		return w, err
	}
	w.ReleaseTime, err = parseTime(release)
	return w, err
}

func (s *SQLiteStore) ListWaves(ctx context.Context, huntID int64) ([]hunt.Wave, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hunt_id, name, release_time, guesses
		FROM waves
		WHERE hunt_id = ?
		ORDER BY release_time, name
	`, huntID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var waves []hunt.Wave
	for rows.Next() {
		var w hunt.Wave
		var release string
		if err := rows.Scan(&w.HuntID, &w.Name, &release, &w.Guesses); err != nil {
			return nil, err
		}
		if w.ReleaseTime, err = parseTime(release); err != nil {
			return nil, err
		}
		waves = append(waves, w)
	}
	return waves, rows.Err()
}

func (s *SQLiteStore) SetWaves(ctx context.Context, huntID int64, waves []hunt.Wave) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM waves WHERE hunt_id = ?`, huntID); err != nil {
		return err
	}
	for _, w := range waves {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO waves (hunt_id, name, release_time, guesses)
			VALUES (?, ?, ?, ?)
		`, huntID, w.Name, storeTime(w.ReleaseTime), w.Guesses)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// --- Puzzles ---

func (s *SQLiteStore) GetPuzzle(ctx context.Context, huntID int64, puzzleKey string) (hunt.Puzzle, error) {
	var p hunt.Puzzle
	err := s.db.QueryRowContext(ctx, `
		SELECT hunt_id, name, answer, wave, key
		FROM puzzles
		WHERE hunt_id = ? AND key = ?
	`, huntID, puzzleKey).Scan(&p.HuntID, &p.Name, &p.Answer, &p.Wave, &p.Key)
	if errors.Is(err, sql.ErrNoRows) {
		return p, hunt.ErrNotFound
	}
	return p, err
}

func (s *SQLiteStore) ListPuzzles(ctx context.Context, huntID int64, waveName string) ([]hunt.Puzzle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hunt_id, name, answer, wave, key
		FROM puzzles
		WHERE hunt_id = ? AND wave = ?
		ORDER BY name
	`, huntID, waveName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPuzzles(rows)
}

func (s *SQLiteStore) ListAllPuzzles(ctx context.Context, huntID int64) ([]hunt.Puzzle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hunt_id, name, answer, wave, key
		FROM puzzles
		WHERE hunt_id = ?
		ORDER BY wave, name
	`, huntID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPuzzles(rows)
}

func scanPuzzles(rows *sql.Rows) ([]hunt.Puzzle, error) {
	var puzzles []hunt.Puzzle
	for rows.Next() {
		var p hunt.Puzzle
		if err := rows.Scan(&p.HuntID, &p.Name, &p.Answer, &p.Wave, &p.Key); err != nil {
			return nil, err
		}
		puzzles = append(puzzles, p)
	}
	return puzzles, rows.Err()
}

func (s *SQLiteStore) SetPuzzles(ctx context.Context, huntID int64, puzzles []hunt.Puzzle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM puzzles WHERE hunt_id = ?`, huntID); err != nil {
		return err
	}
	for _, p := range puzzles {
		// Answers live in normalized form so judgement compares like against like.
		_, err := tx.ExecContext(ctx, `
			INSERT INTO puzzles (hunt_id, name, answer, wave, key)
			VALUES (?, ?, ?, ?, ?)
		`, huntID, p.Name, hunt.Normalize(p.Answer), p.Wave, p.Key)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// --- Hints ---

func (s *SQLiteStore) GetHint(ctx context.Context, huntID int64, hintKey string) (hunt.Hint, error) {
	var h hunt.Hint
	err := s.db.QueryRowContext(ctx, `
		SELECT hunt_id, puzzle_name, number, hint, wave, key
		FROM hints
		WHERE hunt_id = ? AND key = ?
	`, huntID, hintKey).Scan(&h.HuntID, &h.PuzzleName, &h.Number, &h.Hint, &h.Wave, &h.Key)
	if errors.Is(err, sql.ErrNoRows) {
		return h, hunt.ErrNotFound
	}
	return h, err
}

func (s *SQLiteStore) ListHints(ctx context.Context, huntID int64, puzzleName string) ([]hunt.Hint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hunt_id, puzzle_name, number, hint, wave, key
		FROM hints
		WHERE hunt_id = ? AND puzzle_name = ?
		ORDER BY number
	`, huntID, puzzleName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHints(rows)
}

func (s *SQLiteStore) ListAllHints(ctx context.Context, huntID int64) ([]hunt.Hint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hunt_id, puzzle_name, number, hint, wave, key
		FROM hints
		WHERE hunt_id = ?
		ORDER BY puzzle_name, number
	`, huntID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHints(rows)
}

func scanHints(rows *sql.Rows) ([]hunt.Hint, error) {
	var hints []hunt.Hint
	for rows.Next() {
		var h hunt.Hint
		if err := rows.Scan(&h.HuntID, &h.PuzzleName, &h.Number, &h.Hint, &h.Wave, &h.Key); err != nil {
			return nil, err
		}
		hints = append(hints, h)
	}
	return hints, rows.Err()
}

func (s *SQLiteStore) SetHints(ctx context.Context, huntID int64, hints []hunt.Hint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM hints WHERE hunt_id = ?`, huntID); err != nil {
		return err
	}
	for _, h := range hints {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO hints (hunt_id, puzzle_name, number, hint, wave, key)
			VALUES (?, ?, ?, ?, ?, ?)
		`, huntID, h.PuzzleName, h.Number, h.Hint, h.Wave, h.Key)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// --- Ledger ---

func (s *SQLiteStore) HasSolve(ctx context.Context, huntID, teamID int64, puzzleKey string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM solves
			WHERE hunt_id = ? AND team_id = ? AND puzzle_key = ?
		)
	`, huntID, teamID, puzzleKey).Scan(&exists)
	return exists == 1, err
}

func (s *SQLiteStore) InsertSolve(ctx context.Context, solve hunt.Solve) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO solves (team_id, hunt_id, puzzle_key, solved_at, solve_time)
		VALUES (?, ?, ?, ?, ?)
	`, solve.TeamID, solve.HuntID, solve.PuzzleKey, storeTime(solve.SolvedAt), solve.SolveTime)
	return err
}

func (s *SQLiteStore) HasGuess(ctx context.Context, huntID int64, puzzleKey, normalizedGuess string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM guesses
			WHERE hunt_id = ? AND puzzle_key = ? AND guess = ?
		)
	`, huntID, puzzleKey, normalizedGuess).Scan(&exists)
	return exists == 1, err
}

func (s *SQLiteStore) InsertGuess(ctx context.Context, guess hunt.Guess) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guesses (team_id, hunt_id, puzzle_key, guess, time)
		VALUES (?, ?, ?, ?, ?)
	`, guess.TeamID, guess.HuntID, guess.PuzzleKey, guess.Guess, storeTime(guess.Time))
	return err
}

func (s *SQLiteStore) TeamGuesses(ctx context.Context, teamID int64) (int, error) {
	var guesses int
	err := s.db.QueryRowContext(ctx, `
		SELECT guesses FROM teams WHERE id = ?
	`, teamID).Scan(&guesses)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, hunt.ErrNotFound
	}
	return guesses, err
}

// DecrementTeamGuesses is the atomic decrement-if-positive the engine relies
// on; a budget at zero is never touched.
func (s *SQLiteStore) DecrementTeamGuesses(ctx context.Context, teamID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE teams SET guesses = guesses - 1
		WHERE id = ? AND guesses > 0
	`, teamID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// --- Tallies ---

func (s *SQLiteStore) PuzzleTallies(ctx context.Context, huntID int64) (map[string]hunt.Tally, error) {
	out := make(map[string]hunt.Tally)

	guessRows, err := s.db.QueryContext(ctx, `
		SELECT puzzle_key, COUNT(*) FROM guesses
		WHERE hunt_id = ? GROUP BY puzzle_key
	`, huntID)
	if err != nil {
		return nil, err
	}
	defer guessRows.Close()
	for guessRows.Next() {
		var key string
		var count int
		if err := guessRows.Scan(&key, &count); err != nil {
			return nil, err
		}
		t := out[key]
		t.Guesses = count
		out[key] = t
	}
	if err := guessRows.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT puzzle_key, COUNT(*), COALESCE(SUM(solve_time), 0)
		FROM solves WHERE hunt_id = ? GROUP BY puzzle_key
	`, huntID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var count int
		var total int64
		if err := rows.Scan(&key, &count, &total); err != nil {
			return nil, err
		}
		t := out[key]
		t.Solves = count
		t.TotalSolveTime = total
		out[key] = t
	}
	return out, rows.Err()
}

func (s *SQLiteStore) TeamTallies(ctx context.Context, huntID int64) (map[int64]hunt.Tally, error) {
	out := make(map[int64]hunt.Tally)

	rows, err := s.db.QueryContext(ctx, `
		SELECT team_id, COUNT(*) FROM guesses
		WHERE hunt_id = ? GROUP BY team_id
	`, huntID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		t := out[id]
		t.Guesses = count
		out[id] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	solveRows, err := s.db.QueryContext(ctx, `
		SELECT team_id, COUNT(*), COALESCE(SUM(solve_time), 0)
		FROM solves WHERE hunt_id = ? GROUP BY team_id
	`, huntID)
	if err != nil {
		return nil, err
	}
	defer solveRows.Close()
	for solveRows.Next() {
		var id int64
		var count int
		var total int64
		if err := solveRows.Scan(&id, &count, &total); err != nil {
			return nil, err
		}
		t := out[id]
		t.Solves = count
		t.TotalSolveTime = total
		out[id] = t
	}
	return out, solveRows.Err()
}
