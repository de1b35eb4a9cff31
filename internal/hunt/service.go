package hunt

import (
	"context"
	"errors"
	"time"
)

// Service evaluates release gating, judges guesses, and aggregates stats.
// All time comparisons go through its clock so tests can pin the instant.
type Service struct {
	store Store
	now   func() time.Time
	locks *teamLocks
}

type Option func(*Service)

// WithClock replaces the wall clock. Test hook.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		locks: newTeamLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsWaveReleased reports whether the wave has unlocked.
func (s *Service) IsWaveReleased(w Wave) bool {
	return w.Released(s.now())
}

// ReleasedWave is a released wave together with its visible puzzles, each
// carrying its released hints.
type ReleasedWave struct {
	Wave
	Puzzles []ReleasedPuzzle `json:"puzzles"`
}

// ReleasedPuzzle is a Puzzle the caller is allowed to see. The answer is
// deliberately absent.
type ReleasedPuzzle struct {
	Name  string `json:"name"`
	Wave  string `json:"wave"`
	Key   string `json:"key"`
	Hints []Hint `json:"hints,omitempty"`
}

// ReleasedWaves returns every released wave of the hunt with its puzzles and
// their released hints. Unreleased waves contribute nothing, not even their
// names.
func (s *Service) ReleasedWaves(ctx context.Context, huntID int64) ([]ReleasedWave, error) {
	waves, err := s.store.ListWaves(ctx, huntID)
	if err != nil {
		return nil, err
	}

	var released []ReleasedWave
	for _, w := range waves {
		if !s.IsWaveReleased(w) {
			continue
		}
		puzzles, err := s.VisiblePuzzles(ctx, huntID, w.Name)
		if err != nil {
			return nil, err
		}
		rw := ReleasedWave{Wave: w}
		for _, p := range puzzles {
			hints, err := s.VisibleHints(ctx, huntID, p.Name)
			if err != nil {
				return nil, err
			}
			rw.Puzzles = append(rw.Puzzles, ReleasedPuzzle{
				Name:  p.Name,
				Wave:  p.Wave,
				Key:   p.Key,
				Hints: hints,
			})
		}
		released = append(released, rw)
	}
	return released, nil
}

// VisiblePuzzles returns the puzzles of the named wave, or nothing at all if
// the wave has not released.
func (s *Service) VisiblePuzzles(ctx context.Context, huntID int64, waveName string) ([]Puzzle, error) {
	wave, err := s.store.GetWave(ctx, huntID, waveName)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !s.IsWaveReleased(wave) {
		return nil, nil
	}
	return s.store.ListPuzzles(ctx, huntID, waveName)
}

// VisibleHints returns the hints of the named puzzle whose own waves have
// released. A hint's wave may differ from its puzzle's.
func (s *Service) VisibleHints(ctx context.Context, huntID int64, puzzleName string) ([]Hint, error) {
	hints, err := s.store.ListHints(ctx, huntID, puzzleName)
	if err != nil {
		return nil, err
	}
	var visible []Hint
	for _, h := range hints {
		wave, err := s.store.GetWave(ctx, huntID, h.Wave)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if s.IsWaveReleased(wave) {
			visible = append(visible, h)
		}
	}
	return visible, nil
}

// GetReleasedPuzzle looks up a puzzle by key, returning ErrNotFound both
// when it does not exist and when its wave has not released. Callers cannot
// tell the two apart, which is the point.
func (s *Service) GetReleasedPuzzle(ctx context.Context, huntID int64, puzzleKey string) (Puzzle, error) {
	puzzle, err := s.store.GetPuzzle(ctx, huntID, puzzleKey)
	if err != nil {
		return Puzzle{}, err
	}
	wave, err := s.store.GetWave(ctx, huntID, puzzle.Wave)
	if err != nil {
		return Puzzle{}, err
	}
	if !s.IsWaveReleased(wave) {
		return Puzzle{}, ErrNotFound
	}
	return puzzle, nil
}

// GetReleasedHint looks up a hint by key, hidden until its wave releases.
func (s *Service) GetReleasedHint(ctx context.Context, huntID int64, hintKey string) (Hint, error) {
	hint, err := s.store.GetHint(ctx, huntID, hintKey)
	if err != nil {
		return Hint{}, err
	}
	wave, err := s.store.GetWave(ctx, huntID, hint.Wave)
	if err != nil {
		return Hint{}, err
	}
	if !s.IsWaveReleased(wave) {
		return Hint{}, ErrNotFound
	}
	return hint, nil
}
