package hunt

import (
	"context"
	"errors"
	"fmt"
)

// Precondition violations. These mean the caller is buggy, not the player:
// the handler layer must resolve a released puzzle and a team of the same
// hunt before asking for judgement.
var (
	ErrHuntMismatch      = errors.New("team and puzzle belong to different hunts")
	ErrPuzzleNotReleased = errors.New("puzzle's wave has not released")
)

// SubmitGuess judges rawGuess against the puzzle's answer and applies the
// side effects. The checks run in strict order, first match wins:
//
//  1. already solved — reveal the answer, write nothing
//  2. out of guesses — write nothing
//  3. correct — record the solve, never charge a guess
//  4. duplicate wrong guess (any team, this puzzle) — write nothing
//  5. wrong — record the guess and charge one from the budget
//
// The ordering is deliberate: a team that already solved the puzzle is told
// so even when it is simultaneously out of guesses, and a redundant correct
// resubmission never burns a guess. A team at zero guesses gets OutOfGuesses
// even for a correct answer; that check comes first on purpose.
func (s *Service) SubmitGuess(ctx context.Context, team Team, puzzle Puzzle, rawGuess string) (Judgement, error) {
	if team.HuntID != puzzle.HuntID {
		return Judgement{}, fmt.Errorf("judging guess for team %d: %w", team.ID, ErrHuntMismatch)
	}

	wave, err := s.store.GetWave(ctx, puzzle.HuntID, puzzle.Wave)
	if err != nil {
		return Judgement{}, fmt.Errorf("loading wave %q: %w", puzzle.Wave, err)
	}
	now := s.now()
	if !wave.Released(now) {
		return Judgement{}, fmt.Errorf("puzzle %q: %w", puzzle.Key, ErrPuzzleNotReleased)
	}

	// Serialize per team. The budget read, the uniqueness checks, and the
	// writes below must not interleave with another guess from the same
	// team.
	lock := s.locks.forTeam(team.ID)
	lock.Lock()
	defer lock.Unlock()

	remaining, err := s.store.TeamGuesses(ctx, team.ID)
	if err != nil {
		return Judgement{}, fmt.Errorf("reading guess budget: %w", err)
	}

	judgement := Judgement{
		PuzzleName:       puzzle.Name,
		Guess:            Normalize(rawGuess),
		GuessesRemaining: remaining,
	}

	solved, err := s.store.HasSolve(ctx, puzzle.HuntID, team.ID, puzzle.Key)
	if err != nil {
		return Judgement{}, err
	}
	if solved {
		// Reveal the stored answer regardless of what was guessed, so a
		// team revisiting a solved puzzle sees it.
		judgement.Correctness = AlreadySolved
		judgement.Guess = Normalize(puzzle.Answer)
		return judgement, nil
	}

	if remaining <= 0 {
		judgement.Correctness = OutOfGuesses
		judgement.Guess = ""
		return judgement, nil
	}

	if judgement.Guess == Normalize(puzzle.Answer) {
		solve := Solve{
			TeamID:    team.ID,
			HuntID:    puzzle.HuntID,
			PuzzleKey: puzzle.Key,
			SolvedAt:  now,
			SolveTime: int64(now.Sub(wave.ReleaseTime).Seconds()),
		}
		if err := s.store.InsertSolve(ctx, solve); err != nil {
			return Judgement{}, fmt.Errorf("recording solve: %w", err)
		}
		judgement.Correctness = Right
		return judgement, nil
	}

	duplicate, err := s.store.HasGuess(ctx, puzzle.HuntID, puzzle.Key, judgement.Guess)
	if err != nil {
		return Judgement{}, err
	}
	if duplicate {
		judgement.Correctness = AlreadyGuessedThat
		return judgement, nil
	}

	guess := Guess{
		TeamID:    team.ID,
		HuntID:    puzzle.HuntID,
		PuzzleKey: puzzle.Key,
		Guess:     judgement.Guess,
		Time:      now,
	}
	if err := s.store.InsertGuess(ctx, guess); err != nil {
		return Judgement{}, fmt.Errorf("recording guess: %w", err)
	}
	charged, err := s.store.DecrementTeamGuesses(ctx, team.ID)
	if err != nil {
		return Judgement{}, fmt.Errorf("charging guess: %w", err)
	}
	if charged {
		judgement.GuessesRemaining = remaining - 1
	}
	judgement.Correctness = Wrong
	return judgement, nil
}
