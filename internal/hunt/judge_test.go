package hunt

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var judgeNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

// newJudgeFixture builds a hunt with one released wave, one puzzle with
// answer FOO, and two teams holding the given budgets.
func newJudgeFixture(t *testing.T, budgetA, budgetB int) (*Service, *memStore) {
	t.Helper()
	store := &memStore{
		waves: []Wave{
			{HuntID: 1, Name: "first", ReleaseTime: judgeNow.Add(-30 * time.Minute)},
			{HuntID: 1, Name: "later", ReleaseTime: judgeNow.Add(time.Hour)},
		},
		puzzles: []Puzzle{
			{HuntID: 1, Name: "Puzzle One", Answer: "FOO", Wave: "first", Key: "one"},
			{HuntID: 1, Name: "Puzzle Two", Answer: "BAR", Wave: "later", Key: "two"},
		},
		teams: []Team{
			{ID: 10, HuntID: 1, Name: "alpha", Guesses: budgetA},
			{ID: 20, HuntID: 1, Name: "beta", Guesses: budgetB},
		},
	}
	svc := NewService(store, WithClock(func() time.Time { return judgeNow }))
	return svc, store
}

func teamByID(s *memStore, id int64) Team {
	for _, t := range s.teams {
		if t.ID == id {
			return t
		}
	}
	return Team{}
}

func puzzleByKey(s *memStore, key string) Puzzle {
	for _, p := range s.puzzles {
		if p.Key == key {
			return p
		}
	}
	return Puzzle{}
}

func TestSubmitGuessWrongChargesBudget(t *testing.T) {
	svc, store := newJudgeFixture(t, 5, 5)
	ctx := context.Background()

	j, err := svc.SubmitGuess(ctx, teamByID(store, 10), puzzleByKey(store, "one"), "nope")
	require.NoError(t, err)

	assert.Equal(t, Wrong, j.Correctness)
	assert.Equal(t, "NOPE", j.Guess)
	assert.Equal(t, 4, j.GuessesRemaining)
	assert.Len(t, store.guesses, 1)
	assert.Empty(t, store.solves)
	assert.Equal(t, 4, teamByID(store, 10).Guesses)
}

func TestSubmitGuessRightRecordsSolve(t *testing.T) {
	svc, store := newJudgeFixture(t, 5, 5)
	ctx := context.Background()

	j, err := svc.SubmitGuess(ctx, teamByID(store, 10), puzzleByKey(store, "one"), "foo")
	require.NoError(t, err)

	assert.Equal(t, Right, j.Correctness)
	assert.Equal(t, "FOO", j.Guess)
	assert.Equal(t, 5, j.GuessesRemaining, "correct answers are free")

	require.Len(t, store.solves, 1)
	solve := store.solves[0]
	assert.Equal(t, int64(10), solve.TeamID)
	assert.Equal(t, "one", solve.PuzzleKey)
	assert.Equal(t, int64(30*60), solve.SolveTime)
	assert.Empty(t, store.guesses)
	assert.Equal(t, 5, teamByID(store, 10).Guesses)
}

func TestSubmitGuessAlreadySolvedRevealsAnswer(t *testing.T) {
	svc, store := newJudgeFixture(t, 5, 5)
	ctx := context.Background()

	_, err := svc.SubmitGuess(ctx, teamByID(store, 10), puzzleByKey(store, "one"), "FOO")
	require.NoError(t, err)

	// Resubmitting anything, right or wrong, reports the solve and writes
	// nothing new.
	for _, guess := range []string{"FOO", "garbage"} {
		j, err := svc.SubmitGuess(ctx, teamByID(store, 10), puzzleByKey(store, "one"), guess)
		require.NoError(t, err)
		assert.Equal(t, AlreadySolved, j.Correctness)
		assert.Equal(t, "FOO", j.Guess, "stored answer is revealed")
		assert.Equal(t, 5, j.GuessesRemaining)
	}
	assert.Len(t, store.solves, 1)
	assert.Empty(t, store.guesses)
}

func TestSubmitGuessOutOfGuesses(t *testing.T) {
	svc, store := newJudgeFixture(t, 0, 5)
	ctx := context.Background()

	// Even the correct answer is rejected at zero budget.
	j, err := svc.SubmitGuess(ctx, teamByID(store, 10), puzzleByKey(store, "one"), "FOO")
	require.NoError(t, err)

	assert.Equal(t, OutOfGuesses, j.Correctness)
	assert.Empty(t, j.Guess)
	assert.Equal(t, 0, j.GuessesRemaining)
	assert.Empty(t, store.solves)
	assert.Empty(t, store.guesses)
}

func TestSubmitGuessAlreadySolvedBeatsOutOfGuesses(t *testing.T) {
	svc, store := newJudgeFixture(t, 1, 5)
	ctx := context.Background()

	_, err := svc.SubmitGuess(ctx, teamByID(store, 10), puzzleByKey(store, "one"), "FOO")
	require.NoError(t, err)

	// Drain the budget, then resubmit: the solve wins.
	store.teams[0].Guesses = 0
	j, err := svc.SubmitGuess(ctx, teamByID(store, 10), puzzleByKey(store, "one"), "FOO")
	require.NoError(t, err)
	assert.Equal(t, AlreadySolved, j.Correctness)
}

func TestSubmitGuessDuplicateAcrossTeams(t *testing.T) {
	svc, store := newJudgeFixture(t, 5, 5)
	ctx := context.Background()

	j, err := svc.SubmitGuess(ctx, teamByID(store, 10), puzzleByKey(store, "one"), "wrong answer")
	require.NoError(t, err)
	require.Equal(t, Wrong, j.Correctness)

	// A different team repeating the same wrong guess is not charged.
	j, err = svc.SubmitGuess(ctx, teamByID(store, 20), puzzleByKey(store, "one"), "WRONG ANSWER")
	require.NoError(t, err)
	assert.Equal(t, AlreadyGuessedThat, j.Correctness)
	assert.Equal(t, 5, j.GuessesRemaining)
	assert.Len(t, store.guesses, 1)
	assert.Equal(t, 5, teamByID(store, 20).Guesses)
}

func TestSubmitGuessNormalization(t *testing.T) {
	svc, store := newJudgeFixture(t, 5, 5)
	ctx := context.Background()

	j, err := svc.SubmitGuess(ctx, teamByID(store, 10), puzzleByKey(store, "one"), "fOo")
	require.NoError(t, err)
	assert.Equal(t, Right, j.Correctness)

	// Whitespace is not stripped; " foo" is a distinct, wrong guess.
	j, err = svc.SubmitGuess(ctx, teamByID(store, 20), puzzleByKey(store, "one"), " foo")
	require.NoError(t, err)
	assert.Equal(t, Wrong, j.Correctness)
	assert.Equal(t, " FOO", j.Guess)
}

func TestSubmitGuessUnreleasedPuzzle(t *testing.T) {
	svc, store := newJudgeFixture(t, 5, 5)
	ctx := context.Background()

	_, err := svc.SubmitGuess(ctx, teamByID(store, 10), puzzleByKey(store, "two"), "BAR")
	require.ErrorIs(t, err, ErrPuzzleNotReleased)
	assert.Empty(t, store.solves)
	assert.Empty(t, store.guesses)
}

func TestSubmitGuessHuntMismatch(t *testing.T) {
	svc, store := newJudgeFixture(t, 5, 5)
	ctx := context.Background()

	foreign := Team{ID: 99, HuntID: 2, Guesses: 5}
	_, err := svc.SubmitGuess(ctx, foreign, puzzleByKey(store, "one"), "FOO")
	require.ErrorIs(t, err, ErrHuntMismatch)
}

func TestSubmitGuessBudgetNeverGoesNegative(t *testing.T) {
	svc, store := newJudgeFixture(t, 2, 5)
	ctx := context.Background()

	verdicts := make(map[Correctness]int)
	for _, guess := range []string{"a", "b", "c", "d"} {
		j, err := svc.SubmitGuess(ctx, teamByID(store, 10), puzzleByKey(store, "one"), guess)
		require.NoError(t, err)
		verdicts[j.Correctness]++
	}

	assert.Equal(t, 2, verdicts[Wrong])
	assert.Equal(t, 2, verdicts[OutOfGuesses])
	assert.Equal(t, 0, teamByID(store, 10).Guesses)
	assert.Len(t, store.guesses, 2)
}

func TestSubmitGuessConcurrentSameTeam(t *testing.T) {
	const budget = 10
	svc, store := newJudgeFixture(t, budget, 5)
	ctx := context.Background()

	// 50 distinct wrong guesses racing on a budget of 10. Exactly budget
	// guesses must land in the ledger and the budget must end at zero.
	var wg sync.WaitGroup
	guesses := make([]string, 50)
	for i := range guesses {
		guesses[i] = "wrong-" + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	for _, g := range guesses {
		wg.Add(1)
		go func(raw string) {
			defer wg.Done()
			_, err := svc.SubmitGuess(ctx, Team{ID: 10, HuntID: 1}, puzzleByKey(store, "one"), raw)
			assert.NoError(t, err)
		}(g)
	}
	wg.Wait()

	assert.Len(t, store.guesses, budget)
	assert.Equal(t, 0, teamByID(store, 10).Guesses)
}
