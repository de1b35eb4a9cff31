package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

// SeedDemo creates a small demo hunt with one released wave and one future
// wave, so a fresh install has something to click through. It is a no-op if
// the demo hunt already exists.
func SeedDemo(ctx context.Context, logger *slog.Logger, store Store) error {
	const key = "demo"

	_, err := store.GetHunt(ctx, key)
	if err == nil {
		return nil
	}
	if !errors.Is(err, hunt.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	h, err := store.CreateHunt(ctx, key, "Demo Hunt", string(hash))
	if err != nil {
		return err
	}
	h.TeamSize = 4
	h.InitGuesses = 50
	h.Visible = true
	if err := store.UpdateHunt(ctx, h); err != nil {
		return err
	}

	now := time.Now().UTC()
	waves := []hunt.Wave{
		{HuntID: h.ID, Name: "opening", ReleaseTime: now.Add(-time.Hour), Guesses: 0},
		{HuntID: h.ID, Name: "finale", ReleaseTime: now.Add(24 * time.Hour), Guesses: 25},
	}
	if err := store.SetWaves(ctx, h.ID, waves); err != nil {
		return err
	}

	puzzles := []hunt.Puzzle{
		{HuntID: h.ID, Name: "Warmup", Answer: "BANANA", Wave: "opening", Key: "warmup"},
		{HuntID: h.ID, Name: "Crossed Words", Answer: "TYPEWRITER", Wave: "opening", Key: "crossed-words"},
		{HuntID: h.ID, Name: "Meta", Answer: "CONSTELLATION", Wave: "finale", Key: "meta"},
	}
	if err := store.SetPuzzles(ctx, h.ID, puzzles); err != nil {
		return err
	}

	hints := []hunt.Hint{
		{HuntID: h.ID, PuzzleName: "Warmup", Number: 1, Hint: "It's a fruit.", Wave: "opening", Key: "warmup-1"},
		{HuntID: h.ID, PuzzleName: "Crossed Words", Number: 1, Hint: "Every letter comes from the top row.", Wave: "finale", Key: "crossed-words-1"},
	}
	if err := store.SetHints(ctx, h.ID, hints); err != nil {
		return err
	}

	logger.Info("seeded demo hunt", "key", key, "password", "demo")
	return nil
}
