package hunt

import (
	"context"
	"fmt"
)

// PuzzleStats aggregates the ledger for one puzzle across all teams.
type PuzzleStats struct {
	WaveName       string `json:"waveName"`
	PuzzleName     string `json:"puzzleName"`
	PuzzleKey      string `json:"puzzleKey"`
	Guesses        int    `json:"guesses"`
	Solves         int    `json:"solves"`
	TotalSolveTime int64  `json:"totalSolveTimeSeconds"`
	AvgSolveTime   string `json:"avgSolveTime"`
}

// TeamStats aggregates the ledger for one team across all puzzles.
type TeamStats struct {
	TeamName       string `json:"teamName"`
	Guesses        int    `json:"guesses"`
	Solves         int    `json:"solves"`
	TotalSolveTime int64  `json:"totalSolveTimeSeconds"`
	AvgSolveTime   string `json:"avgSolveTime"`
}

// avgSolveTime renders average solve minutes, guarding the zero-solves case.
func avgSolveTime(totalSeconds int64, solves int) string {
	if solves == 0 {
		return "-"
	}
	return fmt.Sprintf("%d mins", totalSeconds/int64(solves)/60)
}

// PuzzleStats folds the ledger into per-puzzle aggregates, grouped by wave
// in wave order. Unreleased waves contribute nothing.
func (s *Service) PuzzleStats(ctx context.Context, huntID int64) ([]PuzzleStats, error) {
	waves, err := s.store.ListWaves(ctx, huntID)
	if err != nil {
		return nil, err
	}
	tallies, err := s.store.PuzzleTallies(ctx, huntID)
	if err != nil {
		return nil, err
	}

	var stats []PuzzleStats
	for _, w := range waves {
		if !s.IsWaveReleased(w) {
			continue
		}
		puzzles, err := s.store.ListPuzzles(ctx, huntID, w.Name)
		if err != nil {
			return nil, err
		}
		for _, p := range puzzles {
			t := tallies[p.Key]
			stats = append(stats, PuzzleStats{
				WaveName:       w.Name,
				PuzzleName:     p.Name,
				PuzzleKey:      p.Key,
				Guesses:        t.Guesses,
				Solves:         t.Solves,
				TotalSolveTime: t.TotalSolveTime,
				AvgSolveTime:   avgSolveTime(t.TotalSolveTime, t.Solves),
			})
		}
	}
	return stats, nil
}

// TeamStats folds the ledger into per-team aggregates for the leaderboard.
func (s *Service) TeamStats(ctx context.Context, huntID int64) ([]TeamStats, error) {
	teams, err := s.store.ListTeams(ctx, huntID)
	if err != nil {
		return nil, err
	}
	tallies, err := s.store.TeamTallies(ctx, huntID)
	if err != nil {
		return nil, err
	}

	stats := make([]TeamStats, 0, len(teams))
	for _, team := range teams {
		t := tallies[team.ID]
		stats = append(stats, TeamStats{
			TeamName:       team.Name,
			Guesses:        t.Guesses,
			Solves:         t.Solves,
			TotalSolveTime: t.TotalSolveTime,
			AvgSolveTime:   avgSolveTime(t.TotalSolveTime, t.Solves),
		})
	}
	return stats, nil
}
