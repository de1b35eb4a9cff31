package server

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

func (s *SQLiteStore) GetTeam(ctx context.Context, huntID int64, name string) (hunt.Team, error) {
	var t hunt.Team
	err := s.db.QueryRowContext(ctx, `
		SELECT id, hunt_id, name, guesses
		FROM teams
		WHERE hunt_id = ? AND name = ?
	`, huntID, name).Scan(&t.ID, &t.HuntID, &t.Name, &t.Guesses)
	if errors.Is(err, sql.ErrNoRows) {
		return t, hunt.ErrNotFound
	}
	if err != nil {
		return t, err
	}
	t.Members, err = s.listMembers(ctx, t.ID)
	return t, err
}

func (s *SQLiteStore) GetTeamByID(ctx context.Context, teamID int64) (hunt.Team, error) {
	var t hunt.Team
	err := s.db.QueryRowContext(ctx, `
		SELECT id, hunt_id, name, guesses
		FROM teams
		WHERE id = ?
	`, teamID).Scan(&t.ID, &t.HuntID, &t.Name, &t.Guesses)
	if errors.Is(err, sql.ErrNoRows) {
		return t, hunt.ErrNotFound
	}
	if err != nil {
		return t, err
	}
	t.Members, err = s.listMembers(ctx, t.ID)
	return t, err
}

func (s *SQLiteStore) ListTeams(ctx context.Context, huntID int64) ([]hunt.Team, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hunt_id, name, guesses
		FROM teams
		WHERE hunt_id = ?
		ORDER BY name
	`, huntID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []hunt.Team
	for rows.Next() {
		var t hunt.Team
		if err := rows.Scan(&t.ID, &t.HuntID, &t.Name, &t.Guesses); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range teams {
		if teams[i].Members, err = s.listMembers(ctx, teams[i].ID); err != nil {
			return nil, err
		}
	}
	return teams, nil
}

func (s *SQLiteStore) listMembers(ctx context.Context, teamID int64) ([]hunt.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT team_id, hunt_id, name, email
		FROM members
		WHERE team_id = ?
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []hunt.Member
	for rows.Next() {
		var m hunt.Member
		if err := rows.Scan(&m.TeamID, &m.HuntID, &m.Name, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *SQLiteStore) TeamPasswordHash(ctx context.Context, huntID int64, name string) (int64, string, error) {
	var id int64
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM teams WHERE hunt_id = ? AND name = ?
	`, huntID, name).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", hunt.ErrNotFound
	}
	return id, hash, err
}

func (s *SQLiteStore) CreateTeam(ctx context.Context, huntID int64, name, passwordHash string, guesses int, members []hunt.Member) (hunt.Team, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return hunt.Team{}, err
	}
	defer tx.Rollback()

	var teamID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO teams (hunt_id, name, password_hash, guesses)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, huntID, name, passwordHash, guesses).Scan(&teamID)
	if err != nil {
		return hunt.Team{}, err
	}

	for _, m := range members {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO members (team_id, hunt_id, name, email)
			VALUES (?, ?, ?, ?)
		`, teamID, huntID, m.Name, m.Email)
		if err != nil {
			return hunt.Team{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return hunt.Team{}, err
	}
	return s.GetTeamByID(ctx, teamID)
}

func (s *SQLiteStore) ReplaceMembers(ctx context.Context, teamID, huntID int64, members []hunt.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM members WHERE team_id = ?`, teamID); err != nil {
		return err
	}
	for _, m := range members {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO members (team_id, hunt_id, name, email)
			VALUES (?, ?, ?, ?)
		`, teamID, huntID, m.Name, m.Email)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) CreateTeamSession(ctx context.Context, teamID int64, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO team_sessions (id, team_id) VALUES (?, ?)
	`, token, teamID)
	return err
}

func (s *SQLiteStore) TeamFromSession(ctx context.Context, token string) (hunt.Team, error) {
	var teamID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT team_id FROM team_sessions WHERE id = ?
	`, token).Scan(&teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return hunt.Team{}, hunt.ErrNotFound
	}
	if err != nil {
		return hunt.Team{}, err
	}
	return s.GetTeamByID(ctx, teamID)
}

func (s *SQLiteStore) DeleteTeamSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM team_sessions WHERE id = ?`, token)
	return err
}
