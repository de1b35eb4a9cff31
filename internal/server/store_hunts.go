package server

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

func (s *SQLiteStore) ListHunts(ctx context.Context) ([]hunt.Hunt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, key, name, team_size, init_guesses, closed, visible
		FROM hunts
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hunts []hunt.Hunt
	for rows.Next() {
		var h hunt.Hunt
		if err := rows.Scan(&h.ID, &h.Key, &h.Name, &h.TeamSize, &h.InitGuesses, &h.Closed, &h.Visible); err != nil {
			return nil, err
		}
		hunts = append(hunts, h)
	}
	return hunts, rows.Err()
}

func (s *SQLiteStore) GetHunt(ctx context.Context, key string) (hunt.Hunt, error) {
	var h hunt.Hunt
	err := s.db.QueryRowContext(ctx, `
		SELECT id, key, name, team_size, init_guesses, closed, visible
		FROM hunts
		WHERE key = ?
	`, key).Scan(&h.ID, &h.Key, &h.Name, &h.TeamSize, &h.InitGuesses, &h.Closed, &h.Visible)
	if errors.Is(err, sql.ErrNoRows) {
		return h, hunt.ErrNotFound
	}
	return h, err
}

func (s *SQLiteStore) CreateHunt(ctx context.Context, key, name, passwordHash string) (hunt.Hunt, error) {
	var h hunt.Hunt
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO hunts (key, name, password_hash)
		VALUES (?, ?, ?)
		RETURNING id, key, name, team_size, init_guesses, closed, visible
	`, key, name, passwordHash).Scan(&h.ID, &h.Key, &h.Name, &h.TeamSize, &h.InitGuesses, &h.Closed, &h.Visible)
	return h, err
}

func (s *SQLiteStore) UpdateHunt(ctx context.Context, h hunt.Hunt) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE hunts
		SET name = ?, team_size = ?, init_guesses = ?, closed = ?, visible = ?
		WHERE id = ?
	`, h.Name, h.TeamSize, h.InitGuesses, h.Closed, h.Visible, h.ID)
	return err
}

func (s *SQLiteStore) HuntPasswordHash(ctx context.Context, key string) (int64, string, error) {
	var id int64
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM hunts WHERE key = ?
	`, key).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", hunt.ErrNotFound
	}
	return id, hash, err
}

func (s *SQLiteStore) CreateAdminSession(ctx context.Context, huntID int64, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_sessions (id, hunt_id) VALUES (?, ?)
	`, token, huntID)
	return err
}

func (s *SQLiteStore) HuntFromAdminSession(ctx context.Context, token string) (hunt.Hunt, error) {
	var h hunt.Hunt
	err := s.db.QueryRowContext(ctx, `
		SELECT h.id, h.key, h.name, h.team_size, h.init_guesses, h.closed, h.visible
		FROM admin_sessions s
		JOIN hunts h ON h.id = s.hunt_id
		WHERE s.id = ?
	`, token).Scan(&h.ID, &h.Key, &h.Name, &h.TeamSize, &h.InitGuesses, &h.Closed, &h.Visible)
	if errors.Is(err, sql.ErrNoRows) {
		return h, hunt.ErrNotFound
	}
	return h, err
}

func (s *SQLiteStore) DeleteAdminSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, token)
	return err
}
