package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("repository: not found")

// SessionRepo handles sessions.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

func (r *SessionRepo) Create(ctx context.Context, id string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO sessions(id, created_at, touched_at, runs) VALUES (?, ?, ?, 0)
	`, id, now, now)
	return err
}

func (r *SessionRepo) Get(ctx context.Context, id string) (Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, created_at, touched_at, runs FROM sessions WHERE id = ?`, id)
	var s Session
	if err := row.Scan(&s.ID, &s.CreatedAt, &s.TouchedAt, &s.Runs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	return s, nil
}

// Touch records one more run of the page for the session.
func (r *SessionRepo) Touch(ctx context.Context, id string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE sessions SET touched_at = ?, runs = runs + 1 WHERE id = ?`, now, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}
