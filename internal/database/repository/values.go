package repository

import (
	"context"
	"database/sql"
	"errors"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ValueRepo handles session values.
type ValueRepo struct {
	db querier
}

func NewValueRepo(db *sql.DB) *ValueRepo { return &ValueRepo{db: db} }

// WithTx returns a repo bound to tx.
func (r *ValueRepo) WithTx(tx *sql.Tx) *ValueRepo { return &ValueRepo{db: tx} }

func (r *ValueRepo) Upsert(ctx context.Context, v Value) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO session_values(session_id, key, value, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(session_id, key) DO UPDATE SET
	 value=excluded.value,
	 updated_at=excluded.updated_at;
	`, v.SessionID, v.Key, v.Value, v.UpdatedAt)
	return err
}

func (r *ValueRepo) Get(ctx context.Context, sessionID, key string) (Value, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT session_id, key, value, updated_at FROM session_values
	WHERE session_id = ? AND key = ?`, sessionID, key)
	var v Value
	if err := row.Scan(&v.SessionID, &v.Key, &v.Value, &v.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Value{}, ErrNotFound
		}
		return Value{}, err
	}
	return v, nil
}

func (r *ValueRepo) Delete(ctx context.Context, sessionID, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_values WHERE session_id = ? AND key = ?`, sessionID, key)
	return err
}

func (r *ValueRepo) Keys(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key FROM session_values WHERE session_id = ? ORDER BY key`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
