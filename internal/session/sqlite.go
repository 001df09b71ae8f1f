package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jask/widgetdemo/internal/database"
	"github.com/jask/widgetdemo/internal/database/repository"
)

// SQL is a Store backed by the session tables.
type SQL struct {
	id       string
	db       *sql.DB
	sessions *repository.SessionRepo
	values   *repository.ValueRepo
}

// NewSQL creates a new session row and returns a store bound to it.
// The schema must already be migrated.
func NewSQL(ctx context.Context, db *sql.DB) (*SQL, error) {
	s := &SQL{
		id:       uuid.NewString(),
		db:       db,
		sessions: repository.NewSessionRepo(db),
		values:   repository.NewValueRepo(db),
	}
	if err := s.sessions.Create(ctx, s.id, database.Now()); err != nil {
		return nil, fmt.Errorf("session: create: %w", err)
	}
	return s, nil
}

func (s *SQL) ID() string { return s.id }

// Touch counts a page run against the session.
func (s *SQL) Touch(ctx context.Context) error {
	return s.sessions.Touch(ctx, s.id, database.Now())
}

// Runs reports how many page runs the session has seen.
func (s *SQL) Runs(ctx context.Context) (int64, error) {
	row, err := s.sessions.Get(ctx, s.id)
	if err != nil {
		return 0, err
	}
	return row.Runs, nil
}

func (s *SQL) Get(ctx context.Context, key string, dst any) error {
	v, err := s.values.Get(ctx, s.id, key)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("session: get %q: %w", key, err)
	}
	return decode(key, v.Value, dst)
}

func (s *SQL) Set(ctx context.Context, key string, v any) error {
	b, err := encode(key, v)
	if err != nil {
		return err
	}
	if err := s.values.Upsert(ctx, repository.Value{SessionID: s.id, Key: key, Value: b, UpdatedAt: database.Now()}); err != nil {
		return fmt.Errorf("session: set %q: %w", key, err)
	}
	return nil
}

func (s *SQL) Has(ctx context.Context, key string) (bool, error) {
	_, err := s.values.Get(ctx, s.id, key)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session: has %q: %w", key, err)
	}
	return true, nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	return s.values.Delete(ctx, s.id, key)
}

func (s *SQL) Keys(ctx context.Context) ([]string, error) {
	return s.values.Keys(ctx, s.id)
}

func (s *SQL) Incr(ctx context.Context, key string, delta int64) (int64, error) {
	var n int64
	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		repo := s.values.WithTx(tx)
		var raw []byte
		cur, err := repo.Get(ctx, s.id, key)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return err
		default:
			raw = cur.Value
		}
		next, b, err := addInt(key, raw, delta)
		if err != nil {
			return err
		}
		n = next
		return repo.Upsert(ctx, repository.Value{SessionID: s.id, Key: key, Value: b, UpdatedAt: database.Now()})
	})
	if err != nil {
		return 0, fmt.Errorf("session: incr %q: %w", key, err)
	}
	return n, nil
}
