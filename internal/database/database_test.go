package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db))

	v, dirty, err := Version(db)
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(2), v)

	var n int
	require.NoError(t, db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('sessions', 'session_values', 'downloads')`).Scan(&n))
	require.Equal(t, 3, n)
}

func TestOpenInMemorySurvivesIdle(t *testing.T) {
	db, err := Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrations(db))

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `INSERT INTO sessions(id, created_at, touched_at) VALUES ('s1', ?, ?)`, Now(), Now())
	require.NoError(t, err)

	var id string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT id FROM sessions`).Scan(&id))
	require.Equal(t, "s1", id)
}

func TestNormalizeDSN(t *testing.T) {
	require.Equal(t, "file:/tmp/a.db?_foreign_keys=on&_busy_timeout=5000", normalizeDSN("/tmp/a.db"))
	require.Equal(t, "file:x?mode=memory&_foreign_keys=on&_busy_timeout=5000", normalizeDSN("file:x?mode=memory"))
}

func TestWithTxRollsBack(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrations(db))

	ctx := context.Background()
	err = WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO sessions(id, created_at, touched_at) VALUES ('s1', ?, ?)`, Now(), Now()); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n))
	require.Zero(t, n)
}

var errBoom = errors.New("boom")
