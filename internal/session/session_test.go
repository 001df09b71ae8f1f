package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/widgetdemo/internal/database"
)

func newSQLStore(t *testing.T) *SQL {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db))
	s, err := NewSQL(context.Background(), db)
	require.NoError(t, err)
	return s
}

func backends(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": newSQLStore(t),
	}
}

func TestStoreSemantics(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NotEmpty(t, s.ID())

			var missing int
			require.ErrorIs(t, s.Get(ctx, "count", &missing), ErrNotFound)
			ok, err := s.Has(ctx, "count")
			require.NoError(t, err)
			require.False(t, ok)

			stored, err := SetDefault(ctx, s, "count", 0)
			require.NoError(t, err)
			require.True(t, stored)
			stored, err = SetDefault(ctx, s, "count", 99)
			require.NoError(t, err)
			require.False(t, stored, "default must only apply once per session")

			n, err := Int(ctx, s, "count")
			require.NoError(t, err)
			require.Zero(t, n)

			for i := 1; i <= 3; i++ {
				got, err := s.Incr(ctx, "count", 1)
				require.NoError(t, err)
				require.Equal(t, int64(i), got)
			}

			require.NoError(t, s.Set(ctx, "name", "홍길동"))
			var name string
			require.NoError(t, s.Get(ctx, "name", &name))
			require.Equal(t, "홍길동", name)

			_, err = s.Incr(ctx, "name", 1)
			require.ErrorIs(t, err, ErrNotInteger)

			keys, err := s.Keys(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{"count", "name"}, keys)

			require.NoError(t, s.Delete(ctx, "name"))
			require.NoError(t, s.Delete(ctx, "name"))
			ok, err = s.Has(ctx, "name")
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestIncrMissingKeyStartsAtZero(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			n, err := s.Incr(context.Background(), "fresh", 5)
			require.NoError(t, err)
			require.Equal(t, int64(5), n)
		})
	}
}

func TestMemoryIncrConcurrent(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Incr(ctx, "count", 1)
		}()
	}
	wg.Wait()
	n, err := Int(ctx, s, "count")
	require.NoError(t, err)
	require.Equal(t, int64(50), n)
}

func TestSQLTouchCountsRuns(t *testing.T) {
	s := newSQLStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Touch(ctx))
	}
	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), runs)
}

func TestSessionsAreIsolated(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "two.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db))

	ctx := context.Background()
	a, err := NewSQL(ctx, db)
	require.NoError(t, err)
	b, err := NewSQL(ctx, db)
	require.NoError(t, err)
	require.NotEqual(t, a.ID(), b.ID())

	_, err = a.Incr(ctx, "count", 2)
	require.NoError(t, err)
	n, err := Int(ctx, b, "count")
	require.NoError(t, err)
	require.Zero(t, n)
}
