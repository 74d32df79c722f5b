package storage

import (
	"context"
	"path/filepath"
	"testing"

	"promnamelint/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testDiagnostic(path string, line int) report.Diagnostic {
	return report.Diagnostic{Path: path, Line: line, Column: 1, Code: report.Code, Message: "bad", Metric: "bad_total"}
}

func TestSQLiteStore_SaveLookup(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	diags := []report.Diagnostic{testDiagnostic("a.py", 3)}
	require.NoError(t, store.Save(ctx, CachedResult{Path: "a.py", ContentHash: "h1", Fingerprint: "f1", Diagnostics: diags}))

	got, ok, err := store.Lookup(ctx, "a.py", "h1", "f1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, diags, got)

	t.Run("content changed", func(t *testing.T) {
		_, ok, err := store.Lookup(ctx, "a.py", "h2", "f1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("config changed", func(t *testing.T) {
		_, ok, err := store.Lookup(ctx, "a.py", "h1", "f2")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown file", func(t *testing.T) {
		_, ok, err := store.Lookup(ctx, "b.py", "h1", "f1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("upsert replaces", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, CachedResult{Path: "a.py", ContentHash: "h2", Fingerprint: "f1"}))
		got, ok, err := store.Lookup(ctx, "a.py", "h2", "f1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Empty(t, got)

		_, ok, err = store.Lookup(ctx, "a.py", "h1", "f1")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSQLiteStore_Prune(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for _, p := range []string{"a.py", "b.py", "c.py"} {
		require.NoError(t, store.Save(ctx, CachedResult{Path: p, ContentHash: "h", Fingerprint: "f"}))
	}

	removed, err := store.Prune(ctx, []string{"b.py"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, ok, err := store.Lookup(ctx, "b.py", "h", "f")
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = store.Lookup(ctx, "a.py", "h", "f")
	require.NoError(t, err)
	assert.False(t, ok)
}
