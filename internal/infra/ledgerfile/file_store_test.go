package ledgerfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"password_notifier/internal/domain/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file yields empty mapping", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
		entries, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("malformed file propagates error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{ not json`), 0o600))

		_, err := NewFileStore(path).Load(ctx)
		assert.Error(t, err)
	})
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "last_notified.json")
	store := NewFileStore(path)

	want := ledger.Entries{
		"jdoe":   "2026-03-10",
		"asmith": "2026-03-09",
	}
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStoreSaveReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "last_notified.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(ctx, ledger.Entries{"jdoe": "2026-03-09", "old": "2025-01-01"}))
	require.NoError(t, store.Save(ctx, ledger.Entries{"jdoe": "2026-03-10"}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger.Entries{"jdoe": "2026-03-10"}, got)
}

func TestFileStoreSaveCreatesParentDir(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "last_notified.json")

	require.NoError(t, NewFileStore(path).Save(ctx, ledger.Entries{"jdoe": "2026-03-10"}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "last_notified.json")

	require.NoError(t, NewFileStore(path).Save(ctx, ledger.Entries{"jdoe": "2026-03-10"}))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "last_notified.json", files[0].Name())
}
