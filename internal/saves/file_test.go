package saves

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "saves"))
	require.NoError(t, err)

	_, err = store.Load(ctx, "main")
	require.ErrorIs(t, err, ErrNoSave)

	require.NoError(t, store.Save(ctx, "main", "blob-one"))
	require.NoError(t, store.Save(ctx, "main", "blob-two"))
	require.NoError(t, store.Save(ctx, "alt_2", "x"))

	got, err := store.Load(ctx, "main")
	require.NoError(t, err)
	require.Equal(t, "blob-two", got)

	slots, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	require.Equal(t, "alt_2", slots[0].Name)
	require.Equal(t, "main", slots[1].Name)
	require.Equal(t, len("blob-two"), slots[1].Size)
}

func TestFileStoreRejectsBadSlots(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, slot := range []string{"", "../escape", "has space", "a/b"} {
		require.ErrorIs(t, store.Save(ctx, slot, "x"), ErrInvalidSlot, slot)
		_, err := store.Load(ctx, slot)
		require.ErrorIs(t, err, ErrInvalidSlot, slot)
	}
}

func TestFileStoreListSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.save"), 0o700))
	require.NoError(t, store.Save(ctx, "only", "blob"))

	slots, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.Equal(t, "only", slots[0].Name)
}
