package blob

import (
	"context"
	"testing"

	"github.com/brightpool/assetvault/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	data := []byte("hello blob")
	require.NoError(t, store.Upload(ctx, "assets/abc/original.jpg", data))

	got, err := store.Download(ctx, "assets/abc/original.jpg")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestFileStoreOverwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Upload(ctx, "a.txt", []byte("one")))
	require.NoError(t, store.Upload(ctx, "a.txt", []byte("two")))

	got, err := store.Download(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)
}

func TestFileStoreMissingBlob(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Download(context.Background(), "missing.bin")
	assert.ErrorIs(t, err, storage.ErrBlobNotFound)
}

func TestFileStoreRemove(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Upload(ctx, "a.txt", []byte("x")))
	require.NoError(t, store.Remove(ctx, "a.txt"))

	_, err = store.Download(ctx, "a.txt")
	assert.ErrorIs(t, err, storage.ErrBlobNotFound)

	// Removing again is not an error
	assert.NoError(t, store.Remove(ctx, "a.txt"))
}

func TestFileStoreRejectsEscapingPaths(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, store.Upload(ctx, "../outside.txt", []byte("x")))
	assert.Error(t, store.Upload(ctx, "/etc/passwd", []byte("x")))
	_, err = store.Download(ctx, "..")
	assert.Error(t, err)
}
