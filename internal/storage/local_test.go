package storage_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/shutterdesk/shutterdesk-api/internal/storage"
)

func newLocalStore(t *testing.T) (*storage.Local, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocal(dir, zerolog.New(io.Discard))
	require.NoError(t, err)
	return store, dir
}

func TestLocalUploadWritesRelativePath(t *testing.T) {
	store, dir := newLocalStore(t)
	ctx := context.Background()

	stored, err := store.Upload(ctx, "photos/pier.png", bytes.NewReader([]byte("image-bytes")))
	require.NoError(t, err)
	require.Equal(t, "photos/pier.png", stored)

	payload, err := os.ReadFile(filepath.Join(dir, "photos", "pier.png"))
	require.NoError(t, err)
	require.Equal(t, []byte("image-bytes"), payload)
}

func TestLocalUploadRejectsPathEscape(t *testing.T) {
	store, dir := newLocalStore(t)
	ctx := context.Background()

	stored, err := store.Upload(ctx, "../outside.png", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	require.Equal(t, "outside.png", stored)
	require.FileExists(t, filepath.Join(dir, "outside.png"))
	require.NoFileExists(t, filepath.Join(filepath.Dir(dir), "outside.png"))

	_, err = store.Upload(ctx, "   ", bytes.NewReader([]byte("x")))
	require.Error(t, err)
}

func TestLocalRemoveIgnoresMissingFiles(t *testing.T) {
	store, dir := newLocalStore(t)
	ctx := context.Background()

	stored, err := store.Upload(ctx, "photos/pier.png", bytes.NewReader([]byte("x")))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, stored))
	require.NoFileExists(t, filepath.Join(dir, "photos", "pier.png"))

	// Removing again is not an error.
	require.NoError(t, store.Remove(ctx, stored))
}
