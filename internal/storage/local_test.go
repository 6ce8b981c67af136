package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"submission_service/internal/errdefs"
	"submission_service/internal/storage"
)

func newStore(t *testing.T) (*storage.LocalStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestLocalStorePutGetRoundTrip(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	name, err := store.Put(ctx, "report.pdf", "application/pdf", strings.NewReader("pdf bytes"))
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", name)

	data, err := store.Get(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)
}

func TestLocalStorePutDoesNotOverwrite(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	first, err := store.Put(ctx, "x.pdf", "application/pdf", strings.NewReader("first"))
	require.NoError(t, err)

	second, err := store.Put(ctx, "x.pdf", "application/pdf", strings.NewReader("second"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(second, "x_"), "derived name %q should keep the base name", second)
	assert.True(t, strings.HasSuffix(second, ".pdf"), "derived name %q should keep the extension", second)

	firstData, err := store.Get(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), firstData)

	secondData, err := store.Get(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), secondData)
}

func TestLocalStorePutNameWithoutExtension(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "notes", "text/plain", strings.NewReader("a"))
	require.NoError(t, err)

	second, err := store.Put(ctx, "notes", "text/plain", strings.NewReader("b"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(second, "notes_"), "got %q", second)
	assert.NotContains(t, second, ".")
}

func TestLocalStorePutStripsDirectoryComponents(t *testing.T) {
	store, dir := newStore(t)
	ctx := context.Background()

	name, err := store.Put(ctx, "../escape.txt", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "escape.txt", name)

	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	require.NoError(t, err)
}

func TestLocalStoreGetMissing(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Get(context.Background(), "missing.pdf")
	require.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestLocalStoreDeleteIsIdempotent(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	name, err := store.Put(ctx, "doc.pdf", "application/pdf", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, name))
	require.NoError(t, store.Delete(ctx, name))

	_, err = store.Get(ctx, name)
	require.ErrorIs(t, err, errdefs.ErrNotFound)
}
