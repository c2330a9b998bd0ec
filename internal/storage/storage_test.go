package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/document-analytics-api/internal/config"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)
	ctx := context.Background()

	key := "uploads/abc/report.html"
	require.NoError(t, s.Upload(ctx, key, []byte("<p>hi</p>"), "text/html"))

	data, err := s.Download(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(data))

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Download(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "empty staging directories are removed")
}

func TestLocalStorage_DeleteMissingKey(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, s.Delete(context.Background(), "uploads/none/file.txt"))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "../outside.txt", "uploads/../../etc/passwd", "/abs/path"} {
		assert.ErrorIs(t, s.Upload(ctx, key, []byte("x"), ""), ErrInvalidKey, key)
		_, err := s.Download(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestLocalStorage_CanceledContext(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Upload(ctx, "uploads/a/b.txt", []byte("x"), ""), context.Canceled)
}

func TestLocalStorage_DefaultTempDir(t *testing.T) {
	s, err := NewLocalStorage("")
	require.NoError(t, err)

	root := s.(*localStorage).root
	t.Cleanup(func() { _ = os.RemoveAll(root) })
	assert.True(t, strings.HasPrefix(filepath.Base(root), "document-analytics-"))
}

func TestNew(t *testing.T) {
	s, err := New(&config.Config{StorageBackend: "local", StorageTempDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &localStorage{}, s)

	_, err = New(&config.Config{StorageBackend: "ftp"})
	assert.Error(t, err)
}

func TestUploadKey(t *testing.T) {
	a, b := UploadKey("doc.pdf"), UploadKey("doc.pdf")

	assert.True(t, strings.HasPrefix(a, "uploads/"))
	assert.True(t, strings.HasSuffix(a, "/doc.pdf"))
	assert.NotEqual(t, a, b)
}
