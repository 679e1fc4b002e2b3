package local

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRequiresBaseDir(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.Error(t, err)
}

func TestNewCreatesMissingBaseDir(t *testing.T) {
	t.Parallel()

	base := filepath.Join(t.TempDir(), "snapshots")
	_, err := New(Config{BaseDir: base})
	require.NoError(t, err)

	info, err := os.Stat(base)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestPutObjectWritesFileAndReturnsURI(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store, err := New(Config{BaseDir: base})
	require.NoError(t, err)

	uri, err := store.PutObject(context.Background(), "ms-1/source.html", "text/html",
		bytes.NewReader([]byte("<html></html>")))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "file://"))

	body, err := os.ReadFile(filepath.Join(base, "ms-1", "source.html"))
	require.NoError(t, err)
	require.Equal(t, "<html></html>", string(body))
}

func TestPutObjectRejectsTraversal(t *testing.T) {
	t.Parallel()

	store, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	_, err = store.PutObject(context.Background(), "../escape.html", "text/html",
		bytes.NewReader([]byte("x")))
	require.Error(t, err)
}

func TestPutObjectRequiresPath(t *testing.T) {
	t.Parallel()

	store, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	_, err = store.PutObject(context.Background(), "  ", "text/html", bytes.NewReader(nil))
	require.Error(t, err)
}
