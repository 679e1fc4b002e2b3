package memory

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutObjectStoresCopyAndReturnsURI(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()
	body := []byte("<html><body>hello</body></html>")

	uri, err := store.PutObject(context.Background(), "ms-1/source.html", "text/html", bytes.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, "memory://ms-1/source.html", uri)

	stored, ok := store.Get("ms-1/source.html")
	require.True(t, ok)
	require.Equal(t, body, stored)

	// Mutating the original must not reach the stored copy.
	body[0] = 'X'
	stored, _ = store.Get("ms-1/source.html")
	require.Equal(t, byte('<'), stored[0])
}

func TestGetUnknownPath(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()
	_, ok := store.Get("absent")
	require.False(t, ok)
}
