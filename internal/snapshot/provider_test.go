package snapshot

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ms-1/source.html", ObjectPath("", "ms-1"))
	require.Equal(t, "sites/ms-1/source.html", ObjectPath("sites", "ms-1"))
}

func TestNoOpProvider(t *testing.T) {
	t.Parallel()

	uri, err := NoOpProvider{}.PutObject(context.Background(), "p/source.html", "text/html",
		bytes.NewReader([]byte("ignored")))
	require.NoError(t, err)
	require.Equal(t, "noop://p/source.html", uri)
}
