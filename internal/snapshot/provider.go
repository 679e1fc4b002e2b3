// Package snapshot defines the interface for archiving raw fetched HTML.
// The archive is best-effort evidence of what a microsite was generated
// from; callers log failures and continue.
package snapshot

import (
	"context"
	"fmt"
	"io"
)

// Provider abstracts the blob backend that receives page snapshots.
type Provider interface {
	// PutObject uploads data under the given path and returns a URI for it.
	PutObject(ctx context.Context, path string, contentType string, r io.Reader) (string, error)
}

// NoOpProvider discards snapshots. Used when archiving is disabled.
type NoOpProvider struct{}

// PutObject does nothing and reports a pseudo URI.
func (NoOpProvider) PutObject(_ context.Context, path string, _ string, _ io.Reader) (string, error) {
	return fmt.Sprintf("noop://%s", path), nil
}

// ObjectPath builds the canonical archive path for a microsite's source page.
func ObjectPath(prefix, micrositeID string) string {
	if prefix == "" {
		return fmt.Sprintf("%s/source.html", micrositeID)
	}
	return fmt.Sprintf("%s/%s/source.html", prefix, micrositeID)
}
