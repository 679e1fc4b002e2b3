package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/getsitespark/sitespark/internal/microsite"
)

func newMicrosite(id, slug string) microsite.Microsite {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return microsite.Microsite{
		ID:        id,
		Slug:      slug,
		Status:    microsite.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPersistAndReloadAcrossInstances(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	first := New(dir, nil)
	created, err := first.CreateMicrosite(ctx, newMicrosite("id-1", "acme"))
	require.NoError(t, err)
	_, err = first.CreateLead(ctx, microsite.Lead{ID: "lead-1", MicrositeID: "id-1", Status: microsite.LeadStatusNew})
	require.NoError(t, err)
	key := "sk-test"
	_, err = first.SaveSettings(ctx, microsite.SettingsPatch{OpenAIAPIKey: &key})
	require.NoError(t, err)

	// A fresh instance over the same directory sees everything.
	second := New(dir, nil)
	got, err := second.GetMicrositeByID(ctx, "id-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, created.Slug, got.Slug)

	leads, err := second.ListLeads(ctx, "id-1")
	require.NoError(t, err)
	require.Len(t, leads, 1)

	settings, err := second.GetSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, "sk-test", settings.OpenAIAPIKey)
}

func TestMissingFilesYieldEmptyCollections(t *testing.T) {
	t.Parallel()

	s := New(filepath.Join(t.TempDir(), "never-created"), nil)
	ctx := context.Background()

	list, err := s.ListMicrosites(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	got, err := s.GetMicrositeBySlug(ctx, "anything")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCorruptFileYieldsEmptyCollection(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "microsites.json"), []byte("{not json"), 0o600))

	s := New(dir, nil)
	list, err := s.ListMicrosites(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestUnwritableDirDoesNotFailCaller(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o750) })

	s := New(filepath.Join(dir, "blocked"), nil)
	ctx := context.Background()

	created, err := s.CreateMicrosite(ctx, newMicrosite("id-1", "acme"))
	require.NoError(t, err)
	require.Equal(t, "acme", created.Slug)

	// The in-memory state still serves even though nothing was persisted.
	got, err := s.GetMicrositeByID(ctx, "id-1")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestSlugCollisionSuffixSurvivesReload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	s := New(dir, nil)
	_, err := s.CreateMicrosite(ctx, newMicrosite("id-1", "acme"))
	require.NoError(t, err)
	second, err := s.CreateMicrosite(ctx, newMicrosite("id-2", "acme"))
	require.NoError(t, err)
	require.Equal(t, "acme-2", second.Slug)

	reloaded := New(dir, nil)
	third, err := reloaded.CreateMicrosite(ctx, newMicrosite("id-3", "acme"))
	require.NoError(t, err)
	require.Equal(t, "acme-3", third.Slug)
}

func TestIncrementViewsPersists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	s := New(dir, nil)
	_, err := s.CreateMicrosite(ctx, newMicrosite("id-1", "acme"))
	require.NoError(t, err)
	require.NoError(t, s.IncrementViews(ctx, "id-1", true))
	require.NoError(t, s.IncrementViews(ctx, "id-1", false))

	reloaded := New(dir, nil)
	got, err := reloaded.GetMicrositeByID(ctx, "id-1")
	require.NoError(t, err)
	require.Equal(t, int64(2), got.Views)
	require.Equal(t, int64(1), got.UniqueVisitors)
}

func TestVisitFlowPersists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	s := New(dir, nil)
	_, err := s.CreateVisit(ctx, microsite.Visit{ID: "v-1", MicrositeID: "id-1", VisitorID: "vis-1", PageViews: 1})
	require.NoError(t, err)
	require.NoError(t, s.IncrementPageViews(ctx, "v-1"))

	reloaded := New(dir, nil)
	got, err := reloaded.GetVisitByVisitor(ctx, "id-1", "vis-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, int64(2), got.PageViews)
}
