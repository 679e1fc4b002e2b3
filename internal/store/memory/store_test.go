package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/getsitespark/sitespark/internal/microsite"
)

func newMicrosite(id, slug, name string) microsite.Microsite {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return microsite.Microsite{
		ID:         id,
		Slug:       slug,
		TargetName: name,
		Status:     microsite.StatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestCreateAndGetMicrositeRoundTrip(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	created, err := s.CreateMicrosite(ctx, newMicrosite("id-1", "acme", "Acme"))
	require.NoError(t, err)

	got, err := s.GetMicrositeByID(ctx, "id-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, created, *got)

	bySlug, err := s.GetMicrositeBySlug(ctx, "acme")
	require.NoError(t, err)
	require.NotNil(t, bySlug)
	require.Equal(t, created, *bySlug)
}

func TestGetMicrositeBySlug_UnknownIsNil(t *testing.T) {
	t.Parallel()

	s := New()
	got, err := s.GetMicrositeBySlug(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCreateMicrosite_SlugCollisionGetsSuffix(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	first, err := s.CreateMicrosite(ctx, newMicrosite("id-1", "acme", "Acme"))
	require.NoError(t, err)
	require.Equal(t, "acme", first.Slug)

	second, err := s.CreateMicrosite(ctx, newMicrosite("id-2", "acme", "Acme"))
	require.NoError(t, err)
	require.Equal(t, "acme-2", second.Slug)

	third, err := s.CreateMicrosite(ctx, newMicrosite("id-3", "acme", "Acme"))
	require.NoError(t, err)
	require.Equal(t, "acme-3", third.Slug)
}

func TestUpdateMicrosite_PatchesOnlyNamedFields(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	created, err := s.CreateMicrosite(ctx, newMicrosite("id-1", "acme", "Acme"))
	require.NoError(t, err)

	status := microsite.StatusPublished
	updated, err := s.UpdateMicrosite(ctx, "id-1", microsite.MicrositePatch{Status: &status})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, microsite.StatusPublished, updated.Status)
	require.Equal(t, created.TargetName, updated.TargetName)
	require.Equal(t, created.Slug, updated.Slug)

	missing, err := s.UpdateMicrosite(ctx, "unknown", microsite.MicrositePatch{Status: &status})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestIncrementViews_UniqueFlag(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	_, err := s.CreateMicrosite(ctx, newMicrosite("id-1", "acme", "Acme"))
	require.NoError(t, err)

	require.NoError(t, s.IncrementViews(ctx, "id-1", true))
	got, err := s.GetMicrositeByID(ctx, "id-1")
	require.NoError(t, err)
	require.Equal(t, int64(1), got.Views)
	require.Equal(t, int64(1), got.UniqueVisitors)

	require.NoError(t, s.IncrementViews(ctx, "id-1", false))
	got, err = s.GetMicrositeByID(ctx, "id-1")
	require.NoError(t, err)
	require.Equal(t, int64(2), got.Views)
	require.Equal(t, int64(1), got.UniqueVisitors)
}

func TestLeadsLifecycle(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	lead := microsite.Lead{ID: "lead-1", MicrositeID: "id-1", Email: "a@b.co", Status: microsite.LeadStatusNew}
	_, err := s.CreateLead(ctx, lead)
	require.NoError(t, err)
	_, err = s.CreateLead(ctx, microsite.Lead{ID: "lead-2", MicrositeID: "other"})
	require.NoError(t, err)

	all, err := s.ListLeads(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	filtered, err := s.ListLeads(ctx, "id-1")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "lead-1", filtered[0].ID)

	updated, err := s.UpdateLeadStatus(ctx, "lead-1", microsite.LeadStatusQualified)
	require.NoError(t, err)
	require.Equal(t, microsite.LeadStatusQualified, updated.Status)

	missing, err := s.UpdateLeadStatus(ctx, "ghost", microsite.LeadStatusLost)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestVisitUpsertFlow(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	none, err := s.GetVisitByVisitor(ctx, "id-1", "vis-1")
	require.NoError(t, err)
	require.Nil(t, none)

	_, err = s.CreateVisit(ctx, microsite.Visit{ID: "v-1", MicrositeID: "id-1", VisitorID: "vis-1", PageViews: 1})
	require.NoError(t, err)

	got, err := s.GetVisitByVisitor(ctx, "id-1", "vis-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, int64(1), got.PageViews)

	require.NoError(t, s.IncrementPageViews(ctx, "v-1"))
	got, err = s.GetVisitByVisitor(ctx, "id-1", "vis-1")
	require.NoError(t, err)
	require.Equal(t, int64(2), got.PageViews)
}

func TestSettingsMerge(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	initial, err := s.GetSettings(ctx)
	require.NoError(t, err)
	require.Empty(t, initial.OpenAIAPIKey)
	require.False(t, initial.SetupComplete)

	key := "sk-test"
	saved, err := s.SaveSettings(ctx, microsite.SettingsPatch{OpenAIAPIKey: &key})
	require.NoError(t, err)
	require.Equal(t, "sk-test", saved.OpenAIAPIKey)

	done := true
	saved, err = s.SaveSettings(ctx, microsite.SettingsPatch{SetupComplete: &done})
	require.NoError(t, err)
	require.Equal(t, "sk-test", saved.OpenAIAPIKey)
	require.True(t, saved.SetupComplete)
}

func TestReset(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	_, err := s.CreateMicrosite(ctx, newMicrosite("id-1", "acme", "Acme"))
	require.NoError(t, err)

	s.Reset()

	list, err := s.ListMicrosites(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}
