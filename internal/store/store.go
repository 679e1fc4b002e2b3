// Package store defines the persistence interface for microsites, leads,
// visits and settings.
//
// All backends share the same weak-consistency contract: absent records are
// (nil, nil), not errors; mutations are serialized within one process but
// cross-process writers on shared files remain last-writer-wins; failed
// writes on the file backend are logged and the effect simply is not durable.
package store

import (
	"context"

	"github.com/getsitespark/sitespark/internal/microsite"
)

// Store is implemented by the memory, file and postgres backends. The
// backend is selected by configuration at process start.
type Store interface {
	// CreateMicrosite persists a new record. The slug may be rewritten with
	// a numeric suffix when the derived slug is already taken.
	CreateMicrosite(ctx context.Context, m microsite.Microsite) (microsite.Microsite, error)
	GetMicrositeByID(ctx context.Context, id string) (*microsite.Microsite, error)
	GetMicrositeBySlug(ctx context.Context, slug string) (*microsite.Microsite, error)
	ListMicrosites(ctx context.Context) ([]microsite.Microsite, error)
	// UpdateMicrosite shallow-merges the patch; nil result means unknown id.
	UpdateMicrosite(ctx context.Context, id string, patch microsite.MicrositePatch) (*microsite.Microsite, error)
	// IncrementViews always bumps the view counter and bumps unique
	// visitors only when unique is true.
	IncrementViews(ctx context.Context, id string, unique bool) error

	CreateLead(ctx context.Context, l microsite.Lead) (microsite.Lead, error)
	ListLeads(ctx context.Context, micrositeID string) ([]microsite.Lead, error)
	UpdateLeadStatus(ctx context.Context, id string, status microsite.LeadStatus) (*microsite.Lead, error)

	CreateVisit(ctx context.Context, v microsite.Visit) (microsite.Visit, error)
	GetVisitByVisitor(ctx context.Context, micrositeID, visitorID string) (*microsite.Visit, error)
	IncrementPageViews(ctx context.Context, visitID string) error

	GetSettings(ctx context.Context) (microsite.Settings, error)
	SaveSettings(ctx context.Context, patch microsite.SettingsPatch) (microsite.Settings, error)
}
