// Package memory provides an in-process Store for development and testing.
// Data survives only as long as the process.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/getsitespark/sitespark/internal/microsite"
)

// Store keeps every collection in maps guarded by one mutex, so counter
// increments and settings merges are serialized within the process.
type Store struct {
	mu         sync.RWMutex
	microsites map[string]microsite.Microsite
	order      []string
	leads      map[string]microsite.Lead
	leadOrder  []string
	visits     map[string]microsite.Visit
	settings   microsite.Settings
}

// New constructs an empty Store.
func New() *Store {
	return &Store{
		microsites: make(map[string]microsite.Microsite),
		leads:      make(map[string]microsite.Lead),
		visits:     make(map[string]microsite.Visit),
	}
}

// Reset drops all data. Tests use this between cases.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.microsites = make(map[string]microsite.Microsite)
	s.order = nil
	s.leads = make(map[string]microsite.Lead)
	s.leadOrder = nil
	s.visits = make(map[string]microsite.Visit)
	s.settings = microsite.Settings{}
}

// CreateMicrosite stores a new record, disambiguating slug collisions with a
// numeric suffix chosen under the write lock.
func (s *Store) CreateMicrosite(_ context.Context, m microsite.Microsite) (microsite.Microsite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.microsites[m.ID]; exists {
		return microsite.Microsite{}, fmt.Errorf("microsite %s already exists", m.ID)
	}
	m.Slug = disambiguateSlug(m.Slug, func(candidate string) bool {
		return s.slugTakenLocked(candidate)
	})
	s.microsites[m.ID] = m
	s.order = append(s.order, m.ID)
	return m, nil
}

func (s *Store) slugTakenLocked(slug string) bool {
	for _, m := range s.microsites {
		if m.Slug == slug {
			return true
		}
	}
	return false
}

// disambiguateSlug appends -2, -3, ... until the candidate is free.
func disambiguateSlug(slug string, taken func(string) bool) string {
	if !taken(slug) {
		return slug
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", slug, i)
		if !taken(candidate) {
			return candidate
		}
	}
}

// GetMicrositeByID returns nil when the id is unknown.
func (s *Store) GetMicrositeByID(_ context.Context, id string) (*microsite.Microsite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.microsites[id]; ok {
		rec := m
		return &rec, nil
	}
	return nil, nil
}

// GetMicrositeBySlug returns nil when no record carries the slug.
func (s *Store) GetMicrositeBySlug(_ context.Context, slug string) (*microsite.Microsite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if m := s.microsites[id]; m.Slug == slug {
			rec := m
			return &rec, nil
		}
	}
	return nil, nil
}

// ListMicrosites returns all records in creation order.
func (s *Store) ListMicrosites(_ context.Context) ([]microsite.Microsite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]microsite.Microsite, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.microsites[id])
	}
	return out, nil
}

// UpdateMicrosite shallow-merges the patch into the stored record.
func (s *Store) UpdateMicrosite(_ context.Context, id string, patch microsite.MicrositePatch) (*microsite.Microsite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.microsites[id]
	if !ok {
		return nil, nil
	}
	m.Apply(patch)
	m.UpdatedAt = time.Now().UTC()
	s.microsites[id] = m
	rec := m
	return &rec, nil
}

// IncrementViews bumps counters in place under the write lock.
func (s *Store) IncrementViews(_ context.Context, id string, unique bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.microsites[id]
	if !ok {
		return nil
	}
	m.Views++
	if unique {
		m.UniqueVisitors++
	}
	s.microsites[id] = m
	return nil
}

// CreateLead appends a lead.
func (s *Store) CreateLead(_ context.Context, l microsite.Lead) (microsite.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads[l.ID] = l
	s.leadOrder = append(s.leadOrder, l.ID)
	return l, nil
}

// ListLeads returns leads in creation order, optionally filtered by
// microsite id. An empty filter returns everything.
func (s *Store) ListLeads(_ context.Context, micrositeID string) ([]microsite.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []microsite.Lead{}
	for _, id := range s.leadOrder {
		l := s.leads[id]
		if micrositeID == "" || l.MicrositeID == micrositeID {
			out = append(out, l)
		}
	}
	return out, nil
}

// UpdateLeadStatus moves a lead through the funnel; nil when id is unknown.
func (s *Store) UpdateLeadStatus(_ context.Context, id string, status microsite.LeadStatus) (*microsite.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leads[id]
	if !ok {
		return nil, nil
	}
	l.Status = status
	s.leads[id] = l
	rec := l
	return &rec, nil
}

// CreateVisit stores the first row for a (microsite, visitor) pair.
func (s *Store) CreateVisit(_ context.Context, v microsite.Visit) (microsite.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visits[v.ID] = v
	return v, nil
}

// GetVisitByVisitor does a linear scan; nil when the pair is unseen.
func (s *Store) GetVisitByVisitor(_ context.Context, micrositeID, visitorID string) (*microsite.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.visits {
		if v.MicrositeID == micrositeID && v.VisitorID == visitorID {
			rec := v
			return &rec, nil
		}
	}
	return nil, nil
}

// IncrementPageViews bumps the per-visitor counter in place.
func (s *Store) IncrementPageViews(_ context.Context, visitID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visits[visitID]
	if !ok {
		return nil
	}
	v.PageViews++
	v.LastSeen = time.Now().UTC()
	s.visits[visitID] = v
	return nil
}

// GetSettings returns the singleton.
func (s *Store) GetSettings(_ context.Context) (microsite.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

// SaveSettings shallow-merges the patch into the singleton.
func (s *Store) SaveSettings(_ context.Context, patch microsite.SettingsPatch) (microsite.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Apply(patch)
	s.settings.UpdatedAt = time.Now().UTC()
	return s.settings, nil
}
