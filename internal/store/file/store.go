// Package file provides a Store persisted as one JSON file per collection.
//
// The backend is deliberately degraded-but-available: reads of missing or
// unreadable files yield empty collections, and failed writes are logged
// while the in-memory state keeps serving. On ephemeral filesystems this
// means durability is best-effort, which callers accept.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/getsitespark/sitespark/internal/logging"
	"github.com/getsitespark/sitespark/internal/microsite"
)

const (
	micrositesFile = "microsites.json"
	leadsFile      = "leads.json"
	visitsFile     = "visits.json"
	settingsFile   = "settings.json"
)

// Store keeps collections in memory and rewrites the backing JSON file after
// every mutation. One mutex serializes all mutations within the process;
// concurrent processes writing the same files remain last-writer-wins.
type Store struct {
	mu         sync.RWMutex
	dir        string
	logger     *zap.Logger
	microsites []microsite.Microsite
	leads      []microsite.Lead
	visits     []microsite.Visit
	settings   microsite.Settings
	loaded     bool
}

// New creates a Store rooted at dir. The directory is created lazily on the
// first write, so construction never fails.
func New(dir string, logger *zap.Logger) *Store {
	return &Store{dir: dir, logger: logging.NewNopSafe(logger)}
}

// ensureLoaded reads every collection file once. Missing or corrupt files
// become empty collections rather than errors.
func (s *Store) ensureLoaded() {
	if s.loaded {
		return
	}
	s.loaded = true
	readJSON(filepath.Join(s.dir, micrositesFile), &s.microsites, s.logger)
	readJSON(filepath.Join(s.dir, leadsFile), &s.leads, s.logger)
	readJSON(filepath.Join(s.dir, visitsFile), &s.visits, s.logger)
	readJSON(filepath.Join(s.dir, settingsFile), &s.settings, s.logger)
}

func readJSON(path string, target any, logger *zap.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("read collection failed, starting empty", zap.String("path", path), zap.Error(err))
		}
		return
	}
	if err := json.Unmarshal(data, target); err != nil {
		logger.Warn("decode collection failed, starting empty", zap.String("path", path), zap.Error(err))
	}
}

// persist writes one collection. Failures are logged, never returned: the
// caller's operation has already taken effect in memory.
func (s *Store) persist(name string, value any) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		s.logger.Warn("create data dir failed, write skipped", zap.String("dir", s.dir), zap.Error(err))
		return
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		s.logger.Warn("encode collection failed, write skipped", zap.String("file", name), zap.Error(err))
		return
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		s.logger.Warn("write collection failed, change not durable", zap.String("path", path), zap.Error(err))
	}
}

// CreateMicrosite appends a record, disambiguating slug collisions.
func (s *Store) CreateMicrosite(_ context.Context, m microsite.Microsite) (microsite.Microsite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	for _, existing := range s.microsites {
		if existing.ID == m.ID {
			return microsite.Microsite{}, fmt.Errorf("microsite %s already exists", m.ID)
		}
	}
	m.Slug = s.freeSlugLocked(m.Slug)
	s.microsites = append(s.microsites, m)
	s.persist(micrositesFile, s.microsites)
	return m, nil
}

func (s *Store) freeSlugLocked(slug string) string {
	taken := func(candidate string) bool {
		for _, m := range s.microsites {
			if m.Slug == candidate {
				return true
			}
		}
		return false
	}
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

// GetMicrositeByID linear-scans the collection; nil when absent.
func (s *Store) GetMicrositeByID(_ context.Context, id string) (*microsite.Microsite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	for _, m := range s.microsites {
		if m.ID == id {
			rec := m
			return &rec, nil
		}
	}
	return nil, nil
}

// GetMicrositeBySlug linear-scans the collection; nil when absent.
func (s *Store) GetMicrositeBySlug(_ context.Context, slug string) (*microsite.Microsite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	for _, m := range s.microsites {
		if m.Slug == slug {
			rec := m
			return &rec, nil
		}
	}
	return nil, nil
}

// ListMicrosites returns all records in creation order.
func (s *Store) ListMicrosites(_ context.Context) ([]microsite.Microsite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	out := make([]microsite.Microsite, len(s.microsites))
	copy(out, s.microsites)
	return out, nil
}

// UpdateMicrosite shallow-merges the patch and rewrites the file.
func (s *Store) UpdateMicrosite(_ context.Context, id string, patch microsite.MicrositePatch) (*microsite.Microsite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	for i := range s.microsites {
		if s.microsites[i].ID == id {
			s.microsites[i].Apply(patch)
			s.microsites[i].UpdatedAt = time.Now().UTC()
			s.persist(micrositesFile, s.microsites)
			rec := s.microsites[i]
			return &rec, nil
		}
	}
	return nil, nil
}

// IncrementViews bumps counters and rewrites the file.
func (s *Store) IncrementViews(_ context.Context, id string, unique bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	for i := range s.microsites {
		if s.microsites[i].ID == id {
			s.microsites[i].Views++
			if unique {
				s.microsites[i].UniqueVisitors++
			}
			s.persist(micrositesFile, s.microsites)
			return nil
		}
	}
	return nil
}

// CreateLead appends a lead and rewrites the file.
func (s *Store) CreateLead(_ context.Context, l microsite.Lead) (microsite.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	s.leads = append(s.leads, l)
	s.persist(leadsFile, s.leads)
	return l, nil
}

// ListLeads filters by microsite id; empty filter returns everything.
func (s *Store) ListLeads(_ context.Context, micrositeID string) ([]microsite.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	out := []microsite.Lead{}
	for _, l := range s.leads {
		if micrositeID == "" || l.MicrositeID == micrositeID {
			out = append(out, l)
		}
	}
	return out, nil
}

// UpdateLeadStatus rewrites the lead file with the new status.
func (s *Store) UpdateLeadStatus(_ context.Context, id string, status microsite.LeadStatus) (*microsite.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	for i := range s.leads {
		if s.leads[i].ID == id {
			s.leads[i].Status = status
			s.persist(leadsFile, s.leads)
			rec := s.leads[i]
			return &rec, nil
		}
	}
	return nil, nil
}

// CreateVisit appends a visit row and rewrites the file.
func (s *Store) CreateVisit(_ context.Context, v microsite.Visit) (microsite.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	s.visits = append(s.visits, v)
	s.persist(visitsFile, s.visits)
	return v, nil
}

// GetVisitByVisitor linear-scans for the (microsite, visitor) pair.
func (s *Store) GetVisitByVisitor(_ context.Context, micrositeID, visitorID string) (*microsite.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	for _, v := range s.visits {
		if v.MicrositeID == micrositeID && v.VisitorID == visitorID {
			rec := v
			return &rec, nil
		}
	}
	return nil, nil
}

// IncrementPageViews bumps the per-visitor counter and rewrites the file.
func (s *Store) IncrementPageViews(_ context.Context, visitID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	for i := range s.visits {
		if s.visits[i].ID == visitID {
			s.visits[i].PageViews++
			s.visits[i].LastSeen = time.Now().UTC()
			s.persist(visitsFile, s.visits)
			return nil
		}
	}
	return nil
}

// GetSettings returns the singleton, zero-valued before first save.
func (s *Store) GetSettings(_ context.Context) (microsite.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	return s.settings, nil
}

// SaveSettings merges the patch and rewrites the settings file.
func (s *Store) SaveSettings(_ context.Context, patch microsite.SettingsPatch) (microsite.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	s.settings.Apply(patch)
	s.settings.UpdatedAt = time.Now().UTC()
	s.persist(settingsFile, s.settings)
	return s.settings, nil
}
