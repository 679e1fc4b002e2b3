// Package postgres provides a Postgres-backed Store.
//
// Records are stored as JSONB documents; the fields mutated outside the
// document (view counters, lead status, visit page views) live in their own
// columns so increments are single UPDATE statements, and reads overlay the
// column values onto the decoded document.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/getsitespark/sitespark/internal/microsite"
)

// DB is the subset of pgxpool.Pool the store needs; pgxmock satisfies it in
// tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MaxConnLifetime time.Duration
}

// Store implements store.Store on Postgres.
type Store struct {
	db DB
}

// New creates a Store using a fresh connection pool.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("store.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{db: pool}, nil
}

// NewWithDB constructs a Store from an existing pool (primarily for testing).
func NewWithDB(db DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &Store{db: db}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.db.Close()
}

// EnsureSchema creates the tables when they do not exist yet, keeping the
// "safe to call with no prior initialization" contract of the other backends.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS microsites (
			id TEXT PRIMARY KEY,
			slug TEXT NOT NULL,
			doc JSONB NOT NULL,
			views BIGINT NOT NULL DEFAULT 0,
			unique_visitors BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS leads (
			id TEXT PRIMARY KEY,
			microsite_id TEXT NOT NULL,
			doc JSONB NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS visits (
			id TEXT PRIMARY KEY,
			microsite_id TEXT NOT NULL,
			visitor_id TEXT NOT NULL,
			page_views BIGINT NOT NULL DEFAULT 0,
			first_seen TIMESTAMPTZ NOT NULL,
			last_seen TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			id INT PRIMARY KEY CHECK (id = 1),
			openai_api_key TEXT NOT NULL DEFAULT '',
			setup_complete BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// CreateMicrosite inserts a record. Slug disambiguation is a read-then-insert
// sequence, not transactional; concurrent creators of the same slug can
// still collide, which matches the accepted consistency model.
func (s *Store) CreateMicrosite(ctx context.Context, m microsite.Microsite) (microsite.Microsite, error) {
	slug, err := s.freeSlug(ctx, m.Slug)
	if err != nil {
		return microsite.Microsite{}, err
	}
	m.Slug = slug

	doc := m
	doc.Views = 0
	doc.UniqueVisitors = 0
	payload, err := json.Marshal(doc)
	if err != nil {
		return microsite.Microsite{}, fmt.Errorf("encode microsite: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO microsites (id, slug, doc, views, unique_visitors, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Slug, payload, m.Views, m.UniqueVisitors, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return microsite.Microsite{}, fmt.Errorf("insert microsite: %w", err)
	}
	return m, nil
}

func (s *Store) freeSlug(ctx context.Context, slug string) (string, error) {
	candidate := slug
	for i := 2; ; i++ {
		var exists bool
		err := s.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM microsites WHERE slug = $1)`, candidate).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}
}

func (s *Store) scanMicrosite(row pgx.Row) (*microsite.Microsite, error) {
	var (
		payload        []byte
		views          int64
		uniqueVisitors int64
		updatedAt      time.Time
	)
	err := row.Scan(&payload, &views, &uniqueVisitors, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan microsite: %w", err)
	}
	var m microsite.Microsite
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("decode microsite: %w", err)
	}
	m.Views = views
	m.UniqueVisitors = uniqueVisitors
	m.UpdatedAt = updatedAt
	return &m, nil
}

// GetMicrositeByID returns nil when the id is unknown.
func (s *Store) GetMicrositeByID(ctx context.Context, id string) (*microsite.Microsite, error) {
	return s.scanMicrosite(s.db.QueryRow(ctx,
		`SELECT doc, views, unique_visitors, updated_at FROM microsites WHERE id = $1`, id))
}

// GetMicrositeBySlug returns the oldest record carrying the slug.
func (s *Store) GetMicrositeBySlug(ctx context.Context, slug string) (*microsite.Microsite, error) {
	return s.scanMicrosite(s.db.QueryRow(ctx,
		`SELECT doc, views, unique_visitors, updated_at FROM microsites WHERE slug = $1 ORDER BY created_at LIMIT 1`, slug))
}

// ListMicrosites returns all records in creation order.
func (s *Store) ListMicrosites(ctx context.Context) ([]microsite.Microsite, error) {
	rows, err := s.db.Query(ctx,
		`SELECT doc, views, unique_visitors, updated_at FROM microsites ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list microsites: %w", err)
	}
	defer rows.Close()

	out := []microsite.Microsite{}
	for rows.Next() {
		var (
			payload        []byte
			views          int64
			uniqueVisitors int64
			updatedAt      time.Time
		)
		if err := rows.Scan(&payload, &views, &uniqueVisitors, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan microsite row: %w", err)
		}
		var m microsite.Microsite
		if err := json.Unmarshal(payload, &m); err != nil {
			return nil, fmt.Errorf("decode microsite row: %w", err)
		}
		m.Views = views
		m.UniqueVisitors = uniqueVisitors
		m.UpdatedAt = updatedAt
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate microsites: %w", err)
	}
	return out, nil
}

// UpdateMicrosite reads the document, applies the patch and writes it back.
// Last writer wins, same as the other backends.
func (s *Store) UpdateMicrosite(ctx context.Context, id string, patch microsite.MicrositePatch) (*microsite.Microsite, error) {
	current, err := s.GetMicrositeByID(ctx, id)
	if err != nil || current == nil {
		return nil, err
	}
	current.Apply(patch)
	current.UpdatedAt = time.Now().UTC()

	doc := *current
	doc.Views = 0
	doc.UniqueVisitors = 0
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode microsite: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`UPDATE microsites SET doc = $2, updated_at = $3 WHERE id = $1`,
		id, payload, current.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update microsite: %w", err)
	}
	return current, nil
}

// IncrementViews is a single UPDATE, so concurrent callers cannot lose
// increments on this backend.
func (s *Store) IncrementViews(ctx context.Context, id string, unique bool) error {
	_, err := s.db.Exec(ctx,
		`UPDATE microsites
		 SET views = views + 1,
		     unique_visitors = unique_visitors + CASE WHEN $2 THEN 1 ELSE 0 END
		 WHERE id = $1`,
		id, unique)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// CreateLead inserts a lead row.
func (s *Store) CreateLead(ctx context.Context, l microsite.Lead) (microsite.Lead, error) {
	payload, err := json.Marshal(l)
	if err != nil {
		return microsite.Lead{}, fmt.Errorf("encode lead: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO leads (id, microsite_id, doc, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.MicrositeID, payload, string(l.Status), l.CreatedAt)
	if err != nil {
		return microsite.Lead{}, fmt.Errorf("insert lead: %w", err)
	}
	return l, nil
}

// ListLeads filters by microsite id; empty filter returns everything.
func (s *Store) ListLeads(ctx context.Context, micrositeID string) ([]microsite.Lead, error) {
	rows, err := s.db.Query(ctx,
		`SELECT doc, status FROM leads WHERE ($1 = '' OR microsite_id = $1) ORDER BY created_at`,
		micrositeID)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	out := []microsite.Lead{}
	for rows.Next() {
		var (
			payload []byte
			status  string
		)
		if err := rows.Scan(&payload, &status); err != nil {
			return nil, fmt.Errorf("scan lead row: %w", err)
		}
		var l microsite.Lead
		if err := json.Unmarshal(payload, &l); err != nil {
			return nil, fmt.Errorf("decode lead row: %w", err)
		}
		l.Status = microsite.LeadStatus(status)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return out, nil
}

// UpdateLeadStatus flips the status column; nil when the id is unknown.
func (s *Store) UpdateLeadStatus(ctx context.Context, id string, status microsite.LeadStatus) (*microsite.Lead, error) {
	tag, err := s.db.Exec(ctx, `UPDATE leads SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return nil, fmt.Errorf("update lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	var payload []byte
	var statusCol string
	err = s.db.QueryRow(ctx, `SELECT doc, status FROM leads WHERE id = $1`, id).Scan(&payload, &statusCol)
	if err != nil {
		return nil, fmt.Errorf("read lead: %w", err)
	}
	var l microsite.Lead
	if err := json.Unmarshal(payload, &l); err != nil {
		return nil, fmt.Errorf("decode lead: %w", err)
	}
	l.Status = microsite.LeadStatus(statusCol)
	return &l, nil
}

// CreateVisit inserts the first row for a (microsite, visitor) pair.
func (s *Store) CreateVisit(ctx context.Context, v microsite.Visit) (microsite.Visit, error) {
	_, err := s.db.Exec(ctx,
		`INSERT INTO visits (id, microsite_id, visitor_id, page_views, first_seen, last_seen)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		v.ID, v.MicrositeID, v.VisitorID, v.PageViews, v.FirstSeen, v.LastSeen)
	if err != nil {
		return microsite.Visit{}, fmt.Errorf("insert visit: %w", err)
	}
	return v, nil
}

// GetVisitByVisitor returns nil when the pair is unseen.
func (s *Store) GetVisitByVisitor(ctx context.Context, micrositeID, visitorID string) (*microsite.Visit, error) {
	var v microsite.Visit
	err := s.db.QueryRow(ctx,
		`SELECT id, microsite_id, visitor_id, page_views, first_seen, last_seen
		 FROM visits WHERE microsite_id = $1 AND visitor_id = $2`,
		micrositeID, visitorID).
		Scan(&v.ID, &v.MicrositeID, &v.VisitorID, &v.PageViews, &v.FirstSeen, &v.LastSeen)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read visit: %w", err)
	}
	return &v, nil
}

// IncrementPageViews is a single UPDATE on the counter column.
func (s *Store) IncrementPageViews(ctx context.Context, visitID string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE visits SET page_views = page_views + 1, last_seen = $2 WHERE id = $1`,
		visitID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("increment page views: %w", err)
	}
	return nil
}

// GetSettings returns the singleton row, zero-valued when absent.
func (s *Store) GetSettings(ctx context.Context) (microsite.Settings, error) {
	var out microsite.Settings
	err := s.db.QueryRow(ctx,
		`SELECT openai_api_key, setup_complete, updated_at FROM settings WHERE id = 1`).
		Scan(&out.OpenAIAPIKey, &out.SetupComplete, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return microsite.Settings{}, nil
	}
	if err != nil {
		return microsite.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	return out, nil
}

// SaveSettings merges the patch in Go and upserts the singleton row.
func (s *Store) SaveSettings(ctx context.Context, patch microsite.SettingsPatch) (microsite.Settings, error) {
	current, err := s.GetSettings(ctx)
	if err != nil {
		return microsite.Settings{}, err
	}
	current.Apply(patch)
	current.UpdatedAt = time.Now().UTC()

	_, err = s.db.Exec(ctx,
		`INSERT INTO settings (id, openai_api_key, setup_complete, updated_at)
		 VALUES (1, $1, $2, $3)
		 ON CONFLICT (id) DO UPDATE
		 SET openai_api_key = EXCLUDED.openai_api_key,
		     setup_complete = EXCLUDED.setup_complete,
		     updated_at = EXCLUDED.updated_at`,
		current.OpenAIAPIKey, current.SetupComplete, current.UpdatedAt)
	if err != nil {
		return microsite.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return current, nil
}
