// Package generate runs the microsite creation pipeline: fetch the target
// page, extract a company profile, compose personalized content, archive the
// page source and persist the record.
//
// Only URL validation surfaces as an error to the caller. An unreachable or
// empty target degrades to a hostname-derived profile, a missing LLM key
// degrades to template content, and a failed snapshot write is logged; the
// pipeline always produces a microsite once the URL parses.
package generate

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/getsitespark/sitespark/internal/compose"
	"github.com/getsitespark/sitespark/internal/extract"
	"github.com/getsitespark/sitespark/internal/fetcher"
	"github.com/getsitespark/sitespark/internal/fetcher/detector"
	"github.com/getsitespark/sitespark/internal/microsite"
	"github.com/getsitespark/sitespark/internal/snapshot"
	"github.com/getsitespark/sitespark/internal/store"
	"github.com/getsitespark/sitespark/internal/telemetry"
)

// IDGenerator produces record identifiers.
type IDGenerator interface {
	NewID() (string, error)
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Composer produces personalized content for a profile.
type Composer interface {
	Compose(ctx context.Context, profile microsite.CompanyProfile, settings microsite.Settings) (microsite.PersonalizedContent, compose.Mode)
}

// Config carries the pipeline's snapshot parameters. ForceHeadless renders
// every successfully fetched page headlessly, bypassing the sparse-page
// heuristic.
type Config struct {
	SnapshotPrefix      string
	SnapshotContentType string
	ForceHeadless       bool
}

// Generator wires the pipeline stages together. The headless fetcher is
// optional; when nil, pages are taken as the static fetcher returned them.
type Generator struct {
	cfg      Config
	static   fetcher.Fetcher
	headless fetcher.Fetcher
	detector *detector.Heuristic
	composer Composer
	store    store.Store
	snaps    snapshot.Provider
	ids      IDGenerator
	clock    Clock
	logger   *zap.Logger
}

// New creates a Generator.
func New(
	cfg Config,
	static fetcher.Fetcher,
	headless fetcher.Fetcher,
	det *detector.Heuristic,
	composer Composer,
	st store.Store,
	snaps snapshot.Provider,
	ids IDGenerator,
	clock Clock,
	logger *zap.Logger,
) *Generator {
	if det == nil {
		det = detector.New(0)
	}
	if snaps == nil {
		snaps = snapshot.NoOpProvider{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		cfg:      cfg,
		static:   static,
		headless: headless,
		detector: det,
		composer: composer,
		store:    st,
		snaps:    snaps,
		ids:      ids,
		clock:    clock,
		logger:   logger,
	}
}

// Generate builds and persists a microsite for the target URL. The returned
// error is non-nil only for an unparseable URL or an internal failure (id
// generation, store write); target-site and LLM failures degrade instead.
func (g *Generator) Generate(ctx context.Context, rawURL string) (microsite.Microsite, error) {
	fullURL, host, err := fetcher.NormalizeURL(rawURL)
	if err != nil {
		telemetry.ObserveGeneration("invalid_url")
		return microsite.Microsite{}, fmt.Errorf("invalid url: %w", err)
	}

	page, fetchErr := g.static.Fetch(ctx, fullURL)
	telemetry.ObserveFetch("static", fetchErr)
	if fetchErr == nil && g.headless != nil && (g.cfg.ForceHeadless || g.detector.ShouldPromote(page.Body)) {
		promoted, headlessErr := g.headless.Fetch(ctx, fullURL)
		telemetry.ObserveFetch("headless", headlessErr)
		if headlessErr == nil {
			page = promoted
		} else {
			g.logger.Warn("headless fetch failed, keeping static page",
				zap.String("url", fullURL), zap.Error(headlessErr))
		}
	}

	var profile microsite.CompanyProfile
	if fetchErr != nil {
		g.logger.Warn("target fetch failed, using hostname fallback profile",
			zap.String("url", fullURL), zap.Error(fetchErr))
		profile = extract.Fallback(host)
	} else {
		if page.Host != "" {
			host = page.Host
		}
		profile = extract.Profile(page.Body, host)
	}

	settings, err := g.store.GetSettings(ctx)
	if err != nil {
		g.logger.Warn("read settings failed, composing without llm", zap.Error(err))
		settings = microsite.Settings{}
	}
	content, mode := g.composer.Compose(ctx, profile, settings)
	telemetry.ObserveCompose(string(mode))

	id, err := g.ids.NewID()
	if err != nil {
		telemetry.ObserveGeneration("id_error")
		return microsite.Microsite{}, fmt.Errorf("generate id: %w", err)
	}
	now := g.clock.Now()

	record := microsite.Microsite{
		ID:                id,
		Slug:              microsite.Slugify(profile.Name),
		TargetURL:         fullURL,
		TargetName:        profile.Name,
		TargetIndustry:    profile.Industry,
		TargetSize:        profile.CompanySize,
		TargetDescription: profile.Description,
		Profile:           profile,
		Content:           content,
		Status:            microsite.StatusPublished,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if fetchErr == nil && len(page.Body) > 0 {
		g.archive(ctx, id, page.Body)
	}

	created, err := g.store.CreateMicrosite(ctx, record)
	if err != nil {
		telemetry.ObserveGeneration("store_error")
		return microsite.Microsite{}, fmt.Errorf("persist microsite: %w", err)
	}

	outcome := "created"
	if fetchErr != nil {
		outcome = "created_fallback"
	}
	telemetry.ObserveGeneration(outcome)
	g.logger.Info("microsite generated",
		zap.String("id", created.ID),
		zap.String("slug", created.Slug),
		zap.String("target", fullURL),
		zap.String("compose_mode", string(mode)),
		zap.Bool("headless", page.UsedHeadless))
	return created, nil
}

func (g *Generator) archive(ctx context.Context, id string, body []byte) {
	contentType := g.cfg.SnapshotContentType
	if contentType == "" {
		contentType = "text/html; charset=utf-8"
	}
	path := snapshot.ObjectPath(g.cfg.SnapshotPrefix, id)
	uri, err := g.snaps.PutObject(ctx, path, contentType, bytes.NewReader(body))
	if err != nil {
		g.logger.Warn("snapshot write failed", zap.String("path", path), zap.Error(err))
		return
	}
	g.logger.Debug("snapshot stored", zap.String("uri", uri))
}
