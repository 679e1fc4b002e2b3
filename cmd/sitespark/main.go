// Package main wires together the microsite service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gcstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/getsitespark/sitespark/internal/api"
	"github.com/getsitespark/sitespark/internal/clock/system"
	"github.com/getsitespark/sitespark/internal/compose"
	"github.com/getsitespark/sitespark/internal/config"
	"github.com/getsitespark/sitespark/internal/fetcher"
	collyfetcher "github.com/getsitespark/sitespark/internal/fetcher/colly"
	"github.com/getsitespark/sitespark/internal/fetcher/detector"
	headlessfetcher "github.com/getsitespark/sitespark/internal/fetcher/headless"
	"github.com/getsitespark/sitespark/internal/generate"
	"github.com/getsitespark/sitespark/internal/id/uuid"
	"github.com/getsitespark/sitespark/internal/logging"
	"github.com/getsitespark/sitespark/internal/snapshot"
	snapshotgcs "github.com/getsitespark/sitespark/internal/snapshot/gcs"
	snapshotlocal "github.com/getsitespark/sitespark/internal/snapshot/local"
	snapshotmemory "github.com/getsitespark/sitespark/internal/snapshot/memory"
	"github.com/getsitespark/sitespark/internal/store"
	filestore "github.com/getsitespark/sitespark/internal/store/file"
	memorystore "github.com/getsitespark/sitespark/internal/store/memory"
	postgresstore "github.com/getsitespark/sitespark/internal/store/postgres"
	"github.com/getsitespark/sitespark/internal/telemetry"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry.Init()

	recordStore, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store init failed", zap.Error(err))
	}
	defer cleanup()

	snaps, err := buildSnapshotProvider(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("snapshot init failed", zap.Error(err))
	}

	clock := system.New()
	idGen := uuid.New()

	staticFetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:    cfg.Fetch.UserAgent,
		Timeout:      cfg.FetchTimeout(),
		MaxRedirects: cfg.Fetch.MaxRedirects,
	})
	var headless fetcher.Fetcher
	if cfg.Headless.Enabled {
		hf, hErr := headlessfetcher.New(headlessfetcher.Config{
			MaxParallel:       cfg.Headless.MaxParallel,
			UserAgent:         cfg.Fetch.UserAgent,
			NavigationTimeout: time.Duration(cfg.Headless.NavTimeoutSec) * time.Second,
		})
		if hErr != nil {
			logger.Warn("headless fetcher init failed", zap.Error(hErr))
		} else {
			headless = hf
		}
	}
	detect := detector.New(cfg.Headless.MinBodyBytes)

	composer := compose.New(compose.Config{
		Model:   cfg.Compose.Model,
		BaseURL: cfg.Compose.BaseURL,
		Timeout: cfg.ComposeTimeout(),
	}, logger.Named("compose"))

	generator := generate.New(
		generate.Config{
			SnapshotPrefix:      cfg.Snapshot.Prefix,
			SnapshotContentType: cfg.Snapshot.ContentType,
			ForceHeadless:       cfg.Headless.Force,
		},
		staticFetcher,
		headless,
		detect,
		composer,
		recordStore,
		snaps,
		idGen,
		clock,
		logger.Named("generate"),
	)

	apiServer := api.NewServer(recordStore, generator, idGen, clock, cfg, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func buildStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case "", "memory":
		return memorystore.New(), func() {}, nil
	case "file":
		return filestore.New(cfg.Store.DataDir, logger.Named("store")), func() {}, nil
	case "postgres":
		pg, err := postgresstore.New(ctx, postgresstore.Config{
			DSN:      cfg.Store.DSN,
			MaxConns: int32(cfg.Store.MaxOpenConns),
		})
		if err != nil {
			return nil, nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func buildSnapshotProvider(ctx context.Context, cfg config.Config, logger *zap.Logger) (snapshot.Provider, error) {
	switch cfg.Snapshot.Backend {
	case "", "none":
		return snapshot.NoOpProvider{}, nil
	case "memory":
		return snapshotmemory.NewBlobStore(), nil
	case "local":
		bs, err := snapshotlocal.New(snapshotlocal.Config{BaseDir: cfg.Snapshot.BaseDir})
		if err != nil {
			return nil, err
		}
		return bs, nil
	case "gcs":
		client, err := gcstorage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("gcs client: %w", err)
		}
		logger.Info("snapshot archive on gcs", zap.String("bucket", cfg.Snapshot.GCSBucket))
		bs, err := snapshotgcs.New(client, snapshotgcs.Config{Bucket: cfg.Snapshot.GCSBucket})
		if err != nil {
			return nil, err
		}
		return bs, nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
	}
}
