package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/cesargomez89/netflix-insights/internal/catalog"
	"github.com/cesargomez89/netflix-insights/internal/config"
	"github.com/cesargomez89/netflix-insights/internal/dataset"
	"github.com/cesargomez89/netflix-insights/internal/derive"
	"github.com/cesargomez89/netflix-insights/internal/logger"
	"github.com/cesargomez89/netflix-insights/internal/search"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

const loadKey = "catalog"

// TitleLoader obtains the base table. *dataset.Loader satisfies it.
type TitleLoader interface {
	LoadTitles(ctx context.Context, hint dataset.Hint) (*table.Table, dataset.Status)
}

// DownloadCache holds remote dataset copies. *store.DB satisfies it.
type DownloadCache interface {
	ClearDownloads() (int64, error)
}

// CatalogService owns the loaded catalog. The first Get loads it; concurrent
// callers share that load and every later caller gets the same handle until
// Reload replaces it.
type CatalogService struct {
	Loader TitleLoader
	Config *config.Config
	Logger *logger.Logger
	// Downloads is optional; without it Refetch behaves like Reload.
	Downloads DownloadCache

	group   singleflight.Group
	mu      sync.RWMutex
	current *catalog.Catalog
}

func NewCatalogService(loader TitleLoader, cfg *config.Config, log *logger.Logger) *CatalogService {
	return &CatalogService{Loader: loader, Config: cfg, Logger: log.WithComponent("catalog")}
}

// Get returns the loaded catalog, loading it on first use. The load runs
// detached from ctx so one caller giving up does not fail the others.
func (s *CatalogService) Get(ctx context.Context) (*catalog.Catalog, error) {
	if c := s.Current(); c != nil {
		return c, nil
	}
	return s.load(ctx, false)
}

// Reload discards the current catalog and loads a fresh one.
func (s *CatalogService) Reload(ctx context.Context) (*catalog.Catalog, error) {
	return s.load(ctx, true)
}

// Refetch drops cached remote copies before reloading, so a remote dataset
// is downloaded again even if its cache entry has not expired.
func (s *CatalogService) Refetch(ctx context.Context) (*catalog.Catalog, error) {
	if s.Downloads != nil {
		n, err := s.Downloads.ClearDownloads()
		if err != nil {
			return nil, fmt.Errorf("clear download cache: %w", err)
		}
		s.Logger.Info("Cleared cached downloads", "count", n)
	}
	return s.load(ctx, true)
}

// Current returns the loaded catalog without triggering a load.
func (s *CatalogService) Current() *catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *CatalogService) load(ctx context.Context, force bool) (*catalog.Catalog, error) {
	ch := s.group.DoChan(loadKey, func() (any, error) {
		if !force {
			// another flight may have finished while this one waited
			if c := s.Current(); c != nil {
				return c, nil
			}
		}
		c := s.build(context.WithoutCancel(ctx))
		// The replaced catalog is left open: callers may still hold it, and
		// its in-memory index is reclaimed once the last reference drops.
		s.mu.Lock()
		s.current = c
		s.mu.Unlock()
		return c, nil
	})

	select {
	case res := <-ch:
		return res.Val.(*catalog.Catalog), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *CatalogService) build(ctx context.Context) *catalog.Catalog {
	start := time.Now()
	cfg := s.Config
	settings := Settings(cfg)

	base, status := s.Loader.LoadTitles(ctx, dataset.Hint{LocalPath: cfg.DatasetPath, RemoteURL: cfg.DatasetURL})
	log := s.Logger.WithLoad(status.ID, string(status.Source))

	derived, report := derive.Pipeline(base, derive.Config{HomeCountry: settings.HomeCountry, Lag: settings.Lag})
	if len(report.Skipped) > 0 {
		log.Warn("Derived columns skipped", "columns", report.Skipped)
	}
	if n := report.TotalMalformed(); n > 0 {
		log.Info("Malformed values nulled", "count", n)
	}

	c := &catalog.Catalog{
		LoadedAt: status.LoadedAt,
		Base:     base,
		Derived:  derived,
		Status:   status,
		Report:   report,
		Settings: settings,
	}

	if cfg.RatingsPath != "" {
		c.Ratings, c.RatingsStatus = dataset.LoadRatings(cfg.RatingsPath)
		if c.RatingsStatus.Err != nil {
			log.Warn("Ratings unavailable", "path", cfg.RatingsPath, "error", c.RatingsStatus.Err)
		}
	}

	if status.Available {
		idx, err := search.Build(derived, s.Logger)
		if err != nil {
			log.Error("Failed to build search index", "error", err)
		} else {
			c.Index = idx
		}
	}

	log.Info("Catalog ready",
		"available", status.Available,
		"rows", base.Len(),
		"ratings", c.HasRatings(),
		"duration", time.Since(start))
	return c
}

// Settings derives the analysis parameters from configuration.
func Settings(cfg *config.Config) catalog.Settings {
	return catalog.Settings{
		HomeCountry: cfg.HomeCountry,
		Lag: derive.LagPolicy{
			Enabled: cfg.LagFilter,
			MinDays: cfg.LagMinDays,
			MaxDays: cfg.LagMaxDays,
		},
		TopN:          cfg.TopN,
		RollingWindow: cfg.RollingWindow,
	}
}
