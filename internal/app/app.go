package app

import (
	"fmt"

	"github.com/cesargomez89/netflix-insights/internal/catalog"
	"github.com/cesargomez89/netflix-insights/internal/config"
	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/dataset"
	"github.com/cesargomez89/netflix-insights/internal/httpclient"
	"github.com/cesargomez89/netflix-insights/internal/logger"
	"github.com/cesargomez89/netflix-insights/internal/pages"
	"github.com/cesargomez89/netflix-insights/internal/store"
	"github.com/cesargomez89/netflix-insights/internal/worker"
)

// App wires the services shared by the server and the CLI.
type App struct {
	DB       *store.DB
	Catalogs *CatalogService
	Queries  *QueryService
	Exports  *ExportService
	Renderer *pages.Renderer
	// Refresher is nil unless REFRESH_INTERVAL is set.
	Refresher *worker.Refresher
	Logger    *logger.Logger
}

func New(cfg *config.Config, log *logger.Logger) (*App, error) {
	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	client := httpclient.NewClient(nil, constants.DefaultRequestInterval).
		WithRetry(constants.DefaultRetryCount, constants.DefaultRetryBase)
	loader := dataset.NewLoader(db, client, cfg.DatasetCacheTTL, log)

	renderer, err := pages.NewRenderer(constants.DefaultChartCacheSize, constants.DefaultChartCacheTTL, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	catalogs := NewCatalogService(loader, cfg, log)
	catalogs.Downloads = db
	refresher := worker.NewRefresher(catalogs, cfg.RefreshInterval, log)
	if refresher != nil {
		refresher.OnReload = func(*catalog.Catalog) { renderer.Invalidate() }
	}
	return &App{
		DB:        db,
		Catalogs:  catalogs,
		Queries:   NewQueryService(catalogs, db, log),
		Exports:   NewExportService(catalogs, renderer, log),
		Renderer:  renderer,
		Refresher: refresher,
		Logger:    log,
	}, nil
}

func (a *App) Close() error {
	a.Refresher.Stop()
	if c := a.Catalogs.Current(); c != nil && c.Index != nil {
		if err := c.Index.Close(); err != nil {
			a.Logger.Warn("Failed to close search index", "error", err)
		}
	}
	return a.DB.Close()
}
