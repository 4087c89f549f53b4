// Package worker runs the background catalog refresh loop.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/cesargomez89/netflix-insights/internal/catalog"
	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/logger"
)

// Reloader rebuilds the catalog. *app.CatalogService satisfies it.
type Reloader interface {
	Reload(ctx context.Context) (*catalog.Catalog, error)
}

// Refresher reloads the catalog on a fixed interval so a dataset that changed
// on disk, or a remote copy whose cache expired, is picked up without a
// restart.
type Refresher struct {
	Catalogs Reloader
	Interval time.Duration
	Logger   *logger.Logger
	// OnReload runs after every successful reload, e.g. to drop memoized pages.
	OnReload func(*catalog.Catalog)

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRefresher returns nil when interval is zero, which disables refreshing.
// Shorter intervals are raised to constants.MinRefreshInterval.
func NewRefresher(catalogs Reloader, interval time.Duration, log *logger.Logger) *Refresher {
	if interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Refresher{
		Catalogs: catalogs,
		Interval: max(interval, constants.MinRefreshInterval),
		Logger:   log.WithComponent("refresher"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (r *Refresher) Start() {
	if r == nil {
		return
	}
	r.Logger.Info("Starting catalog refresher", "interval", r.Interval)
	r.wg.Add(1)
	go r.loop()
}

// Stop abandons any reload still in flight and waits for the loop to exit.
func (r *Refresher) Stop() {
	if r == nil {
		return
	}
	r.Logger.Info("Stopping catalog refresher")
	r.cancel()
	r.wg.Wait()
}

func (r *Refresher) loop() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.refresh()
		}
	}
}

func (r *Refresher) refresh() {
	defer func() {
		if p := recover(); p != nil {
			r.Logger.Error("Panic during catalog refresh", "panic", p)
		}
	}()

	start := time.Now()
	cat, err := r.Catalogs.Reload(r.ctx)
	if err != nil {
		if r.ctx.Err() == nil {
			r.Logger.Warn("Catalog refresh failed", "error", err)
		}
		return
	}
	r.Logger.Debug("Catalog refreshed", "version", cat.Version(), "duration", time.Since(start))
	if r.OnReload != nil {
		r.OnReload(cat)
	}
}
