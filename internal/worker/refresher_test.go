package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cesargomez89/netflix-insights/internal/catalog"
	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/logger"
)

type fakeReloader struct {
	calls atomic.Int32
	err   error
}

func (f *fakeReloader) Reload(ctx context.Context) (*catalog.Catalog, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &catalog.Catalog{}, nil
}

func TestNewRefresher_Disabled(t *testing.T) {
	if r := NewRefresher(&fakeReloader{}, 0, logger.Discard()); r != nil {
		t.Fatal("expected nil refresher for a zero interval")
	}
	var r *Refresher
	r.Start()
	r.Stop()
}

func TestNewRefresher_ClampsInterval(t *testing.T) {
	r := NewRefresher(&fakeReloader{}, time.Second, logger.Discard())
	if r.Interval != constants.MinRefreshInterval {
		t.Errorf("Interval = %s, want %s", r.Interval, constants.MinRefreshInterval)
	}
}

func TestRefresher_Refresh(t *testing.T) {
	f := &fakeReloader{}
	r := NewRefresher(f, time.Hour, logger.Discard())
	var reloaded int
	r.OnReload = func(*catalog.Catalog) { reloaded++ }

	r.refresh()
	if f.calls.Load() != 1 || reloaded != 1 {
		t.Errorf("calls = %d, reloaded = %d, want 1 and 1", f.calls.Load(), reloaded)
	}

	f.err = errors.New("disk gone")
	r.refresh()
	if reloaded != 1 {
		t.Errorf("OnReload ran after a failed reload")
	}
}

func TestRefresher_StartStop(t *testing.T) {
	f := &fakeReloader{}
	r := NewRefresher(f, time.Hour, logger.Discard())
	r.Start()

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	if f.calls.Load() != 0 {
		t.Errorf("expected no reload before the first tick, got %d", f.calls.Load())
	}
}
