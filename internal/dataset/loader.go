package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/logger"
	"github.com/cesargomez89/netflix-insights/internal/storage"
	"github.com/cesargomez89/netflix-insights/internal/store"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

// Store persists downloaded datasets and the load log. *store.DB satisfies it.
type Store interface {
	GetDownload(url string) (*store.Download, error)
	RecordLoad(load *domain.Load) error
	RecordRemoteLoad(ctx context.Context, url string, data []byte, ttl time.Duration, load *domain.Load) error
}

// Fetcher downloads a remote document. *httpclient.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Hint says where to look for the dataset. Either field may be empty.
type Hint struct {
	LocalPath string
	RemoteURL string
}

// Status is the side channel of a load: it reports where the table came from
// and why it is empty when it is.
type Status struct {
	LoadedAt  time.Time         `json:"loaded_at"`
	Err       error             `json:"-"`
	ID        string            `json:"id"`
	Source    domain.LoadSource `json:"source"`
	Location  string            `json:"location,omitempty"`
	Error     string            `json:"error,omitempty"`
	Checksum  string            `json:"checksum,omitempty"`
	Columns   []string          `json:"columns,omitempty"`
	Rows      int               `json:"rows"`
	Malformed int               `json:"malformed"`
	Available bool              `json:"available"`
}

func (s Status) record() *domain.Load {
	l := &domain.Load{
		ID:        s.ID,
		Source:    s.Source,
		Location:  s.Location,
		Columns:   domain.StringSlice(s.Columns),
		Checksum:  s.Checksum,
		Rows:      s.Rows,
		Malformed: s.Malformed,
		Available: s.Available,
		LoadedAt:  s.LoadedAt,
	}
	if s.Error != "" {
		msg := s.Error
		l.Error = &msg
	}
	return l
}

// Loader obtains the base table.
type Loader struct {
	store    Store
	fetcher  Fetcher
	logger   *logger.Logger
	cacheTTL time.Duration
}

// NewLoader builds a loader. db and fetcher may be nil, which disables the
// download cache and remote fetching respectively.
func NewLoader(db Store, fetcher Fetcher, cacheTTL time.Duration, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Default()
	}
	return &Loader{
		store:    db,
		fetcher:  fetcher,
		logger:   log.WithComponent("dataset"),
		cacheTTL: cacheTTL,
	}
}

// LoadTitles tries the local file, then an unexpired cached download, then
// the remote URL. When every source fails it returns an empty table with the
// canonical schema and a Status wrapping domain.ErrDataUnavailable; it never
// fails outright.
func (l *Loader) LoadTitles(ctx context.Context, hint Hint) (*table.Table, Status) {
	st := Status{ID: uuid.NewString(), LoadedAt: time.Now().UTC()}
	var errs []error

	if hint.LocalPath != "" {
		t, err := l.fromLocal(hint.LocalPath, &st)
		if err == nil {
			l.finish(st)
			return t, st
		}
		errs = append(errs, fmt.Errorf("local %s: %w", hint.LocalPath, err))
	}

	if hint.RemoteURL != "" {
		if t, err := l.fromCache(hint.RemoteURL, &st); err == nil {
			l.finish(st)
			return t, st
		} else if !errors.Is(err, errCacheMiss) {
			errs = append(errs, fmt.Errorf("cache: %w", err))
		}

		t, err := l.fromRemote(ctx, hint.RemoteURL, &st)
		if err == nil {
			l.logger.WithLoad(st.ID, string(st.Source)).Info("Dataset loaded",
				"location", st.Location, "rows", st.Rows, "malformed", st.Malformed)
			return t, st
		}
		errs = append(errs, fmt.Errorf("remote %s: %w", hint.RemoteURL, err))
	}

	if len(errs) == 0 {
		errs = append(errs, errors.New("no dataset source configured"))
	}
	st = Status{
		ID:       st.ID,
		LoadedAt: st.LoadedAt,
		Source:   domain.LoadSourceNone,
		Err:      fmt.Errorf("%w: %w", domain.ErrDataUnavailable, errors.Join(errs...)),
		Columns:  CanonicalColumns,
	}
	st.Error = st.Err.Error()
	l.logger.WithLoad(st.ID, string(st.Source)).Warn("Dataset unavailable, continuing with an empty table", "error", st.Err)
	l.finish(st)
	return table.Empty(CanonicalColumns), st
}

var errCacheMiss = errors.New("cache miss")

func (l *Loader) fromLocal(path string, st *Status) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.accept(data, domain.LoadSourceLocal, path, st)
}

func (l *Loader) fromCache(url string, st *Status) (*table.Table, error) {
	if l.store == nil {
		return nil, errCacheMiss
	}
	d, err := l.store.GetDownload(url)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, errCacheMiss
	}
	if !d.Intact() {
		l.logger.Warn("Cached dataset does not match its checksum, fetching again", "url", url)
		return nil, errCacheMiss
	}
	return l.accept(d.Data, domain.LoadSourceCache, url, st)
}

func (l *Loader) fromRemote(ctx context.Context, url string, st *Status) (*table.Table, error) {
	if l.fetcher == nil {
		return nil, errors.New("remote fetching disabled")
	}
	data, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	t, err := l.accept(data, domain.LoadSourceRemote, url, st)
	if err != nil {
		return nil, err
	}
	if l.store != nil {
		if err := l.store.RecordRemoteLoad(ctx, url, data, l.cacheTTL, st.record()); err != nil {
			l.logger.Warn("Failed to cache downloaded dataset", "error", err)
		}
	}
	return t, nil
}

func (l *Loader) accept(data []byte, source domain.LoadSource, location string, st *Status) (*table.Table, error) {
	p, err := ParseBytes(data)
	if err != nil {
		return nil, err
	}
	st.Source = source
	st.Location = location
	st.Columns = p.Columns
	st.Rows = p.Table.Len()
	st.Malformed = p.Malformed
	st.Checksum = storage.HashBytes(data)
	st.Available = true
	return p.Table, nil
}

func (l *Loader) finish(st Status) {
	log := l.logger.WithLoad(st.ID, string(st.Source))
	if st.Available {
		log.Info("Dataset loaded", "location", st.Location, "rows", st.Rows, "malformed", st.Malformed)
	}
	if l.store == nil {
		return
	}
	if err := l.store.RecordLoad(st.record()); err != nil {
		log.Warn("Failed to record load", "error", err)
	}
}
