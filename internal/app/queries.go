package app

import (
	"context"
	"fmt"

	"github.com/cesargomez89/netflix-insights/internal/aggregate"
	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/dataset"
	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/explode"
	"github.com/cesargomez89/netflix-insights/internal/filter"
	"github.com/cesargomez89/netflix-insights/internal/logger"
	"github.com/cesargomez89/netflix-insights/internal/search"
)

// multiValued are the columns holding comma-joined lists.
var multiValued = map[string]bool{
	constants.ColCast:     true,
	constants.ColDirector: true,
	constants.ColCountry:  true,
	constants.ColListedIn: true,
}

// LoadHistory lists past loads. *store.DB satisfies it.
type LoadHistory interface {
	ListLoads(limit int) ([]*domain.Load, error)
}

// TitlePage is one page of filtered titles.
type TitlePage struct {
	Total  int            `json:"total"`
	Titles []domain.Title `json:"titles"`
}

// StatusReport describes the current catalog and recent load attempts.
type StatusReport struct {
	Status        dataset.Status `json:"status"`
	RatingsStatus dataset.Status `json:"ratings_status"`
	Skipped       []string       `json:"skipped_columns,omitempty"`
	Malformed     map[string]int `json:"malformed,omitempty"`
	History       []*domain.Load `json:"history,omitempty"`
}

// QueryService answers explorer and ranking queries against the catalog.
type QueryService struct {
	Catalogs *CatalogService
	History  LoadHistory
	Logger   *logger.Logger
}

func NewQueryService(catalogs *CatalogService, history LoadHistory, log *logger.Logger) *QueryService {
	return &QueryService{Catalogs: catalogs, History: history, Logger: log.WithComponent("query")}
}

// Titles filters the derived table and returns at most limit titles
// starting at offset.
func (s *QueryService) Titles(ctx context.Context, c filter.Criteria, offset, limit int) (*TitlePage, error) {
	cat, err := s.Catalogs.Get(ctx)
	if err != nil {
		return nil, err
	}
	t, err := filter.Apply(cat.Derived, c)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > constants.MaxTitleResults {
		limit = constants.MaxTitleResults
	}
	return &TitlePage{Total: t.Len(), Titles: dataset.Titles(t.Slice(offset, offset+limit))}, nil
}

func (s *QueryService) Search(ctx context.Context, p search.Params) ([]search.Hit, error) {
	cat, err := s.Catalogs.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cat.Index == nil {
		return nil, fmt.Errorf("%w: search index not built", domain.ErrDataUnavailable)
	}
	return cat.Index.Search(ctx, p)
}

func (s *QueryService) Options(ctx context.Context) (filter.Options, error) {
	cat, err := s.Catalogs.Get(ctx)
	if err != nil {
		return filter.Options{}, err
	}
	return filter.OptionsOf(cat.Derived), nil
}

// Top ranks the values of column, splitting list columns first. Everything
// past n is folded into an Others row.
func (s *QueryService) Top(ctx context.Context, column string, n int) (*aggregate.Counts, error) {
	cat, err := s.Catalogs.Get(ctx)
	if err != nil {
		return nil, err
	}
	t := cat.Derived
	if multiValued[column] {
		if t, err = explode.Explode(t, column); err != nil {
			return nil, err
		}
	}
	counts, err := aggregate.Count(t, column)
	if err != nil {
		return nil, err
	}
	return aggregate.TopN(counts, n)
}

func (s *QueryService) Status(ctx context.Context, history int) (*StatusReport, error) {
	cat, err := s.Catalogs.Get(ctx)
	if err != nil {
		return nil, err
	}
	rep := &StatusReport{
		Status:        cat.Status,
		RatingsStatus: cat.RatingsStatus,
		Skipped:       cat.Report.Skipped,
		Malformed:     cat.Report.Malformed,
	}
	if s.History != nil && history > 0 {
		loads, err := s.History.ListLoads(history)
		if err != nil {
			s.Logger.Warn("Failed to list loads", "error", err)
		} else {
			rep.History = loads
		}
	}
	return rep, nil
}
