// Package search provides full-text lookup over catalog titles.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/logger"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

const batchSize = 500

// Index is an in-memory bleve index of one catalog table. Safe for
// concurrent use.
type Index struct {
	index  bleve.Index
	logger *logger.Logger
	mu     sync.RWMutex
}

// Params configures a search.
type Params struct {
	Query string
	Type  string // exact content type, empty for any
	Limit int
}

// Hit is one ranked result.
type Hit struct {
	ID          string  `json:"show_id"`
	Title       string  `json:"title"`
	Type        string  `json:"type,omitempty"`
	ReleaseYear int     `json:"release_year,omitempty"`
	Score       float64 `json:"score"`
}

// Build indexes every row of t. Rows without a show_id are keyed by their
// position. Columns the table lacks are simply not indexed.
func Build(t *table.Table, log *logger.Logger) (*Index, error) {
	if log == nil {
		log = logger.Default()
	}
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	s := &Index{index: idx, logger: log.WithComponent("search")}

	batch := idx.NewBatch()
	var n int
	var indexErr error
	t.Each(func(r table.Row) {
		if indexErr != nil {
			return
		}
		id, ok := r.Get(constants.ColShowID).AsString()
		if !ok {
			id = fmt.Sprintf("row-%d", n)
		}
		n++
		if err := batch.Index(id, document(r)); err != nil {
			indexErr = fmt.Errorf("index %s: %w", id, err)
			return
		}
		if batch.Size() >= batchSize {
			if err := idx.Batch(batch); err != nil {
				indexErr = fmt.Errorf("commit batch: %w", err)
				return
			}
			batch.Reset()
		}
	})
	if indexErr == nil && batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			indexErr = fmt.Errorf("commit batch: %w", err)
		}
	}
	if indexErr != nil {
		_ = idx.Close()
		return nil, indexErr
	}

	s.logger.Debug("Search index built", "documents", n)
	return s, nil
}

func document(r table.Row) map[string]any {
	doc := map[string]any{}
	for _, f := range []string{fieldShowID, fieldType, fieldTitle, fieldCast, fieldDirector, fieldDescription, fieldListedIn} {
		if s, ok := r.Get(f).AsString(); ok {
			doc[f] = s
		}
	}
	if y, ok := r.Get(fieldYear).AsInt(); ok {
		doc[fieldYear] = float64(y)
	}
	return doc
}

// Count returns the number of indexed titles.
func (s *Index) Count() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// Search returns titles ranked by relevance. Title matches weigh most, then
// people, then genres and descriptions. A blank query returns no hits.
func (s *Index) Search(ctx context.Context, p Params) ([]Hit, error) {
	if strings.TrimSpace(p.Query) == "" {
		return []Hit{}, nil
	}
	limit := p.Limit
	if limit <= 0 || limit > constants.MaxSearchResults {
		limit = constants.MaxSearchResults
	}

	req := bleve.NewSearchRequestOptions(buildQuery(p), limit, 0, false)
	req.Fields = []string{fieldTitle, fieldType, fieldYear}
	req.SortBy([]string{"-_score", "_id"})

	s.mu.RLock()
	res, err := s.index.SearchInContext(ctx, req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if v, ok := h.Fields[fieldTitle].(string); ok {
			hit.Title = v
		}
		if v, ok := h.Fields[fieldType].(string); ok {
			hit.Type = v
		}
		if v, ok := h.Fields[fieldYear].(float64); ok {
			hit.ReleaseYear = int(v)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func buildQuery(p Params) query.Query {
	match := func(field string, boost float64) query.Query {
		q := bleve.NewMatchQuery(p.Query)
		q.SetField(field)
		q.SetBoost(boost)
		return q
	}
	text := []query.Query{
		match(fieldTitle, 3),
		match(fieldCast, 1.5),
		match(fieldDirector, 1.5),
		match(fieldListedIn, 1),
		match(fieldDescription, 0.5),
	}

	// typo tolerance on single-word title queries
	if !strings.ContainsAny(strings.TrimSpace(p.Query), " \t") {
		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(p.Query))
		fuzzy.SetField(fieldTitle)
		fuzzy.SetFuzziness(1)
		fuzzy.SetBoost(0.8)
		text = append(text, fuzzy)

		if len(p.Query) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(p.Query))
			prefix.SetField(fieldTitle)
			prefix.SetBoost(0.5)
			text = append(text, prefix)
		}
	}

	var q query.Query = bleve.NewDisjunctionQuery(text...)
	if p.Type != "" && p.Type != constants.FilterAll {
		tq := bleve.NewTermQuery(p.Type)
		tq.SetField(fieldType)
		q = bleve.NewConjunctionQuery(q, tq)
	}
	return q
}
