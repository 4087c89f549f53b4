package httpapp

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/http/dto"
	"github.com/cesargomez89/netflix-insights/internal/pages"
)

const statusHistory = 10

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Queries.Status(r.Context(), statusHistory)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rep)
}

// Reload rebuilds the catalog. With refetch=true a remote dataset is
// downloaded again instead of served from the cache.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	reload := h.Catalogs.Reload
	if refetch, _ := strconv.ParseBool(r.URL.Query().Get("refetch")); refetch {
		reload = h.Catalogs.Refetch
	}
	c, err := reload(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Renderer.Invalidate()
	h.Logger.Info("Catalog reloaded", "load_id", c.Version(), "available", c.Available())
	h.writeJSON(w, http.StatusOK, c.Status)
}

type pageSummary struct {
	Name   string      `json:"name"`
	Title  string      `json:"title"`
	Theme  pages.Theme `json:"theme"`
	Charts []string    `json:"charts"`
}

func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	all := pages.All()
	out := make([]pageSummary, 0, len(all))
	for _, p := range all {
		s := pageSummary{Name: p.Name, Title: p.Title, Theme: p.Theme}
		for _, c := range p.Charts {
			s.Charts = append(s.Charts, c.ID)
		}
		out = append(out, s)
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	q, err := dto.ParsePageQuery(h.Validator, r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.Catalogs.Get(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rendered, err := h.Renderer.Render(name, c, q.Params())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rendered)
}

type titlesResponse struct {
	Titles     []domain.Title  `json:"titles"`
	Pagination *dto.Pagination `json:"pagination"`
}

func (h *Handler) ListTitles(w http.ResponseWriter, r *http.Request) {
	q, err := dto.ParseTitlesQuery(h.Validator, r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	size := q.Limit
	if size == 0 {
		size = dto.DefaultPageSize
	}
	page := max(q.Page, 1)

	res, err := h.Queries.Titles(r.Context(), q.Criteria(), (page-1)*size, size)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, titlesResponse{
		Titles:     res.Titles,
		Pagination: dto.NewPagination(page, size, res.Total),
	})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q, err := dto.ParseSearchQuery(h.Validator, r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	hits, err := h.Queries.Search(r.Context(), q.Params())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, hits)
}

func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	opts, err := h.Queries.Options(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, opts)
}

type topRow struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	q, err := dto.ParseTopQuery(h.Validator, r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	counts, err := h.Queries.Top(r.Context(), q.Column, q.N)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rows := make([]topRow, 0, len(counts.Rows))
	for _, row := range counts.Rows {
		rows = append(rows, topRow{Value: row.Key[0].String(), Count: row.Count})
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"column": q.Column,
		"total":  counts.Total(),
		"rows":   rows,
	})
}
