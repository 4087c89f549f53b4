package httpapp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/netflix-insights/internal/app"
	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/http/dto"
	"github.com/cesargomez89/netflix-insights/internal/logger"
	"github.com/cesargomez89/netflix-insights/internal/pages"
)

type Handler struct {
	Catalogs  *app.CatalogService
	Queries   *app.QueryService
	Renderer  *pages.Renderer
	Validator *dto.Validator
	Logger    *logger.Logger
}

func NewHandler(cs *app.CatalogService, qs *app.QueryService, renderer *pages.Renderer, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		Catalogs:  cs,
		Queries:   qs,
		Renderer:  renderer,
		Validator: dto.NewValidator(),
		Logger:    log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", h.Status)
		r.Post("/reload", h.Reload)
		r.Get("/pages", h.ListPages)
		r.Get("/pages/{name}", h.GetPage)
		r.Get("/titles", h.ListTitles)
		r.Get("/search", h.Search)
		r.Get("/options", h.Options)
		r.Get("/top", h.Top)
	})
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors to status codes.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs dto.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: dto.ToMap(verrs)})
		return
	case errors.Is(err, pages.ErrUnknownPage):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	case domain.IsMissingColumn(err):
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	case errors.Is(err, domain.ErrDataUnavailable):
		h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	case r.Context().Err() != nil && errors.Is(err, r.Context().Err()):
		// client went away; nobody is listening
		return
	}
	h.Logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
