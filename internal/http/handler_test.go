package httpapp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/netflix-insights/internal/app"
	"github.com/cesargomez89/netflix-insights/internal/config"
	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/dataset"
	"github.com/cesargomez89/netflix-insights/internal/logger"
	"github.com/cesargomez89/netflix-insights/internal/pages"
	"github.com/cesargomez89/netflix-insights/internal/store"
)

const titlesCSV = `show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description
s1,Movie,Alpha,Ann Lee,"Bob, Cat",United States,"January 5, 2019",2018,PG,90 min,"Dramas, Comedies",A heist story
s2,TV Show,Beta,,Cat,India,"April 1, 2020",2019,TV-MA,2 Seasons,Dramas,A family saga
s3,Movie,Gamma,Ann Lee,Dan,"India, United States","July 10, 2020",2020,PG,100 min,Comedies,A road trip
`

func setupRouter(t *testing.T, csv string) http.Handler {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "titles.csv")
	if csv != "" {
		if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	db, err := store.NewSQLiteDB(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	log := logger.Discard()
	cfg := &config.Config{
		DatasetPath:   path,
		HomeCountry:   "United States",
		LagFilter:     true,
		LagMaxDays:    constants.DefaultLagMaxDays,
		TopN:          constants.DefaultTopN,
		RollingWindow: constants.DefaultRollingWindow,
	}
	loader := dataset.NewLoader(db, nil, time.Hour, log)
	catalogs := app.NewCatalogService(loader, cfg, log)
	catalogs.Downloads = db
	renderer, err := pages.NewRenderer(16, time.Minute, log)
	if err != nil {
		t.Fatal(err)
	}
	h := NewHandler(catalogs, app.NewQueryService(catalogs, db, log), renderer, log)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Invalid JSON %q: %v", w.Body.String(), err)
	}
}

// renderedPage mirrors pages.Rendered without the cell values.
type renderedPage struct {
	Name   string       `json:"name"`
	Params pages.Params `json:"params"`
	Charts []struct {
		ID          string `json:"id"`
		Placeholder string `json:"placeholder"`
	} `json:"charts"`
}

func (p renderedPage) placeholders() int {
	n := 0
	for _, c := range p.Charts {
		if c.Placeholder != "" {
			n++
		}
	}
	return n
}

func TestHealth(t *testing.T) {
	w := get(t, setupRouter(t, titlesCSV), "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %s", ct)
	}
}

func TestGetPage(t *testing.T) {
	r := setupRouter(t, titlesCSV)

	w := get(t, r, "/api/pages/overview?top=5")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var page renderedPage
	decode(t, w, &page)
	if page.Name != "overview" || page.Params.TopN != 5 {
		t.Errorf("Unexpected page header: %+v", page)
	}
	if len(page.Charts) != 2 || page.Charts[0].ID != "type-split" {
		t.Fatalf("Unexpected charts: %+v", page.Charts)
	}
	if page.placeholders() != 0 {
		t.Errorf("Expected no placeholders, got %d", page.placeholders())
	}
}

func TestGetPage_Errors(t *testing.T) {
	r := setupRouter(t, titlesCSV)

	tests := []struct {
		target string
		code   int
		field  string
	}{
		{"/api/pages/nope", http.StatusNotFound, ""},
		{"/api/pages/overview?top=0", http.StatusOK, ""},
		{"/api/pages/overview?top=500", http.StatusBadRequest, "top"},
		{"/api/pages/overview?window=abc", http.StatusBadRequest, "window"},
	}
	for _, tt := range tests {
		w := get(t, r, tt.target)
		if w.Code != tt.code {
			t.Errorf("%s: expected %d, got %d: %s", tt.target, tt.code, w.Code, w.Body.String())
			continue
		}
		if tt.field != "" {
			var resp errorResponse
			decode(t, w, &resp)
			if resp.Fields[tt.field] == "" {
				t.Errorf("%s: expected error on %s, got %+v", tt.target, tt.field, resp)
			}
		}
	}
}

func TestGetPage_NoDataShowsPlaceholders(t *testing.T) {
	w := get(t, setupRouter(t, ""), "/api/pages/geography")
	if w.Code != http.StatusOK {
		t.Fatalf("An unavailable dataset still renders, got %d", w.Code)
	}
	var page renderedPage
	decode(t, w, &page)
	if page.placeholders() != len(page.Charts) {
		t.Errorf("Expected all placeholders, got %d of %d", page.placeholders(), len(page.Charts))
	}
}

func TestListPages(t *testing.T) {
	w := get(t, setupRouter(t, titlesCSV), "/api/pages")
	var list []pageSummary
	decode(t, w, &list)
	if len(list) != len(pages.Names()) {
		t.Fatalf("Expected %d pages, got %d", len(pages.Names()), len(list))
	}
	if list[0].Name != "overview" || len(list[0].Charts) == 0 {
		t.Errorf("Unexpected first page: %+v", list[0])
	}
}

func TestListTitles(t *testing.T) {
	r := setupRouter(t, titlesCSV)

	w := get(t, r, "/api/titles?cast=cat&limit=1&page=2")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp titlesResponse
	decode(t, w, &resp)
	if resp.Pagination.TotalItems != 2 || resp.Pagination.TotalPages != 2 {
		t.Errorf("Unexpected pagination: %+v", resp.Pagination)
	}
	if len(resp.Titles) != 1 || resp.Titles[0].Title != "Beta" {
		t.Errorf("Expected [Beta], got %+v", resp.Titles)
	}

	if w := get(t, r, "/api/titles?year=20x0"); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad year, got %d", w.Code)
	}
	if w := get(t, r, "/api/titles?year=All"); w.Code != http.StatusOK {
		t.Errorf("Expected 200 for All, got %d", w.Code)
	}
}

func TestSearch(t *testing.T) {
	r := setupRouter(t, titlesCSV)

	w := get(t, r, "/api/search?q=road")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var hits []struct {
		ID string `json:"show_id"`
	}
	decode(t, w, &hits)
	if len(hits) == 0 || hits[0].ID != "s3" {
		t.Errorf("Expected s3 first, got %+v", hits)
	}

	if w := get(t, r, "/api/search"); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without q, got %d", w.Code)
	}
	if w := get(t, r, "/api/search?q=x&type=Podcast"); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown type, got %d", w.Code)
	}
}

func TestSearch_NoData(t *testing.T) {
	w := get(t, setupRouter(t, ""), "/api/search?q=road")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", w.Code)
	}
}

func TestTop(t *testing.T) {
	r := setupRouter(t, titlesCSV)

	w := get(t, r, "/api/top?column=cast&n=1")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Total int      `json:"total"`
		Rows  []topRow `json:"rows"`
	}
	decode(t, w, &resp)
	if len(resp.Rows) != 2 || resp.Rows[0].Value != "Cat" || resp.Rows[0].Count != 2 {
		t.Errorf("Unexpected rows: %+v", resp.Rows)
	}
	if resp.Rows[1].Value != constants.OthersLabel || resp.Total != 4 {
		t.Errorf("Expected Others row and total 4, got %+v", resp)
	}

	if w := get(t, r, "/api/top?column=budget"); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for a missing column, got %d", w.Code)
	}
}

func TestStatusAndReload(t *testing.T) {
	r := setupRouter(t, titlesCSV)

	w := get(t, r, "/api/status")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var rep app.StatusReport
	decode(t, w, &rep)
	if !rep.Status.Available || rep.Status.Rows != 3 {
		t.Errorf("Unexpected status: %+v", rep.Status)
	}
	if len(rep.History) != 1 {
		t.Errorf("Expected one recorded load, got %d", len(rep.History))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/reload", nil)
	rw := httptest.NewRecorder()
	r.ServeHTTP(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("Expected 200 from reload, got %d", rw.Code)
	}
	if !strings.Contains(rw.Body.String(), `"available":true`) {
		t.Errorf("Unexpected reload body: %s", rw.Body.String())
	}

	w = get(t, r, "/api/status")
	decode(t, w, &rep)
	if len(rep.History) != 2 {
		t.Errorf("Expected two recorded loads after reload, got %d", len(rep.History))
	}

	req = httptest.NewRequest(http.MethodPost, "/api/reload?refetch=true", nil)
	rw = httptest.NewRecorder()
	r.ServeHTTP(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("Expected 200 from refetch, got %d", rw.Code)
	}
	w = get(t, r, "/api/status")
	decode(t, w, &rep)
	if len(rep.History) != 3 {
		t.Errorf("Expected three recorded loads after refetch, got %d", len(rep.History))
	}
}

func TestOptions(t *testing.T) {
	w := get(t, setupRouter(t, titlesCSV), "/api/options")
	var opts struct {
		Types []string `json:"types"`
		Years []int    `json:"years"`
	}
	decode(t, w, &opts)
	if strings.Join(opts.Types, ",") != "Movie,TV Show" {
		t.Errorf("Unexpected types: %v", opts.Types)
	}
	if len(opts.Years) != 3 {
		t.Errorf("Unexpected years: %v", opts.Years)
	}
}
