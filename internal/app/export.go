package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/logger"
	"github.com/cesargomez89/netflix-insights/internal/pages"
	"github.com/cesargomez89/netflix-insights/internal/storage"
)

// ExportedFile is one chart written to disk.
type ExportedFile struct {
	Page     string `json:"page"`
	Chart    string `json:"chart"`
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
	Rows     int    `json:"rows"`
}

// ExportService writes rendered charts as CSV files.
type ExportService struct {
	Catalogs *CatalogService
	Renderer *pages.Renderer
	Logger   *logger.Logger
}

func NewExportService(catalogs *CatalogService, renderer *pages.Renderer, log *logger.Logger) *ExportService {
	return &ExportService{Catalogs: catalogs, Renderer: renderer, Logger: log.WithComponent("export")}
}

// Export renders the named pages, or every page when names is empty, and
// writes each computed chart under dir following pathTemplate. Placeholder
// charts are skipped.
func (s *ExportService) Export(ctx context.Context, dir, pathTemplate string, names []string, params pages.Params) ([]ExportedFile, error) {
	if pathTemplate == "" {
		pathTemplate = constants.DefaultExportTemplate
	}
	if len(names) == 0 {
		names = pages.Names()
	}
	cat, err := s.Catalogs.Get(ctx)
	if err != nil {
		return nil, err
	}

	var files []ExportedFile
	for _, name := range names {
		r, err := s.Renderer.Render(name, cat, params)
		if err != nil {
			return files, err
		}
		for i, chart := range r.Charts {
			if ctx.Err() != nil {
				return files, ctx.Err()
			}
			if chart.Placeholder != "" {
				s.Logger.Debug("Skipping placeholder chart", "page", name, "chart", chart.ID)
				continue
			}
			data, err := chartCSV(chart)
			if err != nil {
				return files, fmt.Errorf("encode %s/%s: %w", name, chart.ID, err)
			}
			path, err := storage.BuildFullPath(dir, pathTemplate, storage.BuildPathTemplateData(name, chart.ID, i+1), "csv")
			if err != nil {
				return files, err
			}
			if err := storage.WriteFile(path, data); err != nil {
				return files, fmt.Errorf("write %s: %w", path, err)
			}
			files = append(files, ExportedFile{
				Page:     name,
				Chart:    chart.ID,
				Path:     path,
				Checksum: storage.HashBytes(data),
				Rows:     len(chart.Rows),
			})
		}
	}
	s.Logger.Info("Export complete", "dir", dir, "files", len(files))
	return files, nil
}

func chartCSV(chart pages.Chart) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(chart.Columns); err != nil {
		return nil, err
	}
	rec := make([]string, len(chart.Columns))
	for _, row := range chart.Rows {
		for i, v := range row {
			rec[i] = v.String()
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
