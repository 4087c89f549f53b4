package pages

import (
	"time"

	"github.com/cesargomez89/netflix-insights/internal/catalog"
	"github.com/cesargomez89/netflix-insights/internal/logger"
)

// Renderer builds pages and memoizes them per catalog load and parameters.
type Renderer struct {
	memo   *catalog.Memo[*Rendered]
	logger *logger.Logger
}

func NewRenderer(size int, ttl time.Duration, log *logger.Logger) (*Renderer, error) {
	memo, err := catalog.NewMemo[*Rendered](size, ttl)
	if err != nil {
		return nil, err
	}
	return &Renderer{memo: memo, logger: log.WithComponent("pages")}, nil
}

// Render returns the named page computed against c. The result is shared
// between callers and must not be modified.
func (r *Renderer) Render(name string, c *catalog.Catalog, params Params) (*Rendered, error) {
	page, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	var settings catalog.Settings
	if c != nil {
		settings = c.Settings
	}
	p := params.resolve(settings)
	key := name + "|" + p.key() + "|" + c.Version()

	log := r.logger.WithPage(name)
	out, hit, _ := r.memo.GetOrCompute(key, func() (*Rendered, error) {
		start := time.Now()
		rendered := Build(page, c, p)
		log.Debug("Page built", "charts", len(rendered.Charts), "placeholders", rendered.Placeholders(), "duration", time.Since(start))
		for _, ch := range rendered.Charts {
			if ch.Error != "" {
				log.Warn("Chart unavailable", "chart", ch.ID, "error", ch.Error)
			}
		}
		return rendered, nil
	})
	if hit {
		log.Debug("Page served from cache", "version", out.Version)
	}
	return out, nil
}

// Invalidate drops every memoized page, typically after a reload.
func (r *Renderer) Invalidate() {
	r.memo.Clear()
}
