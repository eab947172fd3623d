// Package preview implements the measured layout path used by the interactive editor.
//
// Each Run renders the full document once, measures it, paginates the measurements and renders
// the pages. Runs are numbered; when a newer run has started by the time an older one finishes,
// the older result is discarded rather than merged.
package preview

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"github.com/jonathan/resume-paginator/internal/estimate"
	"github.com/jonathan/resume-paginator/internal/geometry"
	"github.com/jonathan/resume-paginator/internal/measure"
	"github.com/jonathan/resume-paginator/internal/paginate"
	"github.com/jonathan/resume-paginator/internal/rendering"
	"github.com/jonathan/resume-paginator/internal/style"
	"github.com/jonathan/resume-paginator/internal/types"
)

// ErrSuperseded is returned by a run whose result was discarded because a newer run started.
var ErrSuperseded = errors.New("measurement pass superseded by a newer run")

// ErrNoMeasurer is returned when the engine has nothing to measure with.
var ErrNoMeasurer = errors.New("no measurer configured")

// PageView is one rendered page of the preview.
type PageView struct {
	Index      int      `json:"index"`
	SectionIDs []string `json:"section_ids"`
	Height     float64  `json:"height"`
	HTML       string   `json:"html"`
}

// View is the committed result of one measured run.
type View struct {
	Generation  uint64            `json:"generation"`
	Template    string            `json:"template"`
	Geometry    geometry.Geometry `json:"geometry"`
	Options     paginate.Options  `json:"options"`
	Layout      paginate.Layout   `json:"layout"`
	Pages       []PageView        `json:"pages"`
	Measurement *measure.Result   `json:"measurement"`
}

// Engine runs measured layouts and keeps the latest committed view.
type Engine struct {
	Measurer  measure.Measurer
	Constants estimate.Constants
	Verbose   bool

	generation atomic.Uint64
	mu         sync.Mutex
	latest     *View
}

// NewEngine creates a preview engine.
func NewEngine(m measure.Measurer, c estimate.Constants, verbose bool) *Engine {
	return &Engine{Measurer: m, Constants: c.WithDefaults(), Verbose: verbose}
}

// Latest returns the last committed view, or nil before the first successful run.
func (e *Engine) Latest() *View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latest
}

// Generation returns the number of the most recently started run.
func (e *Engine) Generation() uint64 {
	return e.generation.Load()
}

func (e *Engine) current(gen uint64) bool {
	return e.generation.Load() == gen
}

// Run measures and paginates a document. It supersedes any run still in flight. A failed
// measurement returns the error and leaves the previous view in place; there is no retry,
// the next document or style change is the retry.
func (e *Engine) Run(ctx context.Context, doc *types.ResumeDocument, st style.Resolved) (*View, error) {
	gen := e.generation.Add(1)
	if e.Measurer == nil {
		return nil, ErrNoMeasurer
	}

	d, err := doc.Prepared()
	if err != nil {
		return nil, err
	}
	c := e.Constants.WithDefaults()
	g := st.Geometry()
	r := rendering.ForTemplate(st.Template, c)

	full, err := r.RenderFull(d, st, g)
	if err != nil {
		return nil, err
	}
	res, err := e.Measurer.Measure(ctx, full)
	if !e.current(gen) {
		if e.Verbose {
			log.Printf("[preview] Discarding run %d, superseded by run %d", gen, e.generation.Load())
		}
		return nil, ErrSuperseded
	}
	if err != nil {
		log.Printf("[preview] Measurement for run %d failed: %v", gen, err)
		return nil, err
	}

	opts := paginate.Options{
		ContentHeight:         g.ContentHeight,
		FirstPageHeaderHeight: res.HeaderHeight,
		BottomMarginReserve:   c.BottomMarginReserve,
	}
	var sidebar *paginate.Sidebar
	if r.Name() == style.TemplateModern {
		sidebar = &paginate.Sidebar{Items: res.Sidebar, HeadingHeight: res.SidebarHeadingHeight}
	}
	layout := paginate.Compose(res.Sections, opts, sidebar)

	view := &View{
		Generation:  gen,
		Template:    r.Name(),
		Geometry:    g,
		Options:     opts,
		Layout:      layout,
		Pages:       make([]PageView, 0, layout.PageCount()),
		Measurement: res,
	}
	for _, p := range layout.Pages {
		html, err := r.RenderPage(d, st, g, p, layout.SidebarFor(p.Index))
		if err != nil {
			return nil, err
		}
		view.Pages = append(view.Pages, PageView{Index: p.Index, SectionIDs: p.SectionIDs, Height: p.Height, HTML: html})
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.current(gen) {
		return nil, ErrSuperseded
	}
	e.latest = view
	if e.Verbose {
		log.Printf("[preview] Committed run %d with %d page(s)", gen, layout.PageCount())
	}
	return view, nil
}

// Document wraps a view's pages into one standalone HTML document for on-screen display.
func (v *View) Document(st style.Resolved, c estimate.Constants) (string, error) {
	pages := make([]string, len(v.Pages))
	for i, p := range v.Pages {
		pages[i] = p.HTML
	}
	return rendering.Wrap(rendering.ModePreview, "Preview", pages, st, v.Geometry, c)
}
