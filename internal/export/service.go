// Package export implements the estimated layout path: estimate heights, paginate, render
// every page and hand the concatenated document to a PDF rasterizer.
package export

import (
	"context"
	"log"

	"github.com/jonathan/resume-paginator/internal/estimate"
	"github.com/jonathan/resume-paginator/internal/geometry"
	"github.com/jonathan/resume-paginator/internal/paginate"
	"github.com/jonathan/resume-paginator/internal/rendering"
	"github.com/jonathan/resume-paginator/internal/style"
	"github.com/jonathan/resume-paginator/internal/types"
)

// Payload is the fully paginated export document plus the layout that produced it.
type Payload struct {
	HTML     string            `json:"html"`
	Template string            `json:"template"`
	Geometry geometry.Geometry `json:"geometry"`
	Layout   paginate.Layout   `json:"layout"`
	Style    style.Resolved    `json:"style"`
	Options  paginate.Options  `json:"options"`
}

// Result is a rasterized export.
type Result struct {
	PDF       []byte            `json:"-"`
	PageCount int               `json:"page_count"`
	Template  string            `json:"template"`
	Geometry  geometry.Geometry `json:"geometry"`
	Layout    paginate.Layout   `json:"layout"`
}

// Service runs the export path.
type Service struct {
	Estimator  *estimate.Estimator
	Rasterizer Rasterizer
	Verbose    bool
}

// NewService creates an export service.
func NewService(est *estimate.Estimator, r Rasterizer, verbose bool) *Service {
	return &Service{Estimator: est, Rasterizer: r, Verbose: verbose}
}

func (s *Service) estimator() *estimate.Estimator {
	if s.Estimator == nil {
		return estimate.New(estimate.Constants{})
	}
	return s.Estimator
}

// Layout estimates and paginates a document without rendering it.
func (s *Service) Layout(doc *types.ResumeDocument, st style.Resolved) (*types.ResumeDocument, paginate.Layout, paginate.Options, error) {
	d, err := doc.Prepared()
	if err != nil {
		return nil, paginate.Layout{}, paginate.Options{}, err
	}

	est := s.estimator()
	c := est.Constants.WithDefaults()
	g := st.Geometry()
	r := rendering.ForTemplate(st.Template, c)

	main := est.Sections(r.MainSections(d), st, r.MainWidth(g))
	opts := paginate.Options{
		ContentHeight:         g.ContentHeight,
		FirstPageHeaderHeight: est.Header(d.Personal, st, g.ContentWidth),
		BottomMarginReserve:   c.BottomMarginReserve,
	}

	var sidebar *paginate.Sidebar
	if r.Name() == style.TemplateModern {
		sidebar = &paginate.Sidebar{
			Items:         est.SidebarItems(r.SidebarSource(d), st, c.SidebarWidth(g.ContentWidth)),
			HeadingHeight: est.SidebarHeadingHeight(st),
		}
	}
	return d, paginate.Compose(main, opts, sidebar), opts, nil
}

// Build produces the paginated export document. It never touches a rendering surface.
func (s *Service) Build(doc *types.ResumeDocument, st style.Resolved) (*Payload, error) {
	d, layout, opts, err := s.Layout(doc, st)
	if err != nil {
		return nil, err
	}

	c := s.estimator().Constants.WithDefaults()
	g := st.Geometry()
	r := rendering.ForTemplate(st.Template, c)

	pages := make([]string, 0, layout.PageCount())
	for _, p := range layout.Pages {
		html, err := r.RenderPage(d, st, g, p, layout.SidebarFor(p.Index))
		if err != nil {
			return nil, rendering.OnPage(err, p.Index)
		}
		pages = append(pages, html)
	}
	html, err := rendering.Document(pages, st, g, c)
	if err != nil {
		return nil, err
	}

	if s.Verbose {
		log.Printf("[export] Built %d page(s) with template %s on %s", layout.PageCount(), r.Name(), g.PageSize)
	}
	return &Payload{
		HTML:     html,
		Template: r.Name(),
		Geometry: g,
		Layout:   layout,
		Style:    st,
		Options:  opts,
	}, nil
}

// Export builds the document and rasterizes it. A rasterization failure is returned once
// as *RasterizeError; nothing is retried and the payload is discarded.
func (s *Service) Export(ctx context.Context, doc *types.ResumeDocument, st style.Resolved) (*Result, error) {
	payload, err := s.Build(doc, st)
	if err != nil {
		return nil, err
	}
	if s.Rasterizer == nil {
		return nil, &RasterizeError{Message: "no rasterizer configured"}
	}

	pdf, err := s.Rasterizer.Rasterize(ctx, payload.HTML, payload.Geometry)
	if err != nil {
		log.Printf("[export] Rasterization failed: %v", err)
		return nil, &RasterizeError{Message: "failed to rasterize document", Cause: err}
	}
	if len(pdf) == 0 {
		return nil, &RasterizeError{Message: "rasterizer returned an empty document"}
	}

	if s.Verbose {
		log.Printf("[export] Rasterized %d page(s) into %d bytes", payload.Layout.PageCount(), len(pdf))
	}
	return &Result{
		PDF:       pdf,
		PageCount: payload.Layout.PageCount(),
		Template:  payload.Template,
		Geometry:  payload.Geometry,
		Layout:    payload.Layout,
	}, nil
}
