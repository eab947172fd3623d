package rendering

import (
	"html/template"
	"strings"

	"github.com/jonathan/resume-paginator/internal/estimate"
	"github.com/jonathan/resume-paginator/internal/geometry"
	"github.com/jonathan/resume-paginator/internal/style"
)

// Document modes, used as the body class.
const (
	ModeExport  = "export"
	ModePreview = "preview"
	ModeMeasure = "measure"
)

type documentData struct {
	Title string
	CSS   template.CSS
	Mode  string
	Pages []template.HTML
}

// Document concatenates rendered pages into the single HTML document handed to the
// rasterizer. Pages are separated by explicit page-break markers and the @page rule
// matches the geometry exactly.
func Document(pages []string, st style.Resolved, g geometry.Geometry, c estimate.Constants) (string, error) {
	return Wrap(ModeExport, "Resume", pages, st, g, c)
}

// Wrap builds a styled HTML document around page fragments.
func Wrap(mode, title string, pages []string, st style.Resolved, g geometry.Geometry, c estimate.Constants) (string, error) {
	if strings.TrimSpace(title) == "" {
		title = "Resume"
	}
	data := documentData{
		Title: title,
		CSS:   Stylesheet(st, g, c),
		Mode:  mode,
		Pages: make([]template.HTML, len(pages)),
	}
	for i, p := range pages {
		data.Pages[i] = template.HTML(p)
	}
	out, err := execute("document", data)
	return string(out), err
}
