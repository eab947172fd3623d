package rendering

import (
	"embed"
	"html/template"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/resume-paginator/internal/estimate"
	"github.com/jonathan/resume-paginator/internal/geometry"
	"github.com/jonathan/resume-paginator/internal/paginate"
	"github.com/jonathan/resume-paginator/internal/style"
	"github.com/jonathan/resume-paginator/internal/types"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var templates = template.Must(template.New("resume").ParseFS(templateFS, "templates/*.gohtml"))

// execute runs one named template into HTML.
func execute(name string, data any) (template.HTML, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", &RenderError{Template: name, Cause: err}
	}
	return template.HTML(b.String()), nil
}

// Renderer turns a document into markup for one visual template.
type Renderer interface {
	// Name is the template identifier.
	Name() string
	// MainSections are the visible sections that flow through the main paginator.
	MainSections(doc *types.ResumeDocument) []types.Section
	// SidebarSource are the sections distributed by the sidebar pass. Nil for single-column templates.
	SidebarSource(doc *types.ResumeDocument) []types.Section
	// MainWidth is the width the main-flow sections are laid out at.
	MainWidth(g geometry.Geometry) float64
	// RenderFull renders the unpaginated, styled document used for measurement.
	RenderFull(doc *types.ResumeDocument, st style.Resolved, g geometry.Geometry) (string, error)
	// RenderPage renders one page fragment. The header appears only on page index 0.
	RenderPage(doc *types.ResumeDocument, st style.Resolved, g geometry.Geometry, page paginate.Page, sidebar *paginate.SidebarPage) (string, error)
}

// ForTemplate returns the renderer for a template identifier, defaulting to classic.
func ForTemplate(name string, c estimate.Constants) Renderer {
	if style.NormalizeTemplate(name) == style.TemplateModern {
		return &Modern{Constants: c.WithDefaults()}
	}
	return &Classic{Constants: c.WithDefaults()}
}

// bodyData feeds the "body", "page" and "measure" templates.
type bodyData struct {
	Template string
	Index    int
	Header   template.HTML
	Modern   bool
	Sections []template.HTML
	Sidebar  []template.HTML
}

type sectionData struct {
	ID      string
	Kind    types.SectionKind
	Heading string
	Entries []template.HTML
}

type headerData struct {
	Name     string
	Headline string
	Contact  []string
	Photo    template.URL
}

// photoURL trusts http(s) and inline image URLs; anything else is dropped.
func photoURL(raw string) template.URL {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "data:image/") {
		return template.URL(raw)
	}
	return ""
}

func renderHeader(info types.PersonalInfo) (template.HTML, error) {
	data := headerData{
		Name:     strings.TrimSpace(info.Name),
		Headline: strings.TrimSpace(info.Headline),
		Contact:  info.ContactItems(),
	}
	if info.HasPhoto() {
		data.Photo = photoURL(info.PhotoURL)
	}
	return execute("header", data)
}

// renderSection renders a section heading plus its entries, each entry on its own.
func renderSection(sec types.Section, heading string) (template.HTML, error) {
	views := entryViews(sec)
	entries := make([]template.HTML, 0, len(views))
	for i, v := range views {
		entries = append(entries, renderEntry(sec.ID, i, v))
	}
	return execute("section", sectionData{ID: sec.ID, Kind: sec.Kind, Heading: heading, Entries: entries})
}

// visibleNonEmpty filters sections down to those that produce output.
func visibleNonEmpty(doc *types.ResumeDocument, keep func(types.Section) bool) []types.Section {
	var out []types.Section
	for _, sec := range doc.VisibleSections() {
		if sec.IsEmpty() || !keep(sec) {
			continue
		}
		out = append(out, sec)
	}
	return out
}

// pageSections resolves a page's section IDs, silently skipping IDs the document no longer has.
func pageSections(doc *types.ResumeDocument, page paginate.Page) []types.Section {
	out := make([]types.Section, 0, len(page.SectionIDs))
	for _, id := range page.SectionIDs {
		if sec, ok := doc.SectionByID(id); ok {
			out = append(out, sec)
		}
	}
	return out
}

func renderSections(sections []types.Section, heading func(types.Section) string) ([]template.HTML, error) {
	out := make([]template.HTML, 0, len(sections))
	for _, sec := range sections {
		html, err := renderSection(sec, heading(sec))
		if err != nil {
			return nil, err
		}
		out = append(out, html)
	}
	return out, nil
}

// Classic is the single-column template: every section flows in one column.
type Classic struct {
	Constants estimate.Constants
}

func (r *Classic) Name() string { return style.TemplateClassic }

func (r *Classic) MainSections(doc *types.ResumeDocument) []types.Section {
	return visibleNonEmpty(doc, func(types.Section) bool { return true })
}

func (r *Classic) SidebarSource(*types.ResumeDocument) []types.Section { return nil }

func (r *Classic) MainWidth(g geometry.Geometry) float64 { return g.ContentWidth }

func (r *Classic) heading(sec types.Section) string {
	return cases.Title(language.English, cases.NoLower).String(sec.Heading())
}

func (r *Classic) RenderFull(doc *types.ResumeDocument, st style.Resolved, g geometry.Geometry) (string, error) {
	sections, err := renderSections(r.MainSections(doc), r.heading)
	if err != nil {
		return "", err
	}
	body, err := r.wrap("measure", doc, 0, sections)
	if err != nil {
		return "", err
	}
	return Wrap(ModeMeasure, doc.Personal.Name, []string{body}, st, g, r.Constants)
}

func (r *Classic) RenderPage(doc *types.ResumeDocument, _ style.Resolved, _ geometry.Geometry, page paginate.Page, _ *paginate.SidebarPage) (string, error) {
	sections, err := renderSections(pageSections(doc, page), r.heading)
	if err != nil {
		return "", err
	}
	return r.wrap("page", doc, page.Index, sections)
}

func (r *Classic) wrap(name string, doc *types.ResumeDocument, index int, sections []template.HTML) (string, error) {
	data := bodyData{Template: r.Name(), Index: index, Sections: sections}
	if index == 0 {
		header, err := renderHeader(doc.Personal)
		if err != nil {
			return "", err
		}
		data.Header = header
	}
	out, err := execute(name, data)
	return string(out), err
}

// Modern is the two-column template: skills and interests move to a sidebar that is
// distributed across the main column's pages by a separate pass.
type Modern struct {
	Constants estimate.Constants
}

func sidebarKind(sec types.Section) bool {
	return sec.Kind == types.KindSkills || sec.Kind == types.KindInterests
}

func (r *Modern) Name() string { return style.TemplateModern }

func (r *Modern) MainSections(doc *types.ResumeDocument) []types.Section {
	return visibleNonEmpty(doc, func(sec types.Section) bool { return !sidebarKind(sec) })
}

func (r *Modern) SidebarSource(doc *types.ResumeDocument) []types.Section {
	return visibleNonEmpty(doc, sidebarKind)
}

func (r *Modern) MainWidth(g geometry.Geometry) float64 {
	return r.Constants.WithDefaults().MainWidth(g.ContentWidth)
}

// SidebarWidth is the width sidebar items are laid out at.
func (r *Modern) SidebarWidth(g geometry.Geometry) float64 {
	return r.Constants.WithDefaults().SidebarWidth(g.ContentWidth)
}

func (r *Modern) heading(sec types.Section) string {
	return cases.Upper(language.English).String(sec.Heading())
}

func (r *Modern) RenderFull(doc *types.ResumeDocument, st style.Resolved, g geometry.Geometry) (string, error) {
	items := sidebarItemViews(r.SidebarSource(doc))
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	body, err := r.render("measure", doc, r.MainSections(doc), 0, ids)
	if err != nil {
		return "", err
	}
	return Wrap(ModeMeasure, doc.Personal.Name, []string{body}, st, g, r.Constants)
}

func (r *Modern) RenderPage(doc *types.ResumeDocument, _ style.Resolved, _ geometry.Geometry, page paginate.Page, sidebar *paginate.SidebarPage) (string, error) {
	var ids []string
	if sidebar != nil {
		ids = sidebar.ItemIDs
	}
	return r.render("page", doc, pageSections(doc, page), page.Index, ids)
}

func (r *Modern) render(name string, doc *types.ResumeDocument, main []types.Section, index int, sidebarIDs []string) (string, error) {
	sections, err := renderSections(main, r.heading)
	if err != nil {
		return "", err
	}
	groups, err := r.renderSidebar(doc, sidebarIDs)
	if err != nil {
		return "", err
	}
	data := bodyData{Template: r.Name(), Index: index, Modern: true, Sections: sections, Sidebar: groups}
	if index == 0 {
		if data.Header, err = renderHeader(doc.Personal); err != nil {
			return "", err
		}
	}
	out, err := execute(name, data)
	return string(out), err
}

type sidebarGroupData struct {
	Group   string
	Heading string
	Items   []template.HTML
}

// renderSidebar renders the listed items grouped under a heading per group, in listed order.
func (r *Modern) renderSidebar(doc *types.ResumeDocument, ids []string) ([]template.HTML, error) {
	source := r.SidebarSource(doc)
	byID := make(map[string]sidebarItemView)
	for _, it := range sidebarItemViews(source) {
		byID[it.ID] = it
	}
	headings := make(map[string]string)
	for _, sec := range source {
		group := paginate.GroupSkills
		if sec.Kind == types.KindInterests {
			group = paginate.GroupInterests
		}
		if _, ok := headings[group]; !ok {
			headings[group] = r.heading(sec)
		}
	}

	var groups []*sidebarGroupData
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			continue
		}
		if len(groups) == 0 || groups[len(groups)-1].Group != it.Group {
			groups = append(groups, &sidebarGroupData{Group: it.Group, Heading: headings[it.Group]})
		}
		html, err := execute("sidebar-item", it)
		if err != nil {
			return nil, err
		}
		g := groups[len(groups)-1]
		g.Items = append(g.Items, html)
	}

	out := make([]template.HTML, 0, len(groups))
	for _, g := range groups {
		html, err := execute("sidebar-group", g)
		if err != nil {
			return nil, err
		}
		out = append(out, html)
	}
	return out, nil
}
