package rendering

import (
	"html/template"
	"log"
	"strings"

	"github.com/jonathan/resume-paginator/internal/estimate"
	"github.com/jonathan/resume-paginator/internal/paginate"
	"github.com/jonathan/resume-paginator/internal/types"
)

// entryView is the presentational shape shared by every entry kind. The lines it produces
// mirror what the estimator charges for the same kind.
type entryView struct {
	Compact   bool
	TitleLine bool
	Title     string
	Meta      string
	Subtitle  string
	Lines     []string
	Text      template.HTML
	Bullets   []string
}

// joinNonBlank joins the non-blank values with sep.
func joinNonBlank(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}

func bulletTexts(bullets []types.Bullet) []string {
	var out []string
	for _, b := range bullets {
		if t := strings.TrimSpace(b.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// entryViews builds one view per qualifying entry of a main-flow section, skipping the
// same blank entries the estimator skips.
func entryViews(sec types.Section) []entryView {
	var out []entryView
	titled := func(title, meta, subtitle string, text template.HTML, bullets []string, lines ...string) entryView {
		return entryView{TitleLine: true, Title: title, Meta: meta, Subtitle: subtitle, Text: text, Bullets: bullets, Lines: lines}
	}

	switch sec.Kind {
	case types.KindSummary:
		out = append(out, entryView{Text: Markdown(sec.Summary)})
	case types.KindSkills:
		for _, cat := range sec.SkillCategories {
			list := cat.NonBlankSkills()
			if len(list) == 0 {
				continue
			}
			row := template.HTMLEscapeString(strings.Join(list, ", "))
			if name := strings.TrimSpace(cat.Name); name != "" {
				row = "<strong>" + template.HTMLEscapeString(name) + ":</strong> " + row
			}
			out = append(out, entryView{Text: template.HTML("<p>" + row + "</p>")})
		}
	case types.KindWork:
		for _, w := range sec.Work {
			if w.IsBlank() {
				continue
			}
			out = append(out, titled(w.Position, types.DateRange(w.StartDate, w.EndDate),
				joinNonBlank(" · ", w.Company, w.Location), paragraph(w.Description), bulletTexts(w.Bullets)))
		}
	case types.KindVolunteer:
		for _, v := range sec.Volunteer {
			if v.IsBlank() {
				continue
			}
			out = append(out, titled(v.Role, types.DateRange(v.StartDate, v.EndDate),
				joinNonBlank(" · ", v.Organization, v.Location), paragraph(v.Description), bulletTexts(v.Bullets)))
		}
	case types.KindEducation:
		for _, ed := range sec.Education {
			if ed.IsBlank() {
				continue
			}
			var lines []string
			if gpa := strings.TrimSpace(ed.GPA); gpa != "" {
				lines = append(lines, "GPA: "+gpa)
			}
			out = append(out, titled(joinNonBlank(", ", ed.Degree, ed.Field), types.DateRange(ed.StartDate, ed.EndDate),
				joinNonBlank(" · ", ed.Institution, ed.Location), "", bulletTexts(ed.Bullets), lines...))
		}
	case types.KindProjects:
		for _, p := range sec.Projects {
			if p.IsBlank() {
				continue
			}
			out = append(out, titled(p.Name, types.DateRange(p.StartDate, p.EndDate),
				joinNonBlank(" · ", strings.Join(p.Technologies, ", "), p.URL), paragraph(p.Description), bulletTexts(p.Bullets)))
		}
	case types.KindCourses:
		for _, co := range sec.Courses {
			if strings.TrimSpace(co.Name+co.Institution+co.Date) == "" {
				continue
			}
			out = append(out, entryView{Compact: true, Title: joinNonBlank(" · ", co.Name, co.Institution), Meta: strings.TrimSpace(co.Date)})
		}
	case types.KindLanguages:
		for _, l := range sec.Languages {
			if strings.TrimSpace(l.Language) == "" {
				continue
			}
			out = append(out, entryView{Compact: true, Title: strings.TrimSpace(l.Language), Meta: strings.TrimSpace(l.Proficiency)})
		}
	case types.KindPublications:
		for _, p := range sec.Publications {
			if strings.TrimSpace(p.Title+p.Publisher+p.Date+p.Description) == "" {
				continue
			}
			out = append(out, titled(p.Title, "", joinNonBlank(" · ", p.Publisher, p.Date), paragraph(p.Description), nil))
		}
	case types.KindAwards:
		for _, a := range sec.Awards {
			if strings.TrimSpace(a.Title+a.Issuer+a.Date+a.Description) == "" {
				continue
			}
			out = append(out, titled(a.Title, strings.TrimSpace(a.Date), strings.TrimSpace(a.Issuer), paragraph(a.Description), nil))
		}
	case types.KindReferences:
		for _, r := range sec.References {
			if strings.TrimSpace(r.Name+r.Title+r.Company+r.Contact) == "" {
				continue
			}
			var lines []string
			if c := strings.TrimSpace(r.Contact); c != "" {
				lines = append(lines, c)
			}
			out = append(out, titled(r.Name, "", joinNonBlank(" · ", r.Title, r.Company), "", nil, lines...))
		}
	case types.KindInterests:
		var list []string
		for _, i := range sec.Interests {
			if i = strings.TrimSpace(i); i != "" {
				list = append(list, i)
			}
		}
		if len(list) > 0 {
			out = append(out, entryView{Text: paragraph(strings.Join(list, ", "))})
		}
	}
	return out
}

// sidebarItemView is one placeable block of the modern sidebar.
type sidebarItemView struct {
	ID    string
	Group string
	Label string
	Value string
}

// sidebarItemViews lists sidebar items skills first, with the IDs the estimator and measurer use.
func sidebarItemViews(sections []types.Section) []sidebarItemView {
	var skills, interests []sidebarItemView
	for _, sec := range sections {
		if sec.IsEmpty() {
			continue
		}
		switch sec.Kind {
		case types.KindSkills:
			for i, cat := range sec.SkillCategories {
				list := cat.NonBlankSkills()
				if len(list) == 0 {
					continue
				}
				skills = append(skills, sidebarItemView{
					ID:    estimate.SidebarItemID(sec.ID, i),
					Group: paginate.GroupSkills,
					Label: strings.TrimSpace(cat.Name),
					Value: strings.Join(list, ", "),
				})
			}
		case types.KindInterests:
			for i, interest := range sec.Interests {
				if strings.TrimSpace(interest) == "" {
					continue
				}
				interests = append(interests, sidebarItemView{
					ID:    estimate.SidebarItemID(sec.ID, i),
					Group: paginate.GroupInterests,
					Value: strings.TrimSpace(interest),
				})
			}
		}
	}
	return append(skills, interests...)
}

// renderEntry executes the entry template for one entry. A failing entry renders empty
// so the rest of its section still appears.
func renderEntry(sectionID string, i int, view entryView) template.HTML {
	out, err := execute("entry", view)
	if err != nil {
		log.Printf("[render] entry %d of section %q rendered empty: %v", i, sectionID, err)
		return ""
	}
	return out
}
