package estimate

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-paginator/internal/paginate"
	"github.com/jonathan/resume-paginator/internal/style"
	"github.com/jonathan/resume-paginator/internal/types"
)

// Estimator turns section content into estimated heights. The zero value uses DefaultConstants.
type Estimator struct {
	Constants Constants
}

// New returns an estimator with the given constants, filling zero fields with defaults.
func New(c Constants) *Estimator {
	return &Estimator{Constants: c.WithDefaults()}
}

func (e *Estimator) constants() Constants {
	return e.Constants.WithDefaults()
}

// Sections estimates every non-empty section in order. Empty sections are omitted,
// never measured as zero. Spacing is folded into each height, so CollapsedMargin is 0.
func (e *Estimator) Sections(sections []types.Section, st style.Resolved, width float64) []paginate.SectionMeasurement {
	out := make([]paginate.SectionMeasurement, 0, len(sections))
	for _, sec := range sections {
		if sec.IsEmpty() {
			continue
		}
		out = append(out, paginate.SectionMeasurement{ID: sec.ID, Height: e.Section(sec, st, width)})
	}
	return out
}

// Section estimates one section: heading, entries, entry spacing and trailing section spacing.
func (e *Estimator) Section(sec types.Section, st style.Resolved, width float64) float64 {
	if sec.IsEmpty() {
		return 0
	}
	c := e.constants()
	entries := e.entryHeights(sec, st, width, c)
	if len(entries) == 0 {
		return 0
	}

	h := e.headingHeight(st, c)
	gap := st.EntrySpacing
	if CompactKind(sec.Kind) {
		gap = c.ListGap
	}
	for i, eh := range entries {
		if i > 0 {
			h += gap
		}
		h += eh
	}
	h += st.SectionSpacing
	return h * c.Scale
}

// Header estimates the name/contact block reserved on page one.
func (e *Estimator) Header(info types.PersonalInfo, st style.Resolved, width float64) float64 {
	c := e.constants()
	text := st.NameFontSize * c.NameLineFactor
	if strings.TrimSpace(info.Headline) != "" {
		text += st.SubHeaderLineHeight()
	}
	textWidth := width
	if info.HasPhoto() {
		textWidth = math.Max(0, width-c.PhotoSize-c.ColumnGap)
	}
	if contact := strings.Join(info.ContactItems(), " · "); contact != "" {
		text += float64(lines(contact, textWidth, st.BodySize, c)) * st.BodyLineHeight()
	}
	if info.HasPhoto() {
		text = math.Max(text, c.PhotoSize)
	}
	return (text + st.SectionSpacing) * c.Scale
}

// SidebarHeadingHeight is the height charged for a sidebar group heading.
func (e *Estimator) SidebarHeadingHeight(st style.Resolved) float64 {
	c := e.constants()
	return e.headingHeight(st, c) * c.Scale
}

// SidebarItems breaks sidebar sections (skills, interests) into individually placeable items,
// skills first, each carrying its estimated height including the row gap below it.
func (e *Estimator) SidebarItems(sections []types.Section, st style.Resolved, width float64) []paginate.SidebarItem {
	c := e.constants()
	var skills, interests []paginate.SidebarItem
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
				h := float64(lines(strings.Join(list, ", "), width, st.BodySize, c)) * st.BodyLineHeight()
				if strings.TrimSpace(cat.Name) != "" {
					h += st.BodyLineHeight()
				}
				skills = append(skills, paginate.SidebarItem{
					ID:     SidebarItemID(sec.ID, i),
					Group:  paginate.GroupSkills,
					Height: (h + c.ListGap) * c.Scale,
				})
			}
		case types.KindInterests:
			for i, interest := range sec.Interests {
				if strings.TrimSpace(interest) == "" {
					continue
				}
				h := float64(lines(interest, width, st.BodySize, c)) * st.BodyLineHeight()
				interests = append(interests, paginate.SidebarItem{
					ID:     SidebarItemID(sec.ID, i),
					Group:  paginate.GroupInterests,
					Height: (h + c.ListGap) * c.Scale,
				})
			}
		}
	}
	return append(skills, interests...)
}

// SidebarItemID names the i-th entry of a sidebar section. Templates use the same IDs.
func SidebarItemID(sectionID string, i int) string {
	return sectionID + "/" + strconv.Itoa(i)
}

func (e *Estimator) headingHeight(st style.Resolved, c Constants) float64 {
	return st.SectionHeaderSize*c.HeaderLineFactor + c.HeaderRulePadding + c.HeaderRuleWidth + c.HeaderGap
}

// entryHeights returns one height per qualifying entry, in order.
func (e *Estimator) entryHeights(sec types.Section, st style.Resolved, width float64, c Constants) []float64 {
	body := st.BodyLineHeight()
	title := st.SubHeaderLineHeight()
	para := func(text string) float64 {
		return float64(lines(text, width, st.BodySize, c)) * body
	}
	bullets := func(bs []types.Bullet) float64 {
		return float64(types.CountBullets(bs)) * (body + c.BulletGap)
	}
	optional := func(h float64, values ...string) float64 {
		for _, v := range values {
			if strings.TrimSpace(v) != "" {
				return h
			}
		}
		return 0
	}

	var out []float64
	switch sec.Kind {
	case types.KindSummary:
		out = append(out, para(sec.Summary))
	case types.KindSkills:
		for _, cat := range sec.SkillCategories {
			list := cat.NonBlankSkills()
			if len(list) == 0 {
				continue
			}
			row := strings.Join(list, ", ")
			if name := strings.TrimSpace(cat.Name); name != "" {
				row = name + ": " + row
			}
			out = append(out, para(row))
		}
	case types.KindWork:
		for _, w := range sec.Work {
			if w.IsBlank() {
				continue
			}
			out = append(out, title+optional(body, w.Company, w.Location)+para(w.Description)+bullets(w.Bullets))
		}
	case types.KindVolunteer:
		for _, v := range sec.Volunteer {
			if v.IsBlank() {
				continue
			}
			out = append(out, title+optional(body, v.Organization, v.Location)+para(v.Description)+bullets(v.Bullets))
		}
	case types.KindEducation:
		for _, ed := range sec.Education {
			if ed.IsBlank() {
				continue
			}
			out = append(out, title+optional(body, ed.Institution, ed.Location)+optional(body, ed.GPA)+bullets(ed.Bullets))
		}
	case types.KindProjects:
		for _, p := range sec.Projects {
			if p.IsBlank() {
				continue
			}
			tech := strings.Join(p.Technologies, ", ")
			out = append(out, title+optional(body, tech, p.URL)+para(p.Description)+bullets(p.Bullets))
		}
	case types.KindCourses:
		for _, co := range sec.Courses {
			if strings.TrimSpace(co.Name+co.Institution+co.Date) == "" {
				continue
			}
			out = append(out, body)
		}
	case types.KindLanguages:
		for _, l := range sec.Languages {
			if strings.TrimSpace(l.Language) == "" {
				continue
			}
			out = append(out, body)
		}
	case types.KindPublications:
		for _, p := range sec.Publications {
			if strings.TrimSpace(p.Title+p.Publisher+p.Date+p.Description) == "" {
				continue
			}
			out = append(out, title+optional(body, p.Publisher, p.Date)+para(p.Description))
		}
	case types.KindAwards:
		for _, a := range sec.Awards {
			if strings.TrimSpace(a.Title+a.Issuer+a.Date+a.Description) == "" {
				continue
			}
			out = append(out, title+optional(body, a.Issuer)+para(a.Description))
		}
	case types.KindReferences:
		for _, r := range sec.References {
			if strings.TrimSpace(r.Name+r.Title+r.Company+r.Contact) == "" {
				continue
			}
			out = append(out, title+optional(body, r.Title, r.Company)+optional(body, r.Contact))
		}
	case types.KindInterests:
		var list []string
		for _, i := range sec.Interests {
			if i = strings.TrimSpace(i); i != "" {
				list = append(list, i)
			}
		}
		if len(list) > 0 {
			out = append(out, para(strings.Join(list, ", ")))
		}
	}
	return out
}

// CompactKind reports kinds laid out as tight rows separated by ListGap instead of EntrySpacing.
// The templates space rows with the same rule.
func CompactKind(k types.SectionKind) bool {
	return k == types.KindCourses || k == types.KindLanguages
}

// lines is the number of wrapped lines text occupies at the given width.
func lines(text string, width, fontSize float64, c Constants) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	perLine := 1
	if fontSize > 0 && c.AvgCharWidth > 0 {
		perLine = int(math.Floor(width / (fontSize * c.AvgCharWidth)))
	}
	if perLine < 1 {
		perLine = 1
	}
	n := utf8.RuneCountInString(text)
	return (n + perLine - 1) / perLine
}
