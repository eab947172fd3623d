// Package types provides type definitions for structured data used throughout the resume-paginator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SectionKind identifies one of the fixed résumé section types.
type SectionKind string

// The closed set of section kinds. Documents carrying any other kind are rejected before layout.
const (
	KindSummary      SectionKind = "summary"
	KindSkills       SectionKind = "skills"
	KindWork         SectionKind = "work"
	KindEducation    SectionKind = "education"
	KindProjects     SectionKind = "projects"
	KindCourses      SectionKind = "courses"
	KindLanguages    SectionKind = "languages"
	KindPublications SectionKind = "publications"
	KindAwards       SectionKind = "awards"
	KindVolunteer    SectionKind = "volunteer"
	KindReferences   SectionKind = "references"
	KindInterests    SectionKind = "interests"
)

// AllSectionKinds lists every valid kind in its default display order.
var AllSectionKinds = []SectionKind{
	KindSummary, KindSkills, KindWork, KindEducation, KindProjects, KindCourses,
	KindLanguages, KindPublications, KindAwards, KindVolunteer, KindReferences, KindInterests,
}

// defaultTitles are the headings used when a section carries no custom title.
var defaultTitles = map[SectionKind]string{
	KindSummary:      "Summary",
	KindSkills:       "Technical Skills",
	KindWork:         "Work Experience",
	KindEducation:    "Education",
	KindProjects:     "Projects",
	KindCourses:      "Courses",
	KindLanguages:    "Languages",
	KindPublications: "Publications",
	KindAwards:       "Awards",
	KindVolunteer:    "Volunteer Experience",
	KindReferences:   "References",
	KindInterests:    "Interests",
}

// Valid reports whether k belongs to the closed enumeration.
func (k SectionKind) Valid() bool {
	_, ok := defaultTitles[k]
	return ok
}

// DefaultTitle returns the heading used for the kind when no custom title is set.
func (k SectionKind) DefaultTitle() string {
	return defaultTitles[k]
}

// ResumeDocument is the full content graph of one résumé.
type ResumeDocument struct {
	Personal PersonalInfo `json:"personal"`
	Sections []Section    `json:"sections" validate:"dive"`
}

// PersonalInfo holds the name/contact block rendered at the top of page one.
type PersonalInfo struct {
	Name     string `json:"name"`
	Headline string `json:"headline,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// HasPhoto reports whether a profile photo enlarges the header.
func (p PersonalInfo) HasPhoto() bool {
	return strings.TrimSpace(p.PhotoURL) != ""
}

// ContactItems returns the non-blank contact fields in display order.
func (p PersonalInfo) ContactItems() []string {
	var items []string
	for _, v := range []string{p.Email, p.Phone, p.Location, p.Website, p.LinkedIn, p.GitHub} {
		if v = strings.TrimSpace(v); v != "" {
			items = append(items, v)
		}
	}
	return items
}

// Section is one named block of résumé content. Only the entry list matching Kind is used.
type Section struct {
	ID      string      `json:"id,omitempty"`
	Kind    SectionKind `json:"kind" validate:"required,oneof=summary skills work education projects courses languages publications awards volunteer references interests"`
	Title   string      `json:"title,omitempty"`
	Deleted bool        `json:"deleted,omitempty"`

	Summary         string             `json:"summary,omitempty"`
	SkillCategories []SkillCategory    `json:"skill_categories,omitempty"`
	Work            []WorkEntry        `json:"work,omitempty"`
	Education       []EducationEntry   `json:"education,omitempty"`
	Projects        []ProjectEntry     `json:"projects,omitempty"`
	Courses         []CourseEntry      `json:"courses,omitempty"`
	Languages       []LanguageEntry    `json:"languages,omitempty"`
	Publications    []PublicationEntry `json:"publications,omitempty"`
	Awards          []AwardEntry       `json:"awards,omitempty"`
	Volunteer       []VolunteerEntry   `json:"volunteer,omitempty"`
	References      []ReferenceEntry   `json:"references,omitempty"`
	Interests       []string           `json:"interests,omitempty"`
}

// Heading returns the custom title or the kind's default.
func (s Section) Heading() string {
	if t := strings.TrimSpace(s.Title); t != "" {
		return t
	}
	return s.Kind.DefaultTitle()
}

// EntryCount returns the number of qualifying entries in the section.
func (s Section) EntryCount() int {
	n := 0
	switch s.Kind {
	case KindSummary:
		if !blank(s.Summary) {
			n = 1
		}
	case KindSkills:
		for _, c := range s.SkillCategories {
			if len(c.NonBlankSkills()) > 0 {
				n++
			}
		}
	case KindWork:
		for _, e := range s.Work {
			if !e.IsBlank() {
				n++
			}
		}
	case KindEducation:
		for _, e := range s.Education {
			if !e.IsBlank() {
				n++
			}
		}
	case KindProjects:
		for _, e := range s.Projects {
			if !e.IsBlank() {
				n++
			}
		}
	case KindCourses:
		for _, e := range s.Courses {
			if !blank(e.Name, e.Institution, e.Date) {
				n++
			}
		}
	case KindLanguages:
		for _, e := range s.Languages {
			if !blank(e.Language) {
				n++
			}
		}
	case KindPublications:
		for _, e := range s.Publications {
			if !blank(e.Title, e.Publisher, e.Date, e.Description) {
				n++
			}
		}
	case KindAwards:
		for _, e := range s.Awards {
			if !blank(e.Title, e.Issuer, e.Date, e.Description) {
				n++
			}
		}
	case KindVolunteer:
		for _, e := range s.Volunteer {
			if !e.IsBlank() {
				n++
			}
		}
	case KindReferences:
		for _, e := range s.References {
			if !blank(e.Name, e.Title, e.Company, e.Contact) {
				n++
			}
		}
	case KindInterests:
		for _, i := range s.Interests {
			if !blank(i) {
				n++
			}
		}
	}
	return n
}

// IsEmpty reports whether the section contributes nothing to layout.
func (s Section) IsEmpty() bool {
	return s.Deleted || s.EntryCount() == 0
}

// Normalize assigns missing section IDs ("<kind>-<index>") and makes duplicate IDs unique.
// It mutates the document in place and is idempotent.
func (d *ResumeDocument) Normalize() {
	seen := make(map[string]int, len(d.Sections))
	for i := range d.Sections {
		sec := &d.Sections[i]
		id := strings.TrimSpace(sec.ID)
		if id == "" {
			id = fmt.Sprintf("%s-%d", sec.Kind, i)
		}
		base := id
		for seen[id] > 0 {
			seen[base]++
			id = fmt.Sprintf("%s-%d", base, seen[base])
		}
		seen[id]++
		sec.ID = id
	}
}

// VisibleSections returns the non-empty, non-deleted sections in document order.
func (d *ResumeDocument) VisibleSections() []Section {
	out := make([]Section, 0, len(d.Sections))
	for _, s := range d.Sections {
		if !s.IsEmpty() {
			out = append(out, s)
		}
	}
	return out
}

// SectionByID looks a section up by its ID.
func (d *ResumeDocument) SectionByID(id string) (Section, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Validate rejects documents whose section kinds fall outside the closed enumeration.
// Missing or partial entry fields are not errors; they render blank.
func (d *ResumeDocument) Validate() error {
	validate := validator.New()
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &DocumentError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("invalid value %q (%s)", fmt.Sprint(fe.Value()), fe.Tag()),
			}
		}
		return &DocumentError{Message: "document validation failed", Cause: err}
	}
	return nil
}

// blank reports whether every value is empty after trimming.
func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Prepared returns a normalized and validated copy of the document. d itself is not mutated.
func (d *ResumeDocument) Prepared() (*ResumeDocument, error) {
	if d == nil {
		return nil, &DocumentError{Field: "document", Message: "document is required"}
	}
	out := *d
	out.Sections = append([]Section(nil), d.Sections...)
	out.Normalize()
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
