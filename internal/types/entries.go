package types

import "strings"

// Bullet is one line item under a job, project, degree or volunteer role.
type Bullet struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// CountBullets returns the number of bullets with visible text.
func CountBullets(bullets []Bullet) int {
	n := 0
	for _, b := range bullets {
		if strings.TrimSpace(b.Text) != "" {
			n++
		}
	}
	return n
}

// SkillCategory groups skills under a label, e.g. "Languages: Go, Rust".
type SkillCategory struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// NonBlankSkills returns the trimmed, non-empty skills in order.
func (c SkillCategory) NonBlankSkills() []string {
	out := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// WorkEntry is a single job.
type WorkEntry struct {
	Position    string   `json:"position"`
	Company     string   `json:"company"`
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Description string   `json:"description,omitempty"`
	Bullets     []Bullet `json:"bullets,omitempty"`
}

// IsBlank reports whether the entry has nothing to show.
func (e WorkEntry) IsBlank() bool {
	return blank(e.Position, e.Company, e.Location, e.StartDate, e.EndDate, e.Description) && CountBullets(e.Bullets) == 0
}

// EducationEntry is a degree or programme.
type EducationEntry struct {
	Degree      string   `json:"degree"`
	Field       string   `json:"field,omitempty"`
	Institution string   `json:"institution"`
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	GPA         string   `json:"gpa,omitempty"`
	Bullets     []Bullet `json:"bullets,omitempty"`
}

// IsBlank reports whether the entry has nothing to show.
func (e EducationEntry) IsBlank() bool {
	return blank(e.Degree, e.Field, e.Institution, e.Location, e.StartDate, e.EndDate, e.GPA) && CountBullets(e.Bullets) == 0
}

// ProjectEntry is a personal or professional project.
type ProjectEntry struct {
	Name         string   `json:"name"`
	URL          string   `json:"url,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Description  string   `json:"description,omitempty"`
	Bullets      []Bullet `json:"bullets,omitempty"`
}

// IsBlank reports whether the entry has nothing to show.
func (e ProjectEntry) IsBlank() bool {
	return blank(e.Name, e.URL, e.StartDate, e.EndDate, e.Description) &&
		blank(e.Technologies...) && CountBullets(e.Bullets) == 0
}

// CourseEntry is a single course or certification.
type CourseEntry struct {
	Name        string `json:"name"`
	Institution string `json:"institution,omitempty"`
	Date        string `json:"date,omitempty"`
}

// LanguageEntry is a spoken language with an optional proficiency.
type LanguageEntry struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency,omitempty"`
}

// PublicationEntry is a paper, article or book.
type PublicationEntry struct {
	Title       string `json:"title"`
	Publisher   string `json:"publisher,omitempty"`
	Date        string `json:"date,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// AwardEntry is an award or honour.
type AwardEntry struct {
	Title       string `json:"title"`
	Issuer      string `json:"issuer,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// VolunteerEntry is an unpaid role; it lays out like a job.
type VolunteerEntry struct {
	Role         string   `json:"role"`
	Organization string   `json:"organization"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Description  string   `json:"description,omitempty"`
	Bullets      []Bullet `json:"bullets,omitempty"`
}

// IsBlank reports whether the entry has nothing to show.
func (e VolunteerEntry) IsBlank() bool {
	return blank(e.Role, e.Organization, e.Location, e.StartDate, e.EndDate, e.Description) && CountBullets(e.Bullets) == 0
}

// ReferenceEntry is a professional reference.
type ReferenceEntry struct {
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// DateRange formats a start/end pair the way every template prints it.
// An empty end date with a start date reads as "Present".
func DateRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "" || strings.EqualFold(end, "present"):
		return start + " – Present"
	default:
		return start + " – " + end
	}
}
