package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionKind_Valid(t *testing.T) {
	for _, k := range AllSectionKinds {
		assert.True(t, k.Valid(), "kind %s", k)
		assert.NotEmpty(t, k.DefaultTitle())
	}
	assert.False(t, SectionKind("hobbies").Valid())
	assert.False(t, SectionKind("").Valid())
}

func TestSection_IsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		section Section
		want    bool
	}{
		{"blank summary", Section{Kind: KindSummary, Summary: "   "}, true},
		{"summary with text", Section{Kind: KindSummary, Summary: "Engineer"}, false},
		{"skills with no categories", Section{Kind: KindSkills}, true},
		{"skills with empty category", Section{Kind: KindSkills, SkillCategories: []SkillCategory{{Name: "Go", Skills: []string{" "}}}}, true},
		{"skills with one skill", Section{Kind: KindSkills, SkillCategories: []SkillCategory{{Name: "Lang", Skills: []string{"Go"}}}}, false},
		{"deleted work", Section{Kind: KindWork, Deleted: true, Work: []WorkEntry{{Position: "Dev"}}}, true},
		{"work with bullet only", Section{Kind: KindWork, Work: []WorkEntry{{Bullets: []Bullet{{Text: "Shipped"}}}}}, false},
		{"work with blank entry", Section{Kind: KindWork, Work: []WorkEntry{{}}}, true},
		{"interests", Section{Kind: KindInterests, Interests: []string{"", "Climbing"}}, false},
		{"wrong list for kind", Section{Kind: KindAwards, Work: []WorkEntry{{Position: "Dev"}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.section.IsEmpty())
		})
	}
}

func TestResumeDocument_Normalize(t *testing.T) {
	doc := ResumeDocument{Sections: []Section{
		{Kind: KindSummary},
		{ID: "jobs", Kind: KindWork},
		{ID: "jobs", Kind: KindWork},
		{Kind: KindSkills},
	}}
	doc.Normalize()

	ids := []string{doc.Sections[0].ID, doc.Sections[1].ID, doc.Sections[2].ID, doc.Sections[3].ID}
	assert.Equal(t, []string{"summary-0", "jobs", "jobs-2", "skills-3"}, ids)

	doc.Normalize()
	assert.Equal(t, "jobs-2", doc.Sections[2].ID, "normalize must be idempotent")
}

func TestResumeDocument_VisibleSectionsPreservesOrder(t *testing.T) {
	doc := ResumeDocument{Sections: []Section{
		{ID: "a", Kind: KindSummary, Summary: "x"},
		{ID: "b", Kind: KindSkills},
		{ID: "c", Kind: KindInterests, Interests: []string{"Chess"}},
		{ID: "d", Kind: KindWork, Deleted: true, Work: []WorkEntry{{Position: "Dev"}}},
		{ID: "e", Kind: KindCourses, Courses: []CourseEntry{{Name: "Algorithms"}}},
	}}

	visible := doc.VisibleSections()
	require.Len(t, visible, 3)
	assert.Equal(t, "a", visible[0].ID)
	assert.Equal(t, "c", visible[1].ID)
	assert.Equal(t, "e", visible[2].ID)
}

func TestResumeDocument_ValidateRejectsUnknownKind(t *testing.T) {
	raw := `{"personal":{"name":"Ada"},"sections":[{"kind":"summary","summary":"hi"},{"kind":"hobbies"}]}`
	var doc ResumeDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	err := doc.Validate()
	require.Error(t, err)
	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.Contains(t, docErr.Field, "Kind")
	assert.Contains(t, err.Error(), "hobbies")
}

func TestResumeDocument_ValidateAcceptsPartialEntries(t *testing.T) {
	doc := ResumeDocument{Sections: []Section{
		{Kind: KindWork, Work: []WorkEntry{{Company: "Acme"}}},
		{Kind: KindEducation, Education: []EducationEntry{{}}},
	}}
	assert.NoError(t, doc.Validate())
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, "", DateRange("", ""))
	assert.Equal(t, "2020 – Present", DateRange("2020", ""))
	assert.Equal(t, "2020 – Present", DateRange("2020", "present"))
	assert.Equal(t, "2019 – 2021", DateRange("2019", "2021"))
	assert.Equal(t, "2021", DateRange("", "2021"))
}

func TestPersonalInfo_ContactItems(t *testing.T) {
	p := PersonalInfo{Email: "a@b.c", Phone: " ", GitHub: "gh/ada"}
	assert.Equal(t, []string{"a@b.c", "gh/ada"}, p.ContactItems())
	assert.False(t, p.HasPhoto())
}

func TestPrepared_CopiesAndNormalizes(t *testing.T) {
	doc := &ResumeDocument{Sections: []Section{{Kind: KindSummary, Summary: "x"}}}
	out, err := doc.Prepared()
	require.NoError(t, err)
	assert.Equal(t, "summary-0", out.Sections[0].ID)
	assert.Empty(t, doc.Sections[0].ID, "input is untouched")

	var missing *ResumeDocument
	_, err = missing.Prepared()
	var docErr *DocumentError
	assert.ErrorAs(t, err, &docErr)

	_, err = (&ResumeDocument{Sections: []Section{{Kind: "hobbies"}}}).Prepared()
	assert.Error(t, err)
}
