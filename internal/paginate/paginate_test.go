package paginate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(n int, height float64) []SectionMeasurement {
	out := make([]SectionMeasurement, n)
	for i := range out {
		out[i] = SectionMeasurement{ID: fmt.Sprintf("s%d", i+1), Height: height}
	}
	return out
}

func TestPaginate_WorkHistoryExample(t *testing.T) {
	sections := uniform(5, 220)
	opts := Options{ContentHeight: 1000, FirstPageHeaderHeight: 180, BottomMarginReserve: 40}

	pages := Paginate(sections, opts)

	require.Len(t, pages, 2)
	assert.Equal(t, []string{"s1", "s2", "s3"}, pages[0].SectionIDs)
	assert.Equal(t, 840.0, pages[0].Height)
	assert.Equal(t, []string{"s4", "s5"}, pages[1].SectionIDs)
	assert.Equal(t, 440.0, pages[1].Height)
	assert.NoError(t, Verify(pages, sections, opts))
}

func TestPaginate_EmptyInputYieldsOneEmptyPage(t *testing.T) {
	pages := Paginate(nil, Options{ContentHeight: 1000, FirstPageHeaderHeight: 180})
	require.Len(t, pages, 1)
	assert.Empty(t, pages[0].SectionIDs)
	assert.NotNil(t, pages[0].SectionIDs)
	assert.Equal(t, 0, pages[0].Index)
}

func TestPaginate_OversizedSectionSitsAlone(t *testing.T) {
	sections := []SectionMeasurement{
		{ID: "a", Height: 100},
		{ID: "huge", Height: 2500},
		{ID: "b", Height: 100},
	}
	opts := Options{ContentHeight: 1000, BottomMarginReserve: 40}

	pages := Paginate(sections, opts)

	require.Len(t, pages, 3)
	assert.Equal(t, []string{"a"}, pages[0].SectionIDs)
	assert.Equal(t, []string{"huge"}, pages[1].SectionIDs)
	assert.Equal(t, 2500.0, pages[1].Height)
	assert.Equal(t, []string{"b"}, pages[2].SectionIDs)
	assert.NoError(t, Verify(pages, sections, opts))
}

func TestPaginate_FirstSectionTallerThanHeaderSpaceStaysOnPageOne(t *testing.T) {
	sections := []SectionMeasurement{{ID: "a", Height: 900}, {ID: "b", Height: 10}}
	opts := Options{ContentHeight: 1000, FirstPageHeaderHeight: 200}

	pages := Paginate(sections, opts)

	require.Len(t, pages, 2)
	assert.Equal(t, []string{"a"}, pages[0].SectionIDs)
	assert.Equal(t, 1100.0, pages[0].Height)
	assert.Equal(t, []string{"b"}, pages[1].SectionIDs)
}

func TestPaginate_CollapsedMarginLaw(t *testing.T) {
	// two sections with bottom margin 20 and top margin 12 contribute a gap of 20, not 32
	sections := []SectionMeasurement{
		{ID: "a", Height: 100},
		{ID: "b", Height: 100, CollapsedMargin: 20},
	}
	pages := Paginate(sections, Options{ContentHeight: 1000})
	require.Len(t, pages, 1)
	assert.Equal(t, 220.0, pages[0].Height)
}

func TestPaginate_MarginIgnoredAtTopOfNewPage(t *testing.T) {
	sections := []SectionMeasurement{
		{ID: "a", Height: 500},
		{ID: "b", Height: 480, CollapsedMargin: 30},
	}
	opts := Options{ContentHeight: 1000}

	pages := Paginate(sections, opts)

	// 500 + 30 + 480 = 1010 does not fit; b opens page two without its margin
	require.Len(t, pages, 2)
	assert.Equal(t, 480.0, pages[1].Height)
	assert.NoError(t, Verify(pages, sections, opts))
}

func TestPaginate_MarginCountsTowardCapacity(t *testing.T) {
	sections := []SectionMeasurement{
		{ID: "a", Height: 480},
		{ID: "b", Height: 480, CollapsedMargin: 41},
	}
	opts := Options{ContentHeight: 1000}
	pages := Paginate(sections, opts)
	assert.Len(t, pages, 2)

	sections[1].CollapsedMargin = 40
	pages = Paginate(sections, opts)
	assert.Len(t, pages, 1, "exact fit stays on the page")
}

func TestPaginate_Deterministic(t *testing.T) {
	sections := []SectionMeasurement{
		{ID: "summary", Height: 120.4},
		{ID: "work", Height: 611.2, CollapsedMargin: 16},
		{ID: "education", Height: 233.9, CollapsedMargin: 16},
		{ID: "projects", Height: 410.1, CollapsedMargin: 16},
		{ID: "skills", Height: 98.7, CollapsedMargin: 16},
	}
	opts := Options{ContentHeight: 1042.5, FirstPageHeaderHeight: 96.2, BottomMarginReserve: 20}

	first := Paginate(sections, opts)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Paginate(sections, opts))
	}
}

func TestPaginate_PropertiesAcrossShapes(t *testing.T) {
	heights := []float64{10, 95, 240, 333, 480, 720, 999, 1400}
	for _, header := range []float64{0, 120, 180} {
		for _, reserve := range []float64{0, 20, 40} {
			var sections []SectionMeasurement
			for i := 0; i < 24; i++ {
				sections = append(sections, SectionMeasurement{
					ID:              fmt.Sprintf("s%02d", i),
					Height:          heights[(i*5+3)%len(heights)],
					CollapsedMargin: float64((i * 7) % 25),
				})
			}
			opts := Options{ContentHeight: 1000, FirstPageHeaderHeight: header, BottomMarginReserve: reserve}
			pages := Paginate(sections, opts)
			assert.NoError(t, Verify(pages, sections, opts), "header=%v reserve=%v", header, reserve)
		}
	}
}

func TestPaginate_SmallerContentHeightNeverReorders(t *testing.T) {
	sections := uniform(8, 150)
	tall := Paginate(sections, Options{ContentHeight: 1042.52, FirstPageHeaderHeight: 100})
	short := Paginate(sections, Options{ContentHeight: 976, FirstPageHeaderHeight: 100})

	flatten := func(pages []Page) []string {
		var ids []string
		for _, p := range pages {
			ids = append(ids, p.SectionIDs...)
		}
		return ids
	}
	assert.Equal(t, flatten(tall), flatten(short))
	assert.GreaterOrEqual(t, len(short), len(tall))
}

func TestVerify_DetectsViolations(t *testing.T) {
	sections := uniform(3, 400)
	opts := Options{ContentHeight: 1000}

	err := Verify([]Page{
		{Index: 0, SectionIDs: []string{"s1", "s2", "s3"}},
	}, sections, opts)
	var verr *VerifyError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "page 0 uses")

	err = Verify([]Page{
		{Index: 0, SectionIDs: []string{"s2"}},
		{Index: 1, SectionIDs: []string{"s1", "s3"}},
	}, sections, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position 0")

	err = Verify([]Page{
		{Index: 0, SectionIDs: []string{"s1", "s2"}},
		{Index: 1, SectionIDs: []string{"s2"}},
	}, sections, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "appears on pages")

	assert.Error(t, Verify(nil, nil, opts))
}
