package observability

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-paginator/internal/estimate"
	"github.com/jonathan/resume-paginator/internal/geometry"
	"github.com/jonathan/resume-paginator/internal/paginate"
)

func TestPrintGeometry(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintGeometry(geometry.Resolve(geometry.Letter, geometry.Margins{Top: 48, Bottom: 48, Side: 48}))
	output := buf.String()

	assert.Contains(t, output, "PAGE GEOMETRY")
	assert.Contains(t, output, "letter (8.50 x 11.00 in)")
	assert.Contains(t, output, "816.0 x 1056.0 px")
	assert.Contains(t, output, "720.0 x 960.0 px")
}

func TestPrintLayout(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	layout := paginate.Layout{Pages: []paginate.Page{
		{Index: 0, SectionIDs: []string{"summary-0", "work-1"}, Height: 600},
		{Index: 1, SectionIDs: []string{"education-2"}, Height: 1200},
	}}
	p.PrintLayout(layout, paginate.Options{ContentHeight: 1000, FirstPageHeaderHeight: 120, BottomMarginReserve: 20})
	output := buf.String()

	assert.Contains(t, output, "PAGINATED LAYOUT")
	assert.Contains(t, output, "Pages: 2")
	assert.Contains(t, output, "Page 1  720.0 / 1000.0 px")
	assert.Contains(t, output, "summary-0, work-1")
	assert.Contains(t, output, "overflow")
}

func TestPrintLayout_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLayout(paginate.Layout{}, paginate.Options{})

	assert.Empty(t, buf.String())
}

func TestPrintSidebar(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSidebar([]paginate.SidebarPage{
		{Index: 0, ItemIDs: []string{"skills/0", "skills/1"}, Groups: []string{paginate.GroupSkills}, Height: 180},
		{Index: 1},
	})
	output := buf.String()

	assert.Contains(t, output, "SIDEBAR")
	assert.Contains(t, output, "skills/0, skills/1")
	assert.Contains(t, output, "Page 2")
}

func TestPrintCalibration(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCalibration(estimate.Calibration{
		Scale:    1.1,
		Samples:  1,
		MaxDrift: 0.1,
		Drift:    []estimate.SectionDrift{{ID: "work-1", Estimated: 200, Measured: 220, Ratio: 1.1}},
	})
	output := buf.String()

	assert.Contains(t, output, "ESTIMATOR CALIBRATION")
	assert.Contains(t, output, "1.1000")
	assert.Contains(t, output, "10.0%")
	assert.Contains(t, output, "work-1")
}

func TestPrintVerification(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintVerification(nil)
	assert.Contains(t, buf.String(), "LAYOUT VERIFIED")

	buf.Reset()
	p.PrintVerification(&paginate.VerifyError{Violations: []string{"layout has no pages"}})
	assert.Contains(t, buf.String(), "LAYOUT VIOLATIONS")
	assert.Contains(t, buf.String(), "layout has no pages")

	buf.Reset()
	p.PrintVerification(errors.New("other"))
	assert.Contains(t, buf.String(), "other")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	long := "this line is much longer than the box and must be truncated before printing"
	p.printBox("TITLE", long)

	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), "before printing")
}
