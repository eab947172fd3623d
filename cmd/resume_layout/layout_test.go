package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-paginator/internal/estimate"
	"github.com/jonathan/resume-paginator/internal/export"
	"github.com/jonathan/resume-paginator/internal/geometry"
	"github.com/jonathan/resume-paginator/internal/measure"
	"github.com/jonathan/resume-paginator/internal/style"
	"github.com/jonathan/resume-paginator/internal/types"
)

func testDocument(t *testing.T) *types.ResumeDocument {
	t.Helper()
	doc, err := readDocument(writeTestFile(t, t.TempDir(), "doc.json", testDocumentJSON))
	require.NoError(t, err)
	return doc
}

func TestEstimatedLayout(t *testing.T) {
	doc := testDocument(t)

	report, err := estimatedLayout(doc, style.Resolve(types.StyleConfig{PageSize: "letter"}), estimate.DefaultConstants())
	require.NoError(t, err)

	assert.Equal(t, "classic", report.Template)
	assert.Equal(t, "letter", report.Geometry.PageSize)
	assert.Equal(t, 1, report.PageCount)
	assert.Equal(t, []string{"summary-0", "work-1", "skills-2"}, report.Layout.Pages[0].SectionIDs)
	assert.Positive(t, report.Options.FirstPageHeaderHeight)
}

func TestEstimatedLayout_Modern(t *testing.T) {
	doc := testDocument(t)

	report, err := estimatedLayout(doc, style.Resolve(types.StyleConfig{Template: "modern"}), estimate.DefaultConstants())
	require.NoError(t, err)

	assert.Equal(t, "modern", report.Template)
	// skills move to the sidebar
	assert.Equal(t, []string{"summary-0", "work-1"}, report.Layout.Pages[0].SectionIDs)
	assert.Len(t, report.Layout.Sidebar, report.PageCount)
}

// fakeRasterizer returns a fixed PDF and counts calls.
type fakeRasterizer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRasterizer) Rasterize(_ context.Context, html string, _ geometry.Geometry) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if !strings.Contains(html, "Ada Lovelace") {
		return nil, errors.New("payload is missing the header")
	}
	return []byte("%PDF-1.7 fake"), nil
}

func newTestJob(t *testing.T, r export.Rasterizer, format string) *exportJob {
	t.Helper()
	return &exportJob{
		service: export.NewService(estimate.New(estimate.DefaultConstants()), r, false),
		style:   style.Resolve(types.StyleConfig{}),
		format:  format,
		outDir:  filepath.Join(t.TempDir(), "out"),
		jobs:    2,
	}
}

func TestExportJob_OutputPath(t *testing.T) {
	job := &exportJob{outDir: "dist", format: formatPDF}
	assert.Equal(t, filepath.Join("dist", "ada.pdf"), job.outputPath("/tmp/docs/ada.json"))
	assert.Equal(t, filepath.Join("dist", "cv.pdf"), job.outputPath("cv"))
}

func TestExportJob_RunPDF(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		writeTestFile(t, dir, "first.json", testDocumentJSON),
		writeTestFile(t, dir, "second.json", testDocumentJSON),
		writeTestFile(t, dir, "third.json", testDocumentJSON),
	}
	r := &fakeRasterizer{}
	job := newTestJob(t, r, formatPDF)

	outputs, err := job.run(context.Background(), inputs)
	require.NoError(t, err)

	require.Len(t, outputs, 3)
	assert.Equal(t, filepath.Join(job.outDir, "second.pdf"), outputs[1])
	for _, out := range outputs {
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.7 fake", string(data))
	}
	assert.Equal(t, 3, r.calls)
}

func TestExportJob_RunHTML(t *testing.T) {
	input := writeTestFile(t, t.TempDir(), "ada.json", testDocumentJSON)
	r := &fakeRasterizer{}
	job := newTestJob(t, r, formatHTML)

	outputs, err := job.run(context.Background(), []string{input})
	require.NoError(t, err)

	data, err := os.ReadFile(outputs[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Ada Lovelace")
	assert.Zero(t, r.calls, "html exports never rasterize")
}

func TestExportJob_RunErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeTestFile(t, dir, "good.json", testDocumentJSON)

	_, err := newTestJob(t, &fakeRasterizer{}, "docx").run(context.Background(), []string{good})
	assert.ErrorContains(t, err, "unsupported format")

	_, err = newTestJob(t, &fakeRasterizer{}, formatPDF).run(context.Background(), []string{good, filepath.Join(dir, "missing.json")})
	assert.ErrorContains(t, err, "missing.json")

	_, err = newTestJob(t, &fakeRasterizer{err: errors.New("browser crashed")}, formatPDF).run(context.Background(), []string{good})
	assert.ErrorContains(t, err, "browser crashed")
}

func TestExportJob_RunRejectsCollidingOutputs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0755))
	first := writeTestFile(t, filepath.Join(dir, "a"), "cv.json", testDocumentJSON)
	second := writeTestFile(t, filepath.Join(dir, "b"), "cv.json", testDocumentJSON)

	r := &fakeRasterizer{}
	job := newTestJob(t, r, formatPDF)
	_, err := job.run(context.Background(), []string{first, second})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "would both write")
	assert.Zero(t, r.calls, "nothing is exported when outputs collide")
	assert.NoFileExists(t, job.outputPath(first))
}

// fixedMeasurer reports every declared section at the same height.
type fixedMeasurer struct {
	height float64
}

func (m *fixedMeasurer) Measure(_ context.Context, html string) (*measure.Result, error) {
	ids, err := measure.ExpectedIDs(html)
	if err != nil {
		return nil, err
	}
	boxes := make([]measure.Box, len(ids))
	for i, id := range ids {
		boxes[i] = measure.Box{ID: id, Height: m.height}
	}
	reading := measure.Reading{Header: &measure.Box{Height: 90, MarginBottom: 16}, Sections: boxes}
	return reading.Result(), nil
}

func TestCalibrate(t *testing.T) {
	doc := testDocument(t)

	cal, err := calibrate(context.Background(), &fixedMeasurer{height: 120}, doc, style.Resolve(types.StyleConfig{}), estimate.DefaultConstants())
	require.NoError(t, err)

	assert.Equal(t, 3, cal.Samples)
	require.Len(t, cal.Drift, 3)
	assert.Equal(t, "summary-0", cal.Drift[0].ID)
	assert.Equal(t, 120.0, cal.Drift[0].Measured)
	assert.Positive(t, cal.Scale)

	path := filepath.Join(t.TempDir(), "constants.json")
	require.NoError(t, estimate.SaveConstants(path, cal.Apply(estimate.DefaultConstants())))
	saved, err := estimate.LoadConstants(path)
	require.NoError(t, err)
	assert.InDelta(t, cal.Scale, saved.Scale, 1e-9)
}

func TestCalibrate_MeasureError(t *testing.T) {
	doc := testDocument(t)

	_, err := calibrate(context.Background(), failingMeasurer{}, doc, style.Resolve(types.StyleConfig{}), estimate.DefaultConstants())
	assert.ErrorContains(t, err, "measurement failed")
}

type failingMeasurer struct{}

func (failingMeasurer) Measure(context.Context, string) (*measure.Result, error) {
	return nil, errors.New("chrome not found")
}

func TestPrintPresets(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, printPresets(&sb))

	out := sb.String()
	assert.Contains(t, out, "PRESET")
	assert.Contains(t, out, "compact")
	assert.Contains(t, out, "standard")
}
