package preview

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-paginator/internal/estimate"
	"github.com/jonathan/resume-paginator/internal/measure"
	"github.com/jonathan/resume-paginator/internal/paginate"
	"github.com/jonathan/resume-paginator/internal/style"
	"github.com/jonathan/resume-paginator/internal/types"
)

// fakeMeasurer reports every declared section at a fixed height. The first call can be held
// open on gate to simulate a slow measurement.
type fakeMeasurer struct {
	mu      sync.Mutex
	calls   int
	height  float64
	err     error
	gate    chan struct{}
	started chan struct{}
}

func (f *fakeMeasurer) Measure(ctx context.Context, html string) (*measure.Result, error) {
	f.mu.Lock()
	f.calls++
	first := f.calls == 1
	f.mu.Unlock()

	if first && f.gate != nil {
		close(f.started)
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	ids, err := measure.ExpectedIDs(html)
	if err != nil {
		return nil, err
	}
	boxes := make([]measure.Box, len(ids))
	for i, id := range ids {
		boxes[i] = measure.Box{ID: id, Height: f.height, MarginBottom: 16}
	}
	reading := measure.Reading{Header: &measure.Box{Height: 100, MarginBottom: 16}, Sections: boxes}
	return reading.Result(), nil
}

func document(sections int) *types.ResumeDocument {
	doc := &types.ResumeDocument{Personal: types.PersonalInfo{Name: "Alan Turing"}}
	for i := 0; i < sections; i++ {
		doc.Sections = append(doc.Sections, types.Section{
			Kind:     types.KindProjects,
			Projects: []types.ProjectEntry{{Name: "Bombe"}},
		})
	}
	return doc
}

func TestRun_MeasuredLayout(t *testing.T) {
	e := NewEngine(&fakeMeasurer{height: 250}, estimate.Constants{}, false)
	st := style.Defaults()

	view, err := e.Run(context.Background(), document(5), st)
	require.NoError(t, err)

	// a4 leaves 1042.52 - 20 = 1022.52; page one holds 116 + 250 + 266 + 266 = 898
	require.Len(t, view.Pages, 2)
	assert.Equal(t, []string{"projects-0", "projects-1", "projects-2"}, view.Pages[0].SectionIDs)
	assert.Equal(t, []string{"projects-3", "projects-4"}, view.Pages[1].SectionIDs)
	assert.Contains(t, view.Pages[0].HTML, "resume-header")
	assert.NotContains(t, view.Pages[1].HTML, "resume-header")
	assert.Equal(t, 116.0, view.Options.FirstPageHeaderHeight)
	assert.Same(t, view, e.Latest())

	assert.NoError(t, paginate.Verify(view.Layout.Pages, view.Measurement.Sections, view.Options))
}

func TestRun_StaleResultIsDiscarded(t *testing.T) {
	m := &fakeMeasurer{height: 50, gate: make(chan struct{}), started: make(chan struct{})}
	e := NewEngine(m, estimate.Constants{}, false)
	st := style.Defaults()

	type outcome struct {
		view *View
		err  error
	}
	slow := make(chan outcome, 1)
	go func() {
		v, err := e.Run(context.Background(), document(1), st)
		slow <- outcome{v, err}
	}()
	<-m.started

	fresh, err := e.Run(context.Background(), document(3), st)
	require.NoError(t, err)
	close(m.gate)

	stale := <-slow
	assert.Nil(t, stale.view)
	assert.ErrorIs(t, stale.err, ErrSuperseded)
	assert.Same(t, fresh, e.Latest())
	assert.Equal(t, uint64(2), e.Generation())
	assert.Len(t, e.Latest().Layout.Pages[0].SectionIDs, 3)
}

func TestRun_MeasurementFailureKeepsPreviousView(t *testing.T) {
	m := &fakeMeasurer{height: 40}
	e := NewEngine(m, estimate.Constants{}, false)
	st := style.Defaults()

	first, err := e.Run(context.Background(), document(2), st)
	require.NoError(t, err)

	m.err = &measure.NotMountedError{Missing: []string{"projects-0"}}
	_, err = e.Run(context.Background(), document(4), st)
	var notMounted *measure.NotMountedError
	require.ErrorAs(t, err, &notMounted)
	assert.Equal(t, 2, m.calls, "no internal retry")
	assert.Same(t, first, e.Latest())
}

func TestRun_NoMeasurer(t *testing.T) {
	e := NewEngine(nil, estimate.Constants{}, false)
	_, err := e.Run(context.Background(), document(1), style.Defaults())
	assert.True(t, errors.Is(err, ErrNoMeasurer))
	assert.Nil(t, e.Latest())
}

func TestRun_ModernUsesMeasuredSidebar(t *testing.T) {
	e := NewEngine(&fakeMeasurer{height: 60}, estimate.Constants{}, false)
	st := style.Defaults()
	st.Template = style.TemplateModern
	doc := document(2)
	doc.Sections = append(doc.Sections, types.Section{Kind: types.KindInterests, Interests: []string{"Running"}})

	view, err := e.Run(context.Background(), doc, st)
	require.NoError(t, err)
	require.Len(t, view.Layout.Sidebar, view.Layout.PageCount())
	for _, p := range view.Layout.Pages {
		assert.NotContains(t, p.SectionIDs, "interests-2")
	}

	html, err := view.Document(st, estimate.Constants{})
	require.NoError(t, err)
	assert.Contains(t, html, `class="preview"`)
}
