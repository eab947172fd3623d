package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_Letter(t *testing.T) {
	g := Resolve("letter", Margins{Top: 40, Bottom: 40, Side: 40})
	assert.Equal(t, Letter, g.PageSize)
	assert.Equal(t, 816.0, g.PageWidth)
	assert.Equal(t, 1056.0, g.PageHeight)
	assert.Equal(t, 736.0, g.ContentWidth)
	assert.Equal(t, 976.0, g.ContentHeight)
	assert.InDelta(t, 8.5, g.WidthInches(), 1e-9)
	assert.InDelta(t, 11.0, g.HeightInches(), 1e-9)
}

func TestResolve_A4(t *testing.T) {
	g := Resolve("A4", Margins{Top: 40, Bottom: 40, Side: 40})
	assert.Equal(t, A4, g.PageSize)
	assert.InDelta(t, 793.70, g.PageWidth, 0.01)
	assert.InDelta(t, 1122.52, g.PageHeight, 0.01)
	assert.InDelta(t, 1042.52, g.ContentHeight, 0.01)
}

func TestResolve_UnknownFallsBackToA4(t *testing.T) {
	for _, id := range []string{"", "legal", "tabloid", "  "} {
		g := Resolve(id, Margins{})
		assert.Equal(t, A4, g.PageSize, "id %q", id)
	}
	assert.False(t, Supported("legal"))
	assert.True(t, Supported(" Letter "))
}

func TestResolve_HugeMarginsClampToZero(t *testing.T) {
	g := Resolve(Letter, Margins{Top: 600, Bottom: 600, Side: 500})
	assert.Equal(t, 0.0, g.ContentHeight)
	assert.Equal(t, 0.0, g.ContentWidth)
}

func TestResolve_PageSizeChangesContentHeight(t *testing.T) {
	m := Margins{Top: 40, Bottom: 40, Side: 40}
	assert.NotEqual(t, Resolve(Letter, m).ContentHeight, Resolve(A4, m).ContentHeight)
}

func TestUnitConversions(t *testing.T) {
	assert.InDelta(t, 72.0, PxToPt(96), 1e-9)
	assert.InDelta(t, 96.0, PtToPx(72), 1e-9)
	assert.InDelta(t, 612.0, PxToPt(Resolve(Letter, Margins{}).PageWidth), 1e-9)
}
