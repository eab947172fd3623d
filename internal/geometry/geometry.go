// Package geometry resolves page sizes and margins into absolute page and content dimensions.
//
// Everything is expressed in CSS pixels at 96 DPI, the unit of the on-screen preview and of the
// headless browser that rasterizes exports. PDF points (72 DPI) convert with a fixed 4:3 ratio.
package geometry

import (
	"math"
	"strings"
)

// Page size identifiers.
const (
	Letter = "letter"
	A4     = "a4"
)

// DefaultPageSize is used for empty or unknown identifiers.
const DefaultPageSize = A4

// Unit conversion constants.
const (
	PxPerInch = 96.0
	PtPerInch = 72.0
	PxPerPt   = PxPerInch / PtPerInch
	PxPerMM   = PxPerInch / 25.4
)

// page dimensions in px
var sizes = map[string][2]float64{
	Letter: {8.5 * PxPerInch, 11 * PxPerInch},
	A4:     {210 * PxPerMM, 297 * PxPerMM},
}

// Margins are the page margins in px.
type Margins struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Side   float64 `json:"side"`
}

// Geometry is the resolved page and content area for one pagination run.
type Geometry struct {
	PageSize      string  `json:"page_size"`
	PageWidth     float64 `json:"page_width"`
	PageHeight    float64 `json:"page_height"`
	ContentWidth  float64 `json:"content_width"`
	ContentHeight float64 `json:"content_height"`
	Margins       Margins `json:"margins"`
}

// Resolve computes the geometry for a page size identifier and margins.
// Unknown identifiers fall back to A4. Content dimensions never go negative.
func Resolve(pageSize string, m Margins) Geometry {
	id := NormalizePageSize(pageSize)
	dims := sizes[id]
	return Geometry{
		PageSize:      id,
		PageWidth:     dims[0],
		PageHeight:    dims[1],
		ContentWidth:  math.Max(0, dims[0]-2*m.Side),
		ContentHeight: math.Max(0, dims[1]-m.Top-m.Bottom),
		Margins:       m,
	}
}

// NormalizePageSize maps an identifier onto a supported page size.
func NormalizePageSize(pageSize string) string {
	id := strings.ToLower(strings.TrimSpace(pageSize))
	if _, ok := sizes[id]; ok {
		return id
	}
	return DefaultPageSize
}

// Supported reports whether the identifier names a known page size.
func Supported(pageSize string) bool {
	_, ok := sizes[strings.ToLower(strings.TrimSpace(pageSize))]
	return ok
}

// WidthInches is the page width for rasterizers that take paper sizes in inches.
func (g Geometry) WidthInches() float64 { return g.PageWidth / PxPerInch }

// HeightInches is the page height in inches.
func (g Geometry) HeightInches() float64 { return g.PageHeight / PxPerInch }

// PxToPt converts CSS px to PDF points.
func PxToPt(px float64) float64 { return px / PxPerPt }

// PtToPx converts PDF points to CSS px.
func PtToPx(pt float64) float64 { return pt * PxPerPt }
