// Package style normalizes user-tunable visual settings into the numeric values layout consumes.
package style

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/resume-paginator/internal/geometry"
	"github.com/jonathan/resume-paginator/internal/types"
)

// Template identifiers.
const (
	TemplateClassic = "classic"
	TemplateModern  = "modern"
)

// Preset names.
const (
	PresetStandard = "standard"
	PresetCompact  = "compact"
)

// values outside these ranges are treated as malformed
const (
	minLineSpacing = 0.8
	maxLineSpacing = 3.0

	maxFontSize = 200.0
	maxSpacing  = 400.0
	maxMargin   = 1000.0
)

// Resolved is a StyleConfig with every field filled in. All sizes are CSS px.
type Resolved struct {
	NameFontSize      float64 `json:"name_font_size"`
	SectionHeaderSize float64 `json:"section_header_size"`
	SubHeaderSize     float64 `json:"sub_header_size"`
	BodySize          float64 `json:"body_size"`
	SectionSpacing    float64 `json:"section_spacing"`
	EntrySpacing      float64 `json:"entry_spacing"`
	LineSpacing       float64 `json:"line_spacing"`
	TopMargin         float64 `json:"top_margin"`
	BottomMargin      float64 `json:"bottom_margin"`
	SideMargin        float64 `json:"side_margin"`
	AlignRight        bool    `json:"align_right"`
	FontFamily        string  `json:"font_family"`
	Template          string  `json:"template"`
	PageSize          string  `json:"page_size"`
}

// BodyLineHeight is the height of one line of body text.
func (r Resolved) BodyLineHeight() float64 {
	return r.BodySize * r.LineSpacing
}

// SubHeaderLineHeight is the height of an entry title line.
func (r Resolved) SubHeaderLineHeight() float64 {
	return r.SubHeaderSize * r.LineSpacing
}

// Defaults returns the documented default for every field (the standard preset).
func Defaults() Resolved {
	return Resolved{
		NameFontSize:      28,
		SectionHeaderSize: 16,
		SubHeaderSize:     15,
		BodySize:          14,
		SectionSpacing:    16,
		EntrySpacing:      12,
		LineSpacing:       1.4,
		TopMargin:         40,
		BottomMargin:      40,
		SideMargin:        40,
		AlignRight:        true,
		FontFamily:        "Inter",
		Template:          TemplateClassic,
		PageSize:          "a4",
	}
}

// Resolve fills omitted fields with defaults and replaces malformed values.
// It never fails.
func Resolve(in types.StyleConfig) Resolved {
	d := Defaults()
	out := Resolved{
		NameFontSize:      positive(in.NameFontSize, d.NameFontSize, maxFontSize),
		SectionHeaderSize: positive(in.SectionHeaderSize, d.SectionHeaderSize, maxFontSize),
		SubHeaderSize:     positive(in.SubHeaderSize, d.SubHeaderSize, maxFontSize),
		BodySize:          positive(in.BodySize, d.BodySize, maxFontSize),
		SectionSpacing:    nonNegative(in.SectionSpacing, d.SectionSpacing, maxSpacing),
		EntrySpacing:      nonNegative(in.EntrySpacing, d.EntrySpacing, maxSpacing),
		LineSpacing:       d.LineSpacing,
		TopMargin:         nonNegative(in.TopMargin, d.TopMargin, maxMargin),
		BottomMargin:      nonNegative(in.BottomMargin, d.BottomMargin, maxMargin),
		SideMargin:        nonNegative(in.SideMargin, d.SideMargin, maxMargin),
		AlignRight:        d.AlignRight,
		FontFamily:        d.FontFamily,
		Template:          NormalizeTemplate(in.Template),
		PageSize:          strings.ToLower(strings.TrimSpace(in.PageSize)),
	}
	if v, ok := finite(in.LineSpacing); ok && v >= minLineSpacing && v <= maxLineSpacing {
		out.LineSpacing = v
	}
	if in.AlignRight != nil {
		out.AlignRight = *in.AlignRight
	}
	if f := strings.TrimSpace(in.FontFamily); f != "" {
		out.FontFamily = f
	}
	// geometry.Resolve has the final say on page sizes; only blanks are filled here
	if out.PageSize == "" {
		out.PageSize = d.PageSize
	}
	return out
}

// NormalizeTemplate maps a template identifier onto a known template, defaulting to classic.
func NormalizeTemplate(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case TemplateModern, "two-column", "sidebar":
		return TemplateModern
	default:
		return TemplateClassic
	}
}

// Preset is a named bundle of numeric fields applied in one action.
type Preset struct {
	Name              string  `json:"name"`
	NameFontSize      float64 `json:"name_font_size"`
	SectionHeaderSize float64 `json:"section_header_size"`
	SubHeaderSize     float64 `json:"sub_header_size"`
	BodySize          float64 `json:"body_size"`
	SectionSpacing    float64 `json:"section_spacing"`
	EntrySpacing      float64 `json:"entry_spacing"`
	LineSpacing       float64 `json:"line_spacing"`
	TopMargin         float64 `json:"top_margin"`
	BottomMargin      float64 `json:"bottom_margin"`
	SideMargin        float64 `json:"side_margin"`
}

var presets = map[string]Preset{
	PresetStandard: {
		Name: PresetStandard, NameFontSize: 28, SectionHeaderSize: 16, SubHeaderSize: 15, BodySize: 14,
		SectionSpacing: 16, EntrySpacing: 12, LineSpacing: 1.4, TopMargin: 40, BottomMargin: 40, SideMargin: 40,
	},
	PresetCompact: {
		Name: PresetCompact, NameFontSize: 24, SectionHeaderSize: 14, SubHeaderSize: 13, BodySize: 12,
		SectionSpacing: 10, EntrySpacing: 8, LineSpacing: 1.25, TopMargin: 28, BottomMargin: 28, SideMargin: 32,
	},
}

// Presets returns every preset sorted by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ApplyPreset overwrites the numeric fields of cfg with the named preset.
// Non-numeric fields (font, template, page size, alignment) are left alone.
func ApplyPreset(cfg types.StyleConfig, name string) (types.StyleConfig, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return cfg, &PresetError{Name: name}
	}
	cfg.NameFontSize = types.Float(p.NameFontSize)
	cfg.SectionHeaderSize = types.Float(p.SectionHeaderSize)
	cfg.SubHeaderSize = types.Float(p.SubHeaderSize)
	cfg.BodySize = types.Float(p.BodySize)
	cfg.SectionSpacing = types.Float(p.SectionSpacing)
	cfg.EntrySpacing = types.Float(p.EntrySpacing)
	cfg.LineSpacing = types.Float(p.LineSpacing)
	cfg.TopMargin = types.Float(p.TopMargin)
	cfg.BottomMargin = types.Float(p.BottomMargin)
	cfg.SideMargin = types.Float(p.SideMargin)
	return cfg, nil
}

// PresetError reports an unknown preset name.
type PresetError struct {
	Name string
}

func (e *PresetError) Error() string {
	return fmt.Sprintf("unknown style preset: %q", e.Name)
}

func finite(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

func positive(v *float64, def, limit float64) float64 {
	if f, ok := finite(v); ok && f > 0 && f <= limit {
		return f
	}
	return def
}

func nonNegative(v *float64, def, limit float64) float64 {
	if f, ok := finite(v); ok && f >= 0 && f <= limit {
		return f
	}
	return def
}

// Geometry resolves the page geometry for the style's page size and margins.
func (r Resolved) Geometry() geometry.Geometry {
	return geometry.Resolve(r.PageSize, geometry.Margins{Top: r.TopMargin, Bottom: r.BottomMargin, Side: r.SideMargin})
}
