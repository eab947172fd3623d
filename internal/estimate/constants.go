// Package estimate predicts rendered section heights from content shape alone.
//
// The estimates are coarse by contract: fixed structural constants plus per-line and per-bullet
// costs, tuned against one font/size combination. They drift as fonts change, which is why the
// constants are configuration (LoadConstants) and Calibrate compares them against real measurements.
package estimate

import (
	"encoding/json"
	"fmt"
	"os"
)

// Constants are the structural measurements shared by the estimator and the HTML templates.
// The templates emit CSS from the same values so both paths agree on spacing.
type Constants struct {
	// HeaderLineFactor multiplies the section header font size into its line height.
	HeaderLineFactor float64 `json:"header_line_factor"`
	// HeaderRulePadding is the padding between a section title and its underline.
	HeaderRulePadding float64 `json:"header_rule_padding"`
	// HeaderRuleWidth is the underline thickness.
	HeaderRuleWidth float64 `json:"header_rule_width"`
	// HeaderGap is the space between the underline and the first entry.
	HeaderGap float64 `json:"header_gap"`
	// BulletGap is the margin under each bullet.
	BulletGap float64 `json:"bullet_gap"`
	// BulletIndent is the left indent of bullet lists.
	BulletIndent float64 `json:"bullet_indent"`
	// ListGap separates rows of compact kinds (courses, languages, sidebar items).
	ListGap float64 `json:"list_gap"`
	// AvgCharWidth is the average glyph advance as a fraction of the font size.
	AvgCharWidth float64 `json:"avg_char_width"`
	// NameLineFactor multiplies the name font size into its line height.
	NameLineFactor float64 `json:"name_line_factor"`
	// PhotoSize is the rendered square size of a profile photo.
	PhotoSize float64 `json:"photo_size"`
	// BottomMarginReserve is kept free above the bottom margin on every page.
	BottomMarginReserve float64 `json:"bottom_margin_reserve"`
	// SidebarRatio is the share of the content width given to the modern template's sidebar.
	SidebarRatio float64 `json:"sidebar_ratio"`
	// ColumnGap separates the modern template's columns.
	ColumnGap float64 `json:"column_gap"`
	// Scale multiplies every estimate; Calibrate proposes values for it.
	Scale float64 `json:"scale"`
}

// DefaultConstants returns the constants the templates were tuned against (Inter, 14px body).
func DefaultConstants() Constants {
	return Constants{
		HeaderLineFactor:    1.3,
		HeaderRulePadding:   4,
		HeaderRuleWidth:     1,
		HeaderGap:           8,
		BulletGap:           4,
		BulletIndent:        18,
		ListGap:             4,
		AvgCharWidth:        0.5,
		NameLineFactor:      1.2,
		PhotoSize:           96,
		BottomMarginReserve: 20,
		SidebarRatio:        0.32,
		ColumnGap:           24,
		Scale:               1,
	}
}

// WithDefaults fills every zero field from DefaultConstants.
func (c Constants) WithDefaults() Constants {
	d := DefaultConstants()
	fill := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&c.HeaderLineFactor, d.HeaderLineFactor)
	fill(&c.HeaderRulePadding, d.HeaderRulePadding)
	fill(&c.HeaderRuleWidth, d.HeaderRuleWidth)
	fill(&c.HeaderGap, d.HeaderGap)
	fill(&c.BulletGap, d.BulletGap)
	fill(&c.BulletIndent, d.BulletIndent)
	fill(&c.ListGap, d.ListGap)
	fill(&c.AvgCharWidth, d.AvgCharWidth)
	fill(&c.NameLineFactor, d.NameLineFactor)
	fill(&c.PhotoSize, d.PhotoSize)
	fill(&c.BottomMarginReserve, d.BottomMarginReserve)
	fill(&c.SidebarRatio, d.SidebarRatio)
	fill(&c.ColumnGap, d.ColumnGap)
	fill(&c.Scale, d.Scale)
	if c.SidebarRatio >= 1 {
		c.SidebarRatio = d.SidebarRatio
	}
	return c
}

// SidebarWidth is the modern template's sidebar width for a content width.
func (c Constants) SidebarWidth(contentWidth float64) float64 {
	return contentWidth * c.SidebarRatio
}

// MainWidth is the modern template's main column width for a content width.
func (c Constants) MainWidth(contentWidth float64) float64 {
	w := contentWidth - c.SidebarWidth(contentWidth) - c.ColumnGap
	if w < 0 {
		return 0
	}
	return w
}

// LoadConstants reads constants from a JSON file; omitted fields keep their defaults.
func LoadConstants(path string) (Constants, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Constants{}, fmt.Errorf("failed to read estimator constants %s: %w", path, err)
	}
	var c Constants
	if err := json.Unmarshal(data, &c); err != nil {
		return Constants{}, fmt.Errorf("failed to parse estimator constants JSON: %w", err)
	}
	return c.WithDefaults(), nil
}

// SaveConstants writes constants as indented JSON.
func SaveConstants(path string, c Constants) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal estimator constants: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write estimator constants %s: %w", path, err)
	}
	return nil
}
