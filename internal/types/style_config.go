package types

// StyleConfig is the user-tunable visual configuration as it arrives on the wire.
// Numeric fields are pointers so an omitted value can be told apart from zero;
// style.Resolve fills every omitted or malformed field with its documented default.
type StyleConfig struct {
	NameFontSize      *float64 `json:"name_font_size,omitempty"`
	SectionHeaderSize *float64 `json:"section_header_size,omitempty"`
	SubHeaderSize     *float64 `json:"sub_header_size,omitempty"`
	BodySize          *float64 `json:"body_size,omitempty"`
	SectionSpacing    *float64 `json:"section_spacing,omitempty"`
	EntrySpacing      *float64 `json:"entry_spacing,omitempty"`
	LineSpacing       *float64 `json:"line_spacing,omitempty"`
	TopMargin         *float64 `json:"top_margin,omitempty"`
	BottomMargin      *float64 `json:"bottom_margin,omitempty"`
	SideMargin        *float64 `json:"side_margin,omitempty"`
	AlignRight        *bool    `json:"align_right,omitempty"`
	FontFamily        string   `json:"font_family,omitempty"`
	Template          string   `json:"template,omitempty"`
	PageSize          string   `json:"page_size,omitempty"`
}

// Float returns a pointer to v, for building StyleConfig literals.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v, for building StyleConfig literals.
func Bool(v bool) *bool { return &v }
