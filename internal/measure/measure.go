// Package measure reads real rendered heights out of a laid-out document.
//
// It is the interactive path's counterpart to package estimate: instead of predicting heights
// from content shape it renders the full document once, waits for the layout to settle and
// reports each section's box.
package measure

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-paginator/internal/paginate"
)

// Box is the raw reading of one measurable container.
type Box struct {
	ID           string  `json:"id"`
	Group        string  `json:"group,omitempty"`
	Height       float64 `json:"height"`
	MarginTop    float64 `json:"margin_top"`
	MarginBottom float64 `json:"margin_bottom"`
}

// Result is everything one measurement pass reports.
type Result struct {
	// HeaderHeight is the page-one header reservation, including its bottom margin.
	HeaderHeight float64                       `json:"header_height"`
	Sections     []paginate.SectionMeasurement `json:"sections"`
	Sidebar      []paginate.SidebarItem        `json:"sidebar,omitempty"`
	// SidebarHeadingHeight is the height of one sidebar group heading, margin included.
	SidebarHeadingHeight float64 `json:"sidebar_heading_height"`
}

// Measurer measures a fully rendered, unpaginated document.
type Measurer interface {
	Measure(ctx context.Context, html string) (*Result, error)
}

// NotMountedError reports containers the document declares but the measurement did not find,
// typically because the layout had not settled.
type NotMountedError struct {
	Missing []string
}

func (e *NotMountedError) Error() string {
	if len(e.Missing) == 0 {
		return "measurement containers not mounted"
	}
	return fmt.Sprintf("measurement containers not mounted: %s", strings.Join(e.Missing, ", "))
}

// Collapse turns raw boxes into section measurements. The gap before each section after the
// first is max(previous bottom margin, own top margin); margins collapse, they do not add.
func Collapse(boxes []Box) []paginate.SectionMeasurement {
	out := make([]paginate.SectionMeasurement, len(boxes))
	for i, b := range boxes {
		out[i] = paginate.SectionMeasurement{ID: b.ID, Height: b.Height}
		if i > 0 {
			out[i].CollapsedMargin = math.Max(boxes[i-1].MarginBottom, b.MarginTop)
		}
	}
	return out
}

// ExpectedIDs lists the section containers in a rendered document, in document order.
func ExpectedIDs(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered document: %w", err)
	}
	ids := []string{}
	doc.Find("[data-section-id]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("data-section-id"); ok {
			ids = append(ids, id)
		}
	})
	return ids, nil
}

// Check compares the boxes read back against the containers the document declares.
// Every expected section must be present; order follows the boxes, which follow the DOM.
func Check(expected []string, boxes []Box) error {
	found := make(map[string]bool, len(boxes))
	for _, b := range boxes {
		found[b.ID] = true
	}
	var missing []string
	for _, id := range expected {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &NotMountedError{Missing: missing}
	}
	return nil
}

// Reading is the raw payload of one measurement script run.
type Reading struct {
	Header         *Box  `json:"header"`
	Sections       []Box `json:"sections"`
	Sidebar        []Box `json:"sidebar"`
	SidebarHeading *Box  `json:"sidebar_heading"`
}

// Result converts a raw reading into layout inputs.
func (r Reading) Result() *Result {
	res := &Result{Sections: Collapse(r.Sections)}
	if r.Header != nil {
		res.HeaderHeight = r.Header.Height + r.Header.MarginBottom
	}
	if r.SidebarHeading != nil {
		res.SidebarHeadingHeight = r.SidebarHeading.Height + r.SidebarHeading.MarginBottom
	}
	for _, b := range r.Sidebar {
		res.Sidebar = append(res.Sidebar, paginate.SidebarItem{ID: b.ID, Group: b.Group, Height: b.Height + b.MarginBottom})
	}
	return res
}
