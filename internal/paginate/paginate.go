// Package paginate partitions an ordered list of measured sections into fixed-size pages.
//
// The same Paginate function serves both the measured (preview) and estimated (export) paths;
// only the way SectionMeasurement values are obtained differs between them.
package paginate

// SectionMeasurement is the height of one section for a single pagination run.
type SectionMeasurement struct {
	ID     string  `json:"id"`
	Height float64 `json:"height"`
	// CollapsedMargin is the gap between this section and the one before it in document order.
	CollapsedMargin float64 `json:"collapsed_margin"`
}

// Options carries the page capacity and the reservations for one run.
type Options struct {
	ContentHeight         float64 `json:"content_height"`
	FirstPageHeaderHeight float64 `json:"first_page_header_height"`
	BottomMarginReserve   float64 `json:"bottom_margin_reserve"`
}

// Page is an ordered list of section IDs plus the running height they consume.
// Height on page one includes the header reservation.
type Page struct {
	Index      int      `json:"index"`
	SectionIDs []string `json:"section_ids"`
	Height     float64  `json:"height"`
}

// Layout is the full result of a pagination run.
type Layout struct {
	Pages   []Page        `json:"pages"`
	Sidebar []SidebarPage `json:"sidebar,omitempty"`
}

// PageCount returns the number of pages; the coupling point for the sidebar pass.
func (l Layout) PageCount() int {
	return len(l.Pages)
}

// Paginate greedily fills pages in document order without ever splitting a section.
//
// A section that does not fit in the remaining space starts a new page, unless the current
// page is still empty, in which case it is placed anyway (single-section overflow). The
// result always has at least one page.
func Paginate(sections []SectionMeasurement, opts Options) []Page {
	pages := make([]Page, 0, 1)
	current := Page{Index: 0, SectionIDs: []string{}, Height: opts.FirstPageHeaderHeight}

	for _, sec := range sections {
		gap := 0.0
		if len(current.SectionIDs) > 0 {
			gap = sec.CollapsedMargin
		}
		available := opts.ContentHeight - opts.BottomMarginReserve - current.Height
		if sec.Height+gap > available && len(current.SectionIDs) > 0 {
			pages = append(pages, current)
			current = Page{Index: len(pages), SectionIDs: []string{}}
			gap = 0
		}
		current.SectionIDs = append(current.SectionIDs, sec.ID)
		current.Height += sec.Height + gap
	}

	if len(current.SectionIDs) > 0 || len(pages) == 0 {
		pages = append(pages, current)
	}
	return pages
}
