package paginate

// Sidebar is the input of the modern template's secondary pass.
type Sidebar struct {
	Items         []SidebarItem
	HeadingHeight float64
}

// Compose paginates the main column and, when sidebar is non-nil, distributes the sidebar
// across the resulting page count. The sidebar shares the page's vertical budget: the bottom
// reserve on every page and the header reservation on page one.
func Compose(sections []SectionMeasurement, opts Options, sidebar *Sidebar) Layout {
	layout := Layout{Pages: Paginate(sections, opts)}
	if sidebar == nil {
		return layout
	}
	capacity := opts.ContentHeight - opts.BottomMarginReserve
	layout.Sidebar = DistributeSidebar(sidebar.Items, layout.PageCount(), SidebarOptions{
		Capacity:           capacity,
		FirstPageCapacity:  capacity - opts.FirstPageHeaderHeight,
		GroupHeadingHeight: sidebar.HeadingHeight,
	})
	return layout
}

// SidebarFor returns the sidebar page matching a main page index, or nil.
func (l Layout) SidebarFor(index int) *SidebarPage {
	if index < 0 || index >= len(l.Sidebar) {
		return nil
	}
	return &l.Sidebar[index]
}
