package paginate

// Sidebar groups, filled in this order.
const (
	GroupSkills    = "skills"
	GroupInterests = "interests"
)

// SidebarItem is one independently placeable block of sidebar content,
// such as a skill category or a single interest.
type SidebarItem struct {
	ID     string  `json:"id"`
	Group  string  `json:"group"`
	Height float64 `json:"height"`
}

// SidebarPage is the sidebar content assigned to one main-column page.
type SidebarPage struct {
	Index   int      `json:"index"`
	ItemIDs []string `json:"item_ids"`
	// Groups lists, in order, the groups that open on this page and therefore print a heading.
	Groups []string `json:"groups"`
	Height float64  `json:"height"`
}

// SidebarOptions sizes the sidebar column.
type SidebarOptions struct {
	// Capacity is the usable sidebar height on pages after the first.
	Capacity float64
	// FirstPageCapacity is the usable height on page one, below the header.
	FirstPageCapacity float64
	// GroupHeadingHeight is charged once per group per page the group appears on.
	GroupHeadingHeight float64
}

// DistributeSidebar spreads sidebar items across the pages chosen by the main paginator.
//
// It is a separate pass: the only input it takes from the main layout is pageCount.
// Items are placed in order, moving forward a page when the current one is full; once
// the last page is reached everything left is placed there. The result has exactly
// max(pageCount, 1) entries.
func DistributeSidebar(items []SidebarItem, pageCount int, opts SidebarOptions) []SidebarPage {
	if pageCount < 1 {
		pageCount = 1
	}
	pages := make([]SidebarPage, pageCount)
	for i := range pages {
		pages[i] = SidebarPage{Index: i, ItemIDs: []string{}, Groups: []string{}}
	}

	capacity := func(p int) float64 {
		if p == 0 {
			return opts.FirstPageCapacity
		}
		return opts.Capacity
	}
	cost := func(p int, item SidebarItem) float64 {
		c := item.Height
		if !hasGroup(pages[p], item.Group) {
			c += opts.GroupHeadingHeight
		}
		return c
	}

	p := 0
	for _, item := range items {
		for p < pageCount-1 && len(pages[p].ItemIDs) > 0 && pages[p].Height+cost(p, item) > capacity(p) {
			p++
		}
		c := cost(p, item)
		if !hasGroup(pages[p], item.Group) {
			pages[p].Groups = append(pages[p].Groups, item.Group)
		}
		pages[p].ItemIDs = append(pages[p].ItemIDs, item.ID)
		pages[p].Height += c
	}
	return pages
}

func hasGroup(p SidebarPage, group string) bool {
	for _, g := range p.Groups {
		if g == group {
			return true
		}
	}
	return false
}
