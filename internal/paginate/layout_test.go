package paginate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_WithoutSidebar(t *testing.T) {
	l := Compose([]SectionMeasurement{{ID: "a", Height: 10}}, Options{ContentHeight: 100}, nil)
	assert.Equal(t, 1, l.PageCount())
	assert.Nil(t, l.Sidebar)
	assert.Nil(t, l.SidebarFor(0))
}

func TestCompose_SidebarFollowsPageCount(t *testing.T) {
	sections := []SectionMeasurement{
		{ID: "a", Height: 600},
		{ID: "b", Height: 600},
	}
	opts := Options{ContentHeight: 1000, FirstPageHeaderHeight: 200, BottomMarginReserve: 40}
	items := []SidebarItem{
		{ID: "s/0", Group: GroupSkills, Height: 400},
		{ID: "s/1", Group: GroupSkills, Height: 400},
		{ID: "s/2", Group: GroupSkills, Height: 400},
	}

	l := Compose(sections, opts, &Sidebar{Items: items, HeadingHeight: 30})

	require.Equal(t, 2, l.PageCount())
	require.Len(t, l.Sidebar, 2)
	// page one has 1000 - 40 - 200 = 760 for the sidebar
	assert.Equal(t, []string{"s/0"}, l.Sidebar[0].ItemIDs)
	assert.Equal(t, []string{"s/1", "s/2"}, l.Sidebar[1].ItemIDs)
	assert.Equal(t, &l.Sidebar[1], l.SidebarFor(1))
	assert.Nil(t, l.SidebarFor(2))
}
