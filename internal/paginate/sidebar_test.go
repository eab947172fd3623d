package paginate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributeSidebar_FillsForward(t *testing.T) {
	items := []SidebarItem{
		{ID: "lang", Group: GroupSkills, Height: 100},
		{ID: "cloud", Group: GroupSkills, Height: 100},
		{ID: "data", Group: GroupSkills, Height: 100},
		{ID: "chess", Group: GroupInterests, Height: 30},
		{ID: "hiking", Group: GroupInterests, Height: 30},
	}
	opts := SidebarOptions{Capacity: 300, FirstPageCapacity: 230, GroupHeadingHeight: 20}

	pages := DistributeSidebar(items, 2, opts)

	require.Len(t, pages, 2)
	assert.Equal(t, []string{"lang", "cloud"}, pages[0].ItemIDs)
	assert.Equal(t, []string{GroupSkills}, pages[0].Groups)
	assert.Equal(t, 220.0, pages[0].Height)

	assert.Equal(t, []string{"data", "chess", "hiking"}, pages[1].ItemIDs)
	assert.Equal(t, []string{GroupSkills, GroupInterests}, pages[1].Groups)
	assert.Equal(t, 120.0+20+60, pages[1].Height)
}

func TestDistributeSidebar_BoundedByPageCount(t *testing.T) {
	items := []SidebarItem{
		{ID: "a", Group: GroupSkills, Height: 400},
		{ID: "b", Group: GroupSkills, Height: 400},
		{ID: "c", Group: GroupSkills, Height: 400},
	}
	pages := DistributeSidebar(items, 1, SidebarOptions{Capacity: 500, FirstPageCapacity: 500})

	require.Len(t, pages, 1, "the sidebar never adds pages")
	assert.Equal(t, []string{"a", "b", "c"}, pages[0].ItemIDs)
}

func TestDistributeSidebar_EmptyInputs(t *testing.T) {
	pages := DistributeSidebar(nil, 3, SidebarOptions{Capacity: 100, FirstPageCapacity: 100})
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Equal(t, i, p.Index)
		assert.Empty(t, p.ItemIDs)
	}

	pages = DistributeSidebar(nil, 0, SidebarOptions{})
	assert.Len(t, pages, 1)
}

func TestDistributeSidebar_OversizedItemOnEmptyPage(t *testing.T) {
	items := []SidebarItem{{ID: "big", Group: GroupSkills, Height: 900}, {ID: "x", Group: GroupSkills, Height: 10}}
	pages := DistributeSidebar(items, 2, SidebarOptions{Capacity: 500, FirstPageCapacity: 500})
	assert.Equal(t, []string{"big"}, pages[0].ItemIDs)
	assert.Equal(t, []string{"x"}, pages[1].ItemIDs)
}

func TestLayout_PageCount(t *testing.T) {
	l := Layout{Pages: Paginate(nil, Options{ContentHeight: 100})}
	assert.Equal(t, 1, l.PageCount())
}
