package grid

import (
	"github.com/vango-dev/dgrid/pkg/vdom"
	"github.com/vango-dev/dgrid/pkg/widget"
)

// HeaderProperties are passed to the "dgrid-header" factory.
type HeaderProperties struct {
	Registry      *widget.Registry
	Columns       []Column
	Sort          *SortDetails
	OnSortRequest func(columnID string, descending bool)
	Theme         Theme
}

// HeaderCellProperties are passed to the "dgrid-header-cell" factory.
type HeaderCellProperties struct {
	Column        Column
	Index         int
	Sort          *SortDetails
	OnSortRequest func(columnID string, descending bool)
	Theme         Theme
}

// Header renders the column header row.
func Header(p HeaderProperties) *vdom.VNode {
	cells := vdom.Range(p.Columns, func(c Column, i int) *vdom.VNode {
		return p.Registry.Build(TagHeaderCell, HeaderCellProperties{
			Column:        c,
			Index:         i,
			Sort:          p.Sort,
			OnSortRequest: p.OnSortRequest,
			Theme:         p.Theme,
		})
	})
	return vdom.Thead(
		vdom.Class(p.Theme.Header),
		vdom.Tr(vdom.Class(p.Theme.HeaderRow), vdom.Role("row"), cells),
	)
}

// HeaderCell renders one column header. Clicking a sortable header sorts
// ascending, or descending when it is already sorted ascending.
func HeaderCell(p HeaderCellProperties) *vdom.VNode {
	c := p.Column
	label := c.Label
	if label == "" {
		label = c.ID
	}

	if !c.Sortable {
		return vdom.Th(
			vdom.Class(p.Theme.HeaderCell),
			vdom.Role("columnheader"),
			vdom.Scope("col"),
			vdom.AriaColIndex(p.Index+1),
			vdom.Key(c.ID),
			label,
		)
	}

	sorted := p.Sort != nil && p.Sort.ColumnID == c.ID
	ariaSort, arrow, dirClass := "none", "", ""
	if sorted {
		if p.Sort.Descending {
			ariaSort, arrow, dirClass = "descending", "▼", p.Theme.SortDescending
		} else {
			ariaSort, arrow, dirClass = "ascending", "▲", p.Theme.SortAscending
		}
	}
	nextDescending := sorted && !p.Sort.Descending

	var onClick any
	if p.OnSortRequest != nil {
		id := c.ID
		onClick = vdom.OnClick(func() { p.OnSortRequest(id, nextDescending) })
	}

	return vdom.Th(
		vdom.Class(p.Theme.HeaderCell, p.Theme.Sortable, dirClass),
		vdom.Role("columnheader"),
		vdom.Scope("col"),
		vdom.AriaColIndex(p.Index+1),
		vdom.AriaSort(ariaSort),
		vdom.Key(c.ID),
		onClick,
		label,
		vdom.If(arrow != "", vdom.Span(vdom.Class(p.Theme.SortArrow), arrow)),
	)
}
