package grid

import (
	"github.com/vango-dev/dgrid/pkg/store"
	"github.com/vango-dev/dgrid/pkg/vdom"
	"github.com/vango-dev/dgrid/pkg/widget"
)

// BodyProperties are passed to the "dgrid-body" factory.
type BodyProperties struct {
	Registry *widget.Registry
	Columns  []Column
	Items    []store.Item
	// Err is the fetch error, shown in place of rows.
	Err     error
	IDField string
	// Offset is the index of the first item in the full result.
	Offset  int
	Updater Updater
	Theme   Theme
}

// RowProperties are passed to the "dgrid-row" and "dgrid-row-view"
// factories.
type RowProperties struct {
	Registry *widget.Registry
	ID       string
	Index    int
	Item     store.Item
	Columns  []Column
	Updater  Updater
	Theme    Theme
}

// Body renders one row per item, or a single placeholder row when there are
// no items or the fetch failed.
func Body(p BodyProperties) *vdom.VNode {
	if p.Err != nil {
		return vdom.Tbody(vdom.Class(p.Theme.Body), placeholder(p, p.Theme.Error, "Unable to load data: "+p.Err.Error()))
	}
	if len(p.Items) == 0 {
		return vdom.Tbody(vdom.Class(p.Theme.Body), placeholder(p, p.Theme.Empty, "No results found"))
	}

	idField := p.IDField
	if idField == "" {
		idField = store.DefaultIDField
	}
	rows := vdom.Range(p.Items, func(it store.Item, i int) *vdom.VNode {
		return p.Registry.Build(TagRow, RowProperties{
			Registry: p.Registry,
			ID:       it.ID(idField),
			Index:    p.Offset + i,
			Item:     it,
			Columns:  p.Columns,
			Updater:  p.Updater,
			Theme:    p.Theme,
		})
	})
	return vdom.Tbody(vdom.Class(p.Theme.Body), rows)
}

func placeholder(p BodyProperties, class, text string) *vdom.VNode {
	span := len(p.Columns)
	if span == 0 {
		span = 1
	}
	return vdom.Tr(vdom.Class(p.Theme.Row, class), vdom.Role("row"),
		vdom.Td(vdom.Colspan(span), text))
}

// Row renders the row element, keyed by row id, around its row view.
func Row(p RowProperties) *vdom.VNode {
	key := p.ID
	if key == "" {
		key = "row-" + itoa(p.Index)
	}
	return vdom.Tr(
		vdom.Class(p.Theme.Row),
		vdom.Role("row"),
		vdom.Key(key),
		vdom.Data("row-id", p.ID),
		vdom.AriaRowIndex(p.Index+2), // header row is 1
		p.Registry.Build(TagRowView, p),
	)
}

// RowView renders the row's cells through the "dgrid-cell" factory.
func RowView(p RowProperties) *vdom.VNode {
	cells := vdom.Range(p.Columns, func(c Column, i int) *vdom.VNode {
		value := p.Item[c.FieldName()]
		cp := CellProperties{
			Column:   c,
			Index:    i,
			RowID:    p.ID,
			Item:     p.Item,
			Value:    value,
			RawValue: formatValue(value),
			Theme:    p.Theme,
		}
		if c.Editable && p.Updater != nil {
			rowID, columnID, update := p.ID, c.ID, p.Updater
			cp.Update = func(v string) { update(rowID, columnID, v) }
		}
		return p.Registry.Build(TagCell, cp)
	})
	return vdom.Fragment(cells)
}
