package grid

import (
	"github.com/vango-dev/dgrid/pkg/widget"
)

// Registry tags.
const (
	TagBody       = "dgrid-body"
	TagRow        = "dgrid-row"
	TagRowView    = "dgrid-row-view"
	TagCell       = "dgrid-cell"
	TagHeader     = "dgrid-header"
	TagHeaderCell = "dgrid-header-cell"
	TagFooter     = "dgrid-footer"
)

func createRegistry(customCell CellFactory) *widget.Registry {
	cell := CellFactory(Cell)
	if customCell != nil {
		cell = customCell
	}

	r := widget.NewRegistry()
	r.MustDefine(TagBody, widget.Typed(Body))
	r.MustDefine(TagRow, widget.Typed(Row))
	r.MustDefine(TagRowView, widget.Typed(RowView))
	r.MustDefine(TagCell, widget.Typed[CellProperties](cell))
	r.MustDefine(TagHeader, widget.Typed(Header))
	r.MustDefine(TagHeaderCell, widget.Typed(HeaderCell))
	r.MustDefine(TagFooter, widget.Typed(Footer))
	return r
}
