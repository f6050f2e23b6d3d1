package grid

import (
	"github.com/vango-dev/dgrid/pkg/store"
	"github.com/vango-dev/dgrid/pkg/vdom"
)

// DefaultItemsPerPage is used when pagination is requested without a size.
const DefaultItemsPerPage = 10

// Column describes one grid column.
type Column struct {
	ID    string
	Label string
	// Field is the item field shown in the column. Defaults to ID.
	Field    string
	Sortable bool
	Editable bool
	// Color is applied as the cell text color.
	Color string
	// Renderer formats the cell value for display.
	Renderer func(value any) string
}

// FieldName returns the item field the column reads.
func (c Column) FieldName() string {
	if c.Field != "" {
		return c.Field
	}
	return c.ID
}

// Format returns the display text for v: the renderer's output, or the
// plain formatted value.
func (c Column) Format(v any) string {
	if c.Renderer != nil {
		return c.Renderer(v)
	}
	return formatValue(v)
}

// SortDetails is the active single-column sort.
type SortDetails struct {
	ColumnID   string
	Descending bool
}

// PaginationDetails is the active page window. DataRangeStart is
// (PageNumber-1)*DataRangeCount.
type PaginationDetails struct {
	DataRangeStart int
	DataRangeCount int
	PageNumber     int
}

// PaginationConfig enables pagination.
type PaginationConfig struct {
	ItemsPerPage int
}

func (p *PaginationConfig) itemsPerPage() int {
	if p == nil || p.ItemsPerPage <= 0 {
		return DefaultItemsPerPage
	}
	return p.ItemsPerPage
}

// Updater receives cell edits.
type Updater func(rowID, columnID string, value any)

// CellFactory builds a cell. It replaces the default cell when set as
// Properties.CustomCell.
type CellFactory func(CellProperties) *vdom.VNode

// Properties configure a Grid.
type Properties struct {
	Columns    []Column          `prop:"columns"`
	Store      store.Store       `prop:"store"`
	Pagination *PaginationConfig `prop:"pagination"`
	CustomCell CellFactory       `prop:"customCell"`
	// Updater receives cell edits. When nil the grid writes edits to the
	// store itself.
	Updater Updater `prop:"updater"`
	// IDField names the item field holding row identity. Default "id".
	IDField string `prop:"idField"`
	Theme   Theme  `prop:"theme"`
}

func (p Properties) idField() string {
	if p.IDField != "" {
		return p.IDField
	}
	return store.DefaultIDField
}

func (p Properties) column(id string) (Column, bool) {
	for _, c := range p.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}
