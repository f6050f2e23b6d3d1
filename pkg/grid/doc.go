// Package grid implements dgrid, a data grid widget.
//
// A Grid renders rows fetched from a store.Store through a set of
// configurable columns, and turns user interaction (header clicks, page
// changes, cell edits) into new store queries:
//
//	g := grid.New(grid.Properties{
//	    Columns:    []grid.Column{{ID: "name", Label: "Name", Sortable: true}},
//	    Store:      store.NewMemoryStore(items),
//	    Pagination: &grid.PaginationConfig{ItemsPerPage: 25},
//	})
//	g.OnSortRequest("name", false)
//	g.OnPaginationRequest("2")
//	html := render.RenderToString(g.Render())
//
// The grid never mutates its base store. Sort and pagination requests derive
// a new query from the store in the current properties and keep the last
// sort and pagination details so that either can be re-applied on top of the
// other.
//
// Header, body, rows, cells and footer are built through a widget.Registry
// owned by each Grid. Properties.CustomCell replaces the "dgrid-cell"
// factory.
package grid
