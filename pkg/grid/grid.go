package grid

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vango-dev/dgrid/pkg/store"
	"github.com/vango-dev/dgrid/pkg/vdom"
	"github.com/vango-dev/dgrid/pkg/widget"
)

// ErrNoStore is returned by Snapshot when the grid has no store.
var ErrNoStore = errors.New("grid: no store")

// Grid is the dgrid widget. It is not safe for concurrent use.
type Grid struct {
	*widget.Base[Properties]

	logger  *slog.Logger
	reapply bool

	registry *widget.Registry

	// Derived query state. Nil details mean no sort or pagination request
	// has been made.
	store             store.Store
	sortDetails       *SortDetails
	paginationDetails *PaginationDetails

	lastErr error
}

// Option configures a Grid.
type Option func(*Grid)

// WithLogger sets the grid's logger. Default slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Grid) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithReapplyOnStoreChange makes a store property change re-apply the active
// sort and pagination to the new store. By default the new store is used
// as-is and the previous details are kept for display only.
func WithReapplyOnStoreChange() Option {
	return func(g *Grid) {
		g.reapply = true
	}
}

// New creates a grid. With pagination configured the grid starts on page 1.
func New(props Properties, opts ...Option) *Grid {
	g := &Grid{
		Base:   widget.NewBase(props),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With("component", "dgrid", "widget_id", g.ID())

	g.registry = createRegistry(props.CustomCell)

	if props.Pagination != nil {
		n := props.Pagination.itemsPerPage()
		g.store = rangeOf(props.Store, 0, n)
		g.paginationDetails = &PaginationDetails{DataRangeStart: 0, DataRangeCount: n, PageNumber: 1}
	} else {
		g.store = props.Store
	}

	g.Own(g.On(widget.EventPropertiesChanged, g.onPropertiesChanged))
	g.Own(g.On(widget.EventStateChanged, func(widget.Event) {
		g.Invalidate()
	}))
	return g
}

// OnSortRequest sorts by the given column. With pagination enabled the
// current page window (or the first page) is kept.
func (g *Grid) OnSortRequest(columnID string, descending bool) {
	if g.Destroyed() {
		return
	}
	props := g.Properties()
	s := sortOf(props.Store, g.sortKey(columnID), descending)

	if props.Pagination != nil {
		start, count := 0, DefaultItemsPerPage
		if pd := g.paginationDetails; pd != nil {
			start, count = pd.DataRangeStart, pd.DataRangeCount
		}
		s = rangeOf(s, start, count)
	}

	g.store = s
	g.sortDetails = &SortDetails{ColumnID: columnID, Descending: descending}
	g.logger.Debug("sort requested", "column", columnID, "descending", descending)
	g.Invalidate()
}

// OnPaginationRequest moves to the page named by pageNumber. The text is
// parsed leniently ("3", " 3", "3rd"). Text that is not a number, or a page
// whose window start overflows, yields page 0 and a negative window start,
// which the store rejects at fetch time.
func (g *Grid) OnPaginationRequest(pageNumber string) {
	if g.Destroyed() {
		return
	}
	props := g.Properties()
	n := props.Pagination.itemsPerPage()

	page, ok := parsePageNumber(pageNumber)
	start, fits := pageStart(page, n)
	if !ok || !fits {
		g.logger.Warn("invalid page number", "text", pageNumber)
		page, start = 0, -n
	}

	var s store.Store
	if sd := g.sortDetails; sd != nil {
		s = rangeOf(sortOf(props.Store, g.sortKey(sd.ColumnID), sd.Descending), start, n)
	} else {
		s = rangeOf(props.Store, start, n)
	}

	g.store = s
	g.paginationDetails = &PaginationDetails{DataRangeStart: start, DataRangeCount: n, PageNumber: page}
	g.logger.Debug("page requested", "page", page, "start", start, "count", n)
	g.Invalidate()
}

func (g *Grid) onPropertiesChanged(e widget.Event) {
	evt, ok := e.(widget.PropertiesChanged[Properties])
	if !ok {
		return
	}
	props := evt.Properties

	if evt.Changed("store") {
		if g.reapply {
			g.store = g.derive(props)
		} else {
			g.store = props.Store
		}
	}

	if evt.Changed("customCell") {
		g.registry = createRegistry(props.CustomCell)
	}

	if evt.Changed("pagination") && !samePagination(evt.Previous.Pagination, props.Pagination) {
		if props.Pagination == nil {
			g.paginationDetails = nil
		} else {
			n := props.Pagination.itemsPerPage()
			g.paginationDetails = &PaginationDetails{DataRangeStart: 0, DataRangeCount: n, PageNumber: 1}
		}
		g.store = g.derive(props)
	}
}

// derive rebuilds the query from props.Store and the active details.
func (g *Grid) derive(props Properties) store.Store {
	s := props.Store
	if sd := g.sortDetails; sd != nil {
		s = sortOf(s, g.sortKey(sd.ColumnID), sd.Descending)
	}
	if pd := g.paginationDetails; pd != nil && props.Pagination != nil {
		s = rangeOf(s, pd.DataRangeStart, pd.DataRangeCount)
	}
	return s
}

func samePagination(a, b *PaginationConfig) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.itemsPerPage() == b.itemsPerPage()
}

// sortKey maps a column to the store field it sorts by.
func (g *Grid) sortKey(columnID string) string {
	if c, ok := g.Properties().column(columnID); ok {
		return c.FieldName()
	}
	return columnID
}

func sortOf(s store.Store, field string, descending bool) store.Store {
	if s == nil {
		return nil
	}
	return s.Sort(field, descending)
}

func rangeOf(s store.Store, start, count int) store.Store {
	if s == nil {
		return nil
	}
	return s.Range(start, count)
}

// SortDetails returns the active sort, or nil.
func (g *Grid) SortDetails() *SortDetails {
	if g.sortDetails == nil {
		return nil
	}
	sd := *g.sortDetails
	return &sd
}

// PaginationDetails returns the active page window, or nil.
func (g *Grid) PaginationDetails() *PaginationDetails {
	if g.paginationDetails == nil {
		return nil
	}
	pd := *g.paginationDetails
	return &pd
}

// Store returns the derived store the grid renders from.
func (g *Grid) Store() store.Store {
	return g.store
}

// Registry returns the grid's factory registry.
func (g *Grid) Registry() *widget.Registry {
	return g.registry
}

// Err returns the error from the last fetch or write-through update.
func (g *Grid) Err() error {
	return g.lastErr
}

// Destroy releases the grid and drops its query state.
func (g *Grid) Destroy() {
	g.Base.Destroy()
	g.store = nil
	g.sortDetails = nil
	g.paginationDetails = nil
}

// updater returns the callback rows hand to cells.
func (g *Grid) updater() Updater {
	if u := g.Properties().Updater; u != nil {
		return u
	}
	return g.writeThrough
}

// writeThrough applies a cell edit to the base store.
func (g *Grid) writeThrough(rowID, columnID string, value any) {
	props := g.Properties()
	if props.Store == nil {
		return
	}
	field := columnID
	if c, ok := props.column(columnID); ok {
		field = c.FieldName()
	}
	if err := props.Store.Update(context.Background(), rowID, field, value); err != nil {
		g.lastErr = err
		g.logger.Error("cell update failed", "row", rowID, "column", columnID, "error", err)
	} else {
		g.logger.Debug("cell updated", "row", rowID, "column", columnID)
	}
	g.Invalidate()
}

// Snapshot is one fetched view of the grid.
type Snapshot struct {
	Columns    []Column
	Items      []store.Item
	Total      int
	Sort       *SortDetails
	Pagination *PaginationDetails
	Paginated  bool
	IDField    string
}

// Snapshot fetches the current window. The returned snapshot carries the
// columns and details even when the fetch fails.
func (g *Grid) Snapshot(ctx context.Context) (Snapshot, error) {
	props := g.Properties()
	snap := Snapshot{
		Columns:    props.Columns,
		Sort:       g.SortDetails(),
		Pagination: g.PaginationDetails(),
		Paginated:  props.Pagination != nil,
		IDField:    props.idField(),
	}
	if g.store == nil {
		g.lastErr = ErrNoStore
		return snap, ErrNoStore
	}
	res, err := g.store.Fetch(ctx)
	if err != nil {
		g.lastErr = err
		g.logger.Error("fetch failed", "error", err)
		return snap, err
	}
	g.lastErr = nil
	snap.Items = res.Items
	snap.Total = res.Total
	return snap, nil
}

// Render implements vdom.Component.
func (g *Grid) Render() *vdom.VNode {
	return g.RenderContext(context.Background())
}

// RenderContext fetches the current window and builds the grid tree.
func (g *Grid) RenderContext(ctx context.Context) *vdom.VNode {
	theme := g.Properties().Theme.orDefault()
	snap, err := g.Snapshot(ctx)

	header := g.registry.Build(TagHeader, HeaderProperties{
		Registry:      g.registry,
		Columns:       snap.Columns,
		Sort:          snap.Sort,
		OnSortRequest: g.OnSortRequest,
		Theme:         theme,
	})
	body := g.registry.Build(TagBody, BodyProperties{
		Registry: g.registry,
		Columns:  snap.Columns,
		Items:    snap.Items,
		Err:      err,
		IDField:  snap.IDField,
		Offset:   rowOffset(snap.Pagination),
		Updater:  g.updater(),
		Theme:    theme,
	})
	footer := g.registry.Build(TagFooter, FooterProperties{
		Total:               snap.Total,
		Pagination:          snap.Pagination,
		Paginated:           snap.Paginated,
		OnPaginationRequest: g.OnPaginationRequest,
		Theme:               theme,
	})

	g.ClearDirty()
	return vdom.Div(
		vdom.Class(theme.Grid),
		vdom.Role("grid"),
		vdom.Table(vdom.Class(theme.Table), header, body),
		footer,
	)
}

func rowOffset(pd *PaginationDetails) int {
	if pd == nil || pd.DataRangeStart < 0 {
		return 0
	}
	return pd.DataRangeStart
}
