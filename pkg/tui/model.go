package tui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/vango-dev/dgrid/pkg/grid"
)

// State represents the current UI state.
type State int

const (
	StateGrid State = iota
	StateGoTo
	StateFind
)

// Model is the bubbletea model. It owns the grid: every grid call happens
// in Update, on the program's goroutine.
type Model struct {
	ctx   context.Context
	grid  *grid.Grid
	title string

	snap grid.Snapshot
	err  error

	colCursor int
	rowCursor int

	state     State
	gotoInput textinput.Model
	findInput textinput.Model
	matches   fuzzy.Matches

	width  int
	height int
	keys   KeyMap
}

// New creates a model over g and fetches the first window.
func New(ctx context.Context, g *grid.Grid, title string) Model {
	gotoInput := textinput.New()
	gotoInput.Placeholder = "page"
	gotoInput.CharLimit = 12

	findInput := textinput.New()
	findInput.Placeholder = "column..."
	findInput.CharLimit = 50

	m := Model{
		ctx:       ctx,
		grid:      g,
		title:     title,
		keys:      DefaultKeyMap(),
		gotoInput: gotoInput,
		findInput: findInput,
	}
	m.refresh()
	return m
}

// Run starts a full-screen program over g and blocks until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, g *grid.Grid, title string) error {
	p := tea.NewProgram(New(ctx, g, title), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateGoTo:
			return m.handleGoTo(msg)
		case StateFind:
			return m.handleFind(msg)
		}
		return m.handleGrid(msg)
	}
	return m, nil
}

func (m Model) handleGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.snap.Columns

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Left):
		if m.colCursor > 0 {
			m.colCursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.colCursor < len(cols)-1 {
			m.colCursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.rowCursor > 0 {
			m.rowCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.rowCursor < len(m.snap.Items)-1 {
			m.rowCursor++
		}

	case key.Matches(msg, m.keys.Sort):
		if m.colCursor < len(cols) && cols[m.colCursor].Sortable {
			id := cols[m.colCursor].ID
			sd := m.snap.Sort
			m.grid.OnSortRequest(id, sd != nil && sd.ColumnID == id && !sd.Descending)
		}

	case key.Matches(msg, m.keys.PrevPage):
		if page := m.page(); m.snap.Paginated && page > 1 {
			m.grid.OnPaginationRequest(strconv.Itoa(page - 1))
		}
	case key.Matches(msg, m.keys.NextPage):
		if page := m.page(); m.snap.Paginated && page < m.lastPage() {
			m.grid.OnPaginationRequest(strconv.Itoa(page + 1))
		}

	case key.Matches(msg, m.keys.GoTo):
		if m.snap.Paginated {
			m.state = StateGoTo
			m.gotoInput.SetValue("")
			m.gotoInput.Focus()
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.Find):
		m.state = StateFind
		m.findInput.SetValue("")
		m.findInput.Focus()
		m.applyFind()
		return m, textinput.Blink
	}

	if m.grid.Dirty() {
		m.refresh()
	}
	return m, nil
}

func (m Model) handleGoTo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.state = StateGrid
		m.gotoInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.state = StateGrid
		m.gotoInput.Blur()
		// Forwarded verbatim; the grid decides what the text means.
		m.grid.OnPaginationRequest(m.gotoInput.Value())
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return m, cmd
}

func (m Model) handleFind(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.state = StateGrid
		m.findInput.Blur()
		m.matches = nil
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if len(m.matches) > 0 {
			m.colCursor = m.matches[0].Index
		}
		m.state = StateGrid
		m.findInput.Blur()
		m.matches = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.findInput, cmd = m.findInput.Update(msg)
	m.applyFind()
	return m, cmd
}

// columnSource implements fuzzy.Source over column ids and labels.
type columnSource []grid.Column

func (c columnSource) String(i int) string {
	if c[i].Label == "" || c[i].Label == c[i].ID {
		return c[i].ID
	}
	return c[i].Label + " " + c[i].ID
}

func (c columnSource) Len() int {
	return len(c)
}

// applyFind matches the find input against the columns.
func (m *Model) applyFind() {
	query := m.findInput.Value()
	if query == "" {
		m.matches = nil
		return
	}
	m.matches = fuzzy.FindFrom(query, columnSource(m.snap.Columns))
}

// refresh fetches the grid's current window.
func (m *Model) refresh() {
	m.snap, m.err = m.grid.Snapshot(m.ctx)
	m.grid.ClearDirty()
	if m.colCursor >= len(m.snap.Columns) {
		m.colCursor = max(len(m.snap.Columns)-1, 0)
	}
	if m.rowCursor >= len(m.snap.Items) {
		m.rowCursor = max(len(m.snap.Items)-1, 0)
	}
}

func (m Model) page() int {
	if m.snap.Pagination == nil {
		return 1
	}
	return m.snap.Pagination.PageNumber
}

func (m Model) lastPage() int {
	pd := m.snap.Pagination
	if pd == nil || pd.DataRangeCount <= 0 || m.snap.Total <= 0 {
		return 1
	}
	return (m.snap.Total + pd.DataRangeCount - 1) / pd.DataRangeCount
}

// State returns the current UI state.
func (m Model) State() State {
	return m.state
}

// ColumnCursor returns the index of the selected column.
func (m Model) ColumnCursor() int {
	return m.colCursor
}
