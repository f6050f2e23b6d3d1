package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vango-dev/dgrid/pkg/grid"
	"github.com/vango-dev/dgrid/pkg/store"
)

func testGrid(t *testing.T, n int) *grid.Grid {
	t.Helper()
	items := make([]store.Item, n)
	for i := range items {
		items[i] = store.Item{"id": i + 1, "name": fmt.Sprintf("p%02d", i+1), "city": "c" + string(rune('a'+i%3))}
	}
	g := grid.New(grid.Properties{
		Columns: []grid.Column{
			{ID: "id", Label: "ID", Sortable: true},
			{ID: "name", Label: "Name", Sortable: true},
			{ID: "city", Label: "City"},
		},
		Store:      store.NewMemoryStore(items),
		Pagination: &grid.PaginationConfig{ItemsPerPage: 4},
	})
	t.Cleanup(g.Destroy)
	return g
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestNewModel(t *testing.T) {
	m := New(context.Background(), testGrid(t, 10), "People")

	if m.State() != StateGrid {
		t.Errorf("State() = %d, want StateGrid", m.State())
	}
	if len(m.snap.Items) != 4 || m.snap.Total != 10 {
		t.Errorf("snapshot = %d items of %d, want 4 of 10", len(m.snap.Items), m.snap.Total)
	}
	view := m.View()
	for _, want := range []string{"People", "ID", "Name", "p01", "1 - 4 of 10 results · page 1 of 3"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestColumnCursor(t *testing.T) {
	m := New(context.Background(), testGrid(t, 3), "")

	m = press(t, m, "left")
	if m.ColumnCursor() != 0 {
		t.Errorf("cursor = %d, want 0 (clamped)", m.ColumnCursor())
	}
	m = press(t, m, "right", "right", "right")
	if m.ColumnCursor() != 2 {
		t.Errorf("cursor = %d, want 2 (clamped)", m.ColumnCursor())
	}
}

func TestSortToggle(t *testing.T) {
	g := testGrid(t, 10)
	m := New(context.Background(), g, "")

	m = press(t, m, "right", "s")
	if sd := g.SortDetails(); sd == nil || sd.ColumnID != "name" || sd.Descending {
		t.Fatalf("SortDetails() = %+v, want name ascending", sd)
	}
	if !strings.Contains(m.View(), "Name ▲") {
		t.Error("View() should mark the ascending sort")
	}

	m = press(t, m, "s")
	if sd := g.SortDetails(); sd == nil || !sd.Descending {
		t.Fatalf("SortDetails() = %+v, want descending", sd)
	}
	if m.snap.Items[0]["name"] != "p10" {
		t.Errorf("first row = %v, want p10", m.snap.Items[0]["name"])
	}

	// City is not sortable.
	press(t, m, "right", "s")
	if sd := g.SortDetails(); sd.ColumnID != "name" {
		t.Errorf("sorting an unsortable column changed SortDetails to %+v", sd)
	}
}

func TestPaging(t *testing.T) {
	g := testGrid(t, 10)
	m := New(context.Background(), g, "")

	m = press(t, m, "[")
	if got := g.PaginationDetails().PageNumber; got != 1 {
		t.Errorf("page = %d, want 1 (no page before the first)", got)
	}

	m = press(t, m, "]", "]")
	if got := *g.PaginationDetails(); got != (grid.PaginationDetails{DataRangeStart: 8, DataRangeCount: 4, PageNumber: 3}) {
		t.Errorf("PaginationDetails() = %+v", got)
	}
	if len(m.snap.Items) != 2 {
		t.Errorf("last page has %d items, want 2", len(m.snap.Items))
	}

	m = press(t, m, "]")
	if got := g.PaginationDetails().PageNumber; got != 3 {
		t.Errorf("page = %d, want 3 (no page after the last)", got)
	}

	press(t, m, "[")
	if got := g.PaginationDetails().PageNumber; got != 2 {
		t.Errorf("page = %d, want 2", got)
	}
}

func TestGoTo(t *testing.T) {
	g := testGrid(t, 10)
	m := New(context.Background(), g, "")

	m = press(t, m, "g")
	if m.State() != StateGoTo {
		t.Fatalf("State() = %d, want StateGoTo", m.State())
	}
	m = press(t, m, "3", "enter")
	if m.State() != StateGrid {
		t.Errorf("State() = %d, want StateGrid", m.State())
	}
	if got := g.PaginationDetails().PageNumber; got != 3 {
		t.Errorf("page = %d, want 3", got)
	}

	// Text is forwarded verbatim, so garbage yields the invalid window.
	m = press(t, m, "g", "x", "enter")
	if got := g.PaginationDetails().PageNumber; got != 0 {
		t.Errorf("page = %d, want 0", got)
	}
	if m.err == nil || !strings.Contains(m.View(), "Error:") {
		t.Error("an invalid page should surface the store error")
	}

	m = press(t, m, "g", "esc")
	if m.State() != StateGrid {
		t.Errorf("esc should leave go-to mode")
	}
}

func TestFindColumn(t *testing.T) {
	m := New(context.Background(), testGrid(t, 3), "")

	m = press(t, m, "/")
	if m.State() != StateFind {
		t.Fatalf("State() = %d, want StateFind", m.State())
	}
	m = press(t, m, "c", "t", "y")
	if len(m.matches) == 0 || m.snap.Columns[m.matches[0].Index].ID != "city" {
		t.Fatalf("matches = %+v, want city first", m.matches)
	}
	if !strings.Contains(m.View(), "> city") {
		t.Error("View() should list the best match")
	}

	m = press(t, m, "enter")
	if m.ColumnCursor() != 2 {
		t.Errorf("cursor = %d, want 2", m.ColumnCursor())
	}

	m = press(t, m, "/", "n", "esc")
	if m.ColumnCursor() != 2 || m.State() != StateGrid {
		t.Error("esc should cancel without moving the cursor")
	}
}

func TestQuit(t *testing.T) {
	m := New(context.Background(), testGrid(t, 1), "")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}

	// In an input, q is text.
	m = press(t, m, "/", "q")
	if m.State() != StateFind || m.findInput.Value() != "q" {
		t.Error("q should be typed into the find input")
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"ab", 4, "ab  "},
		{"abcd", 4, "abcd"},
		{"abcdef", 4, "abc…"},
	}
	for _, tt := range tests {
		if got := pad(tt.in, tt.width); got != tt.want {
			t.Errorf("pad(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
