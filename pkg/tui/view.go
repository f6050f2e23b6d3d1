package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vango-dev/dgrid/pkg/grid"
)

// maxColumnWidth truncates wide cells.
const maxColumnWidth = 32

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	if m.title != "" {
		b.WriteString(titleStyle.Render(m.title))
		b.WriteString("\n\n")
	}

	cols := m.snap.Columns
	texts := make([][]string, len(m.snap.Items))
	for r, item := range m.snap.Items {
		texts[r] = make([]string, len(cols))
		for c, col := range cols {
			texts[r][c] = col.Format(item[col.FieldName()])
		}
	}

	labels := make([]string, len(cols))
	widths := make([]int, len(cols))
	for c, col := range cols {
		labels[c] = m.headerLabel(col)
		widths[c] = lipgloss.Width(labels[c])
		for r := range texts {
			widths[c] = max(widths[c], lipgloss.Width(texts[r][c]))
		}
		widths[c] = min(widths[c], maxColumnWidth)
	}

	header := make([]string, len(cols))
	for c := range cols {
		style := headerStyle
		if c == m.colCursor {
			style = activeHeaderStyle
		}
		header[c] = style.Render(pad(labels[c], widths[c]))
	}
	b.WriteString(strings.Join(header, "  "))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case len(texts) == 0:
		b.WriteString(footerStyle.Render("No results"))
		b.WriteString("\n")
	}
	for r, row := range texts {
		style := cellStyle
		if r == m.rowCursor {
			style = selectedRowStyle
		}
		cells := make([]string, len(row))
		for c, text := range row {
			cells[c] = pad(text, widths[c])
		}
		b.WriteString(style.Render(strings.Join(cells, "  ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render(m.summary()))
	b.WriteString("\n")

	switch m.state {
	case StateGoTo:
		b.WriteString("Go to page: ")
		b.WriteString(m.gotoInput.View())
		b.WriteString("\n")
	case StateFind:
		b.WriteString("Find column: ")
		b.WriteString(m.findInput.View())
		b.WriteString("\n")
		for i, match := range m.matches {
			line := "  " + cols[match.Index].ID
			if i == 0 {
				line = matchStyle.Render("> " + cols[match.Index].ID)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	default:
		b.WriteString(m.helpLine())
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) headerLabel(col grid.Column) string {
	label := col.Label
	if label == "" {
		label = col.ID
	}
	if sd := m.snap.Sort; sd != nil && sd.ColumnID == col.ID {
		if sd.Descending {
			return label + " ▼"
		}
		return label + " ▲"
	}
	return label
}

// summary mirrors the footer of the HTML grid.
func (m Model) summary() string {
	total := m.snap.Total
	results := fmt.Sprintf("%d results", total)
	if total == 1 {
		results = "1 result"
	}
	pd := m.snap.Pagination
	if !m.snap.Paginated || pd == nil {
		return results
	}
	if total == 0 || pd.DataRangeStart < 0 || pd.DataRangeStart >= total {
		return fmt.Sprintf("%s · page %d of %d", results, pd.PageNumber, m.lastPage())
	}
	end := min(pd.DataRangeStart+pd.DataRangeCount, total)
	return fmt.Sprintf("%d - %d of %s · page %d of %d", pd.DataRangeStart+1, end, results, pd.PageNumber, m.lastPage())
}

func (m Model) helpLine() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}

// pad truncates or pads s to exactly width cells.
func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		r := []rune(s)
		for lipgloss.Width(string(r)) > width-1 && len(r) > 0 {
			r = r[:len(r)-1]
		}
		return string(r) + "…"
	}
	return s + strings.Repeat(" ", width-w)
}
