package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("4")
	colorMuted     = lipgloss.Color("245")
	colorHighlight = lipgloss.Color("6")
	colorDanger    = lipgloss.Color("1")
	colorText      = lipgloss.Color("252")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMuted)

	activeHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Underline(true).
				Foreground(colorHighlight)

	cellStyle = lipgloss.NewStyle().
			Foreground(colorText)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(colorHighlight).
				Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	matchStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)
)
