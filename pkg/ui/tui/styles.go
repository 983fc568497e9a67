package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accent    = lipgloss.Color("#2E86AB")
	highlight = lipgloss.Color("#F6AE2D")
	success   = lipgloss.Color("#3BB273")
	danger    = lipgloss.Color("#E4572E")
	dimWhite  = lipgloss.Color("#B0B0B0")
	darkBg    = lipgloss.Color("#1A1E37")

	titleStyle = lipgloss.NewStyle().
			Background(accent).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	queryStyle = lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true)

	rowStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(highlight).
				Bold(true)

	rowDetailStyle = lipgloss.NewStyle().
			Foreground(dimWhite).
			Faint(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Background(darkBg).
			Padding(0, 1)

	statsLabelStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	statsValueStyle = lipgloss.NewStyle().
			Foreground(highlight)

	doneStyle = lipgloss.NewStyle().
			Foreground(success)

	errorStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			PaddingTop(1)
)
