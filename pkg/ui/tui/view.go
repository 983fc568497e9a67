package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// chrome is the number of lines used by everything except the result rows
const chrome = 8

// View renders the browser
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	sections := []string{
		titleStyle.Render("SFPL SEARCH") + " " + queryStyle.Render(m.query),
		m.renderRows(),
	}
	if m.showDetail {
		if detail := m.renderDetail(); detail != "" {
			sections = append(sections, detail)
		}
	}
	sections = append(sections, m.renderStatus())

	if m.showHelp {
		sections = append(sections, helpStyle.Render(
			"j/k move, g/G first/last, n load more, enter details, q quit"))
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderRows() string {
	if len(m.rows) == 0 {
		if m.done {
			return rowStyle.Render("No results")
		}
		return ""
	}

	visible := max(3, m.height-chrome)
	if m.showDetail {
		visible = max(3, visible-4)
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(len(m.rows), start+visible)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		row := m.rows[i]
		var detail string
		if row.Detail != "" {
			detail = " " + rowDetailStyle.Render(row.Detail)
		}
		if i == m.cursor {
			lines = append(lines, selectedRowStyle.Render("> "+row.Title)+detail)
			continue
		}
		lines = append(lines, rowStyle.Render(row.Title)+detail)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderDetail() string {
	row, ok := m.Selected()
	if !ok {
		return ""
	}
	lines := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Title:"), statsValueStyle.Render(row.Title)),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("ID:"), statsValueStyle.Render(row.ID)),
	}
	if row.Detail != "" {
		lines = append(lines, fmt.Sprintf("%s %s", statsLabelStyle.Render("By:"), statsValueStyle.Render(row.Detail)))
	}
	return panelStyle.Width(min(m.width-2, 80)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderStatus() string {
	counts := fmt.Sprintf("%s %s  %s %s",
		statsLabelStyle.Render("Results:"),
		statsValueStyle.Render(fmt.Sprintf("%d of %d", len(m.rows), m.total)),
		statsLabelStyle.Render("Pages:"),
		statsValueStyle.Render(fmt.Sprintf("%d/%d", m.pages, m.totalPages)),
	)

	var state string
	switch {
	case m.err != nil:
		state = errorStyle.Render("error: " + m.err.Error())
	case m.loading:
		state = m.spinner.View() + " loading page " + fmt.Sprint(m.pages+1)
	case m.done:
		state = doneStyle.Render("end of results")
	default:
		state = rowDetailStyle.Render("n for more")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		counts+"  "+m.progress.ViewAs(m.fetchRatio()),
		state,
	)
}
