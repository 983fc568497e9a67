package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"sfpl/pkg/sfpl"
)

// PageMsg carries a freshly fetched result page
type PageMsg struct {
	Page sfpl.Page
}

// DoneMsg reports that the source has no more pages. Err is nil on a clean end.
type DoneMsg struct {
	Err error
}

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(40, max(10, msg.Width-30))
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		model, cmd := m.progress.Update(msg)
		m.progress = model.(progress.Model)
		return m, cmd

	case PageMsg:
		m.loading = false
		m.addPage(msg.Page)
		return m, nil

	case DoneMsg:
		m.loading = false
		m.done = true
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "Q", "ctrl+c", "esc":
		return tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		// reaching the bottom pulls the next page
		if m.cursor >= len(m.rows)-1 {
			return m.loadMore()
		}

	case "home", "g":
		m.cursor = 0

	case "end", "G":
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
		}

	case "n", " ":
		return m.loadMore()

	case "enter":
		m.showDetail = !m.showDetail

	case "?":
		m.showHelp = !m.showHelp
	}
	return nil
}

// fetchPage asks the source for one more page
func fetchPage(ctx context.Context, source PageSource) tea.Cmd {
	return func() tea.Msg {
		if source.Next(ctx) {
			return PageMsg{Page: source.Page()}
		}
		return DoneMsg{Err: source.Err()}
	}
}
