package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Browse runs the search browser until the reader quits. It returns the
// row under the cursor at exit, if any.
func Browse(ctx context.Context, source PageSource, query string) (Row, bool, error) {
	model := NewModel(ctx, source, query)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := program.Run(); err != nil {
		return Row{}, false, err
	}
	if err := model.Err(); err != nil {
		return Row{}, false, err
	}
	row, ok := model.Selected()
	return row, ok, nil
}
