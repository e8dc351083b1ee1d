package table

import tea "github.com/charmbracelet/bubbletea"

// Action is a row-scoped entry in the action menu.
type Action[T any] struct {
	ID    string
	Label string

	// Render produces the menu entry for the targeted row. When nil, Label is shown.
	Render func(row T) string

	// Run is invoked with the targeted row when the action is chosen.
	Run func(row T) tea.Cmd
}

func (a Action[T]) text(row T) string {
	if a.Render != nil {
		return a.Render(row)
	}
	if a.Label != "" {
		return a.Label
	}
	return a.ID
}
