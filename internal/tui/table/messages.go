package table

import tea "github.com/charmbracelet/bubbletea"

// Messages emitted to the parent model. Each interaction that changes
// session state returns a command producing one of these.

// SortChangedMsg reports a sort request. In external sort mode the parent
// is expected to reorder the items and call SetItems.
type SortChangedMsg struct {
	ColumnID string
	Order    Order
}

// PageChangedMsg reports a new current page.
type PageChangedMsg struct {
	Page int
}

// RowsPerPageChangedMsg reports a new page size. The page is reset to 0.
type RowsPerPageChangedMsg struct {
	RowsPerPage int
}

// ExpandToggledMsg reports a detail panel toggle. In shared expansion mode
// Key is the row the toggle was clicked on.
type ExpandToggledMsg struct {
	Key      string
	Expanded bool
}

// ActionMsg reports a chosen action and the row it targeted.
type ActionMsg[T any] struct {
	ActionID string
	Key      string
	Row      T
}

// SearchMsg reports the current search query.
type SearchMsg struct {
	Query string
}

// SearchCanceledMsg reports that the search was cleared.
type SearchCanceledMsg struct{}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
