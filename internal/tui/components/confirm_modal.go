package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/flextable/internal/tui/styles"
)

// ConfirmModal asks a yes/no question before a destructive action.
type ConfirmModal struct {
	visible bool
	title   string
	body    string
}

// NewConfirmModal creates a hidden confirmation modal
func NewConfirmModal() ConfirmModal {
	return ConfirmModal{}
}

// Show displays the modal with a title and a one-line body
func (m *ConfirmModal) Show(title, body string) {
	m.visible = true
	m.title = title
	m.body = body
}

// Hide dismisses the modal
func (m *ConfirmModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m ConfirmModal) IsVisible() bool {
	return m.visible
}

// Update handles key events, returns (modal, decided, confirmed).
// The modal hides itself once a decision is made.
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, bool, bool) {
	if !m.visible {
		return m, false, false
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, false, false
	}
	switch keyMsg.String() {
	case "y", "Y", "enter":
		m.Hide()
		return m, true, true
	case "n", "N", "esc":
		m.Hide()
		return m, true, false
	}
	return m, false, false
}

// View renders the modal
func (m ConfirmModal) View() string {
	if !m.visible {
		return ""
	}

	const modalWidth = 40

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.White).
		Bold(true).
		Width(modalWidth)

	bodyStyle := lipgloss.NewStyle().
		Foreground(styles.LightGray).
		Width(modalWidth)

	hint := styles.DimStyle.Render("y confirm · n cancel")

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		"",
		bodyStyle.Render(m.body),
		"",
		hint,
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Red).
		Padding(1, 2).
		Render(content)
}
