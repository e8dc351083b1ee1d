package table

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/mmcdole/flextable/internal/tui/styles"
)

// Cell geometry shared by the header and the body rows.
const (
	toggleWidth  = 2 // "▸ "
	triggerWidth = 1 // "⋮"
	cellGap      = "  "
	maxAutoWidth = 40
)

// HeaderProps is everything the header needs to render; it keeps no state.
type HeaderProps[T any] struct {
	Order         Order
	OrderBy       string
	HeadCells     []Column[T]
	IsCollapsible bool
	HasActions    bool

	// Widths holds the display width of each main column.
	Widths []int

	// Focused is the index of the keyboard-focused main column, or -1.
	Focused int

	// OnRequestSort is called with the clicked column's ID.
	OnRequestSort func(columnID string) tea.Cmd
}

// Header renders column labels as sort triggers.
type Header[T any] struct {
	props  HeaderProps[T]
	styles Styles
	main   []Column[T]
}

// NewHeader creates a header for props.
func NewHeader[T any](props HeaderProps[T], s Styles) Header[T] {
	return Header[T]{props: props, styles: s, main: MainColumns(props.HeadCells)}
}

// View renders the header line.
func (h Header[T]) View() string {
	var b strings.Builder
	if h.props.IsCollapsible {
		b.WriteString(strings.Repeat(" ", toggleWidth))
	}
	for i, c := range h.main {
		if i > 0 {
			b.WriteString(cellGap)
		}
		label := c.Label
		style := h.styles.Header
		if c.ID == h.props.OrderBy {
			label += " " + h.props.Order.Indicator()
			style = h.styles.HeaderActive
		}
		if i == h.props.Focused {
			style = h.styles.HeaderFocused
		}
		b.WriteString(style.Render(styles.Pad(label, h.width(i))))
	}
	if h.props.HasActions {
		b.WriteString(cellGap + strings.Repeat(" ", triggerWidth))
	}
	return b.String()
}

// ColumnAt returns the ID of the main column under horizontal offset x.
func (h Header[T]) ColumnAt(x int) (string, bool) {
	start := 0
	if h.props.IsCollapsible {
		start = toggleWidth
	}
	for i, c := range h.main {
		w := h.width(i)
		if x >= start && x < start+w {
			return c.ID, true
		}
		start += w + len(cellGap)
	}
	return "", false
}

// Click requests a sort on the column under x.
func (h Header[T]) Click(x int) tea.Cmd {
	id, ok := h.ColumnAt(x)
	if !ok || h.props.OnRequestSort == nil {
		return nil
	}
	return h.props.OnRequestSort(id)
}

func (h Header[T]) width(i int) int {
	if i < len(h.props.Widths) {
		return h.props.Widths[i]
	}
	return runewidth.StringWidth(h.main[i].Label)
}
