package table

import (
	"log/slog"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/flextable/internal/tui/styles"
)

// Mode selects whether sorting, searching or paging is applied by the table
// itself or left to the parent in response to emitted messages.
type Mode int

const (
	// External emits the request and renders items exactly as supplied.
	External Mode = iota
	// Local emits the request and also applies it to the rendered rows.
	Local
)

// Styles holds the lipgloss styles used to render the table.
type Styles struct {
	Header         lipgloss.Style
	HeaderActive   lipgloss.Style
	HeaderFocused  lipgloss.Style
	Cell           lipgloss.Style
	Selected       lipgloss.Style
	Toggle         lipgloss.Style
	Trigger        lipgloss.Style
	DetailTitle    lipgloss.Style
	DetailLabel    lipgloss.Style
	DetailValue    lipgloss.Style
	Menu           lipgloss.Style
	MenuItem       lipgloss.Style
	MenuItemActive lipgloss.Style
	Footer         lipgloss.Style
	Placeholder    lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Header:         styles.HeaderStyle,
		HeaderActive:   styles.HeaderActiveStyle,
		HeaderFocused:  styles.HeaderFocusedStyle,
		Cell:           styles.CellStyle,
		Selected:       styles.SelectedRowStyle,
		Toggle:         styles.ToggleStyle,
		Trigger:        styles.TriggerStyle,
		DetailTitle:    styles.DetailTitleStyle,
		DetailLabel:    styles.DetailLabelStyle,
		DetailValue:    styles.DetailValueStyle,
		Menu:           styles.MenuStyle,
		MenuItem:       styles.MenuItemStyle,
		MenuItemActive: styles.MenuItemSelectedStyle,
		Footer:         styles.FooterStyle,
		Placeholder:    styles.ErrorStyle,
	}
}

// Option configures a Model.
type Option[T any] func(*Model[T])

// WithItems sets the initial rows.
func WithItems[T any](items []T) Option[T] {
	return func(m *Model[T]) { m.items = items }
}

// WithActions enables the trailing action column.
func WithActions[T any](actions ...Action[T]) Option[T] {
	return func(m *Model[T]) { m.actions = actions }
}

// WithCollapsible enables the leading toggle column and detail panels.
func WithCollapsible[T any](collapsible bool) Option[T] {
	return func(m *Model[T]) { m.collapsible = collapsible }
}

// WithRowKey sets the stable identity extractor used for expansion and
// menu targeting. Without it a row's position in the items is its key.
func WithRowKey[T any](key func(T) string) Option[T] {
	return func(m *Model[T]) { m.rowKey = key }
}

// WithInitialSort sets the starting sort column and direction.
func WithInitialSort[T any](columnID string, order Order) Option[T] {
	return func(m *Model[T]) {
		m.state.OrderBy = columnID
		m.state.Order = order
	}
}

// WithPageSizes sets the rows-per-page options. Non-positive sizes are ignored.
func WithPageSizes[T any](sizes ...int) Option[T] {
	return func(m *Model[T]) {
		valid := slices.DeleteFunc(slices.Clone(sizes), func(n int) bool { return n <= 0 })
		if len(valid) > 0 {
			slices.Sort(valid)
			m.state.PageSizes = slices.Compact(valid)
		}
	}
}

// WithRowsPerPage sets the initial page size.
func WithRowsPerPage[T any](n int) Option[T] {
	return func(m *Model[T]) {
		if n > 0 {
			m.state.RowsPerPage = n
		}
	}
}

// WithSortMode selects external or local sorting.
func WithSortMode[T any](mode Mode) Option[T] {
	return func(m *Model[T]) { m.sortMode = mode }
}

// WithExpansion selects per-row or shared detail panels.
func WithExpansion[T any](mode ExpansionMode) Option[T] {
	return func(m *Model[T]) { m.state.Expansion = mode }
}

// WithSearch enables the search bar.
func WithSearch[T any](mode Mode) Option[T] {
	return func(m *Model[T]) {
		m.searchable = true
		m.searchMode = mode
	}
}

// WithPagination selects who slices rows into pages. Local, the default,
// pages through the supplied items. External treats the items as the
// current page and takes the row count from SetTotal; the parent fetches a
// new page on PageChangedMsg and RowsPerPageChangedMsg.
func WithPagination[T any](mode Mode) Option[T] {
	return func(m *Model[T]) { m.paging = mode }
}

// WithTotal sets the initial row count for External paging.
func WithTotal[T any](total int) Option[T] {
	return func(m *Model[T]) { m.total = max(0, total) }
}

// WithSize sets the initial render size. A positive height caps the
// rendered lines; the rows scroll to keep the cursor in view.
func WithSize[T any](width, height int) Option[T] {
	return func(m *Model[T]) {
		m.width = width
		m.height = height
	}
}

// WithOrigin sets the screen position of the table's top-left cell, used
// to translate mouse coordinates.
func WithOrigin[T any](x, y int) Option[T] {
	return func(m *Model[T]) {
		m.originX = x
		m.originY = y
	}
}

// WithShowHelp toggles the key help line beneath the footer.
func WithShowHelp[T any](show bool) Option[T] {
	return func(m *Model[T]) { m.showHelp = show }
}

// WithLogger sets the logger for render failures and rejected transitions.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(m *Model[T]) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithStyles overrides the default styles.
func WithStyles[T any](s Styles) Option[T] {
	return func(m *Model[T]) { m.styles = s }
}

// WithKeyMap overrides the default key bindings.
func WithKeyMap[T any](k KeyMap) Option[T] {
	return func(m *Model[T]) { m.keys = k }
}

// positionalKey is the row key used when no identity extractor is set.
func positionalKey(index int) string {
	return strconv.Itoa(index)
}
