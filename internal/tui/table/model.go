package table

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/flextable/internal/tui/styles"
)

// Model is a sortable, paginated table over rows of type T, with optional
// expandable detail panels, a per-row action menu and a search bar.
//
// The model owns only interaction state. Rows are supplied by the parent,
// which observes changes through the messages returned as commands.
type Model[T any] struct {
	columns     []Column[T]
	actions     []Action[T]
	items       []T
	rowKey      func(T) string
	collapsible bool
	sortMode    Mode
	searchable  bool
	searchMode  Mode
	paging      Mode
	total       int // row count across all pages when paging is External

	state    Session
	cursor   int // row within the current page
	focusCol int // index into the main columns
	focused  bool

	search    textinput.Model
	searching bool
	query     string

	paginator paginator.Model
	help      help.Model
	showHelp  bool
	keys      KeyMap
	styles    Styles
	logger    *slog.Logger

	width, height    int
	originX, originY int
	offset           int // first body line shown when the frame is taller than height
}

// entry is a row paired with its position in the items and its key.
type entry[T any] struct {
	index int
	key   string
	row   T
}

// New creates a table over columns.
func New[T any](columns []Column[T], opts ...Option[T]) *Model[T] {
	ti := textinput.New()
	ti.Placeholder = "type to search..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	p := paginator.New()
	p.Type = paginator.Arabic

	m := &Model[T]{
		columns:   columns,
		state:     NewSession(),
		focused:   true,
		paging:    Local,
		search:    ti,
		paginator: p,
		help:      help.New(),
		showHelp:  true,
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := ValidateColumns(columns); err != nil {
		m.logger.Warn("table columns", "error", err)
	}
	if i := columnIndex(MainColumns(columns), m.state.OrderBy); i >= 0 {
		m.focusCol = i
	}
	m.help.Width = m.width
	m.warnDuplicateKeys()
	return m
}

// Init returns no initial command.
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// Update handles key, mouse and resize messages.
func (m *Model[T]) Update(msg tea.Msg) (*Model[T], tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		if !m.focused {
			return m, nil
		}
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch {
		case m.searching:
			return m, m.updateSearch(msg)
		case m.state.MenuOpen():
			return m, m.updateMenu(msg)
		}
		return m, m.handleKey(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	main := MainColumns(m.columns)

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.pageRows())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.PrevColumn):
		if m.focusCol > 0 {
			m.focusCol--
		}
	case key.Matches(msg, m.keys.NextColumn):
		if m.focusCol < len(main)-1 {
			m.focusCol++
		}
	case key.Matches(msg, m.keys.Sort):
		if m.focusCol < len(main) {
			return m.RequestSort(main[m.focusCol].ID)
		}
	case key.Matches(msg, m.keys.NextPage):
		return m.ChangePage(m.state.Page + 1)
	case key.Matches(msg, m.keys.PrevPage):
		return m.ChangePage(m.state.Page - 1)
	case key.Matches(msg, m.keys.FirstPage):
		return m.ChangePage(0)
	case key.Matches(msg, m.keys.LastPage):
		return m.ChangePage(LastPage(m.rowCount(), m.state.RowsPerPage))
	case key.Matches(msg, m.keys.MoreRows):
		return m.stepRowsPerPage(1)
	case key.Matches(msg, m.keys.FewerRows):
		return m.stepRowsPerPage(-1)
	case key.Matches(msg, m.keys.Expand):
		if e, ok := m.cursorEntry(); ok {
			return m.ToggleExpanded(e.key)
		}
	case key.Matches(msg, m.keys.Actions):
		if e, ok := m.cursorEntry(); ok {
			if err := m.OpenMenu(e.key); err != nil {
				m.logger.Debug("open action menu", "key", e.key, "error", err)
			}
		}
	case key.Matches(msg, m.keys.Search):
		if m.searchable {
			m.searching = true
			return m.search.Focus()
		}
	case key.Matches(msg, m.keys.Cancel):
		if m.query != "" {
			return m.cancelSearch()
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *Model[T]) updateMenu(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.state.MoveMenuCursor(-1, len(m.actions))
	case key.Matches(msg, m.keys.Down):
		m.state.MoveMenuCursor(1, len(m.actions))
	case key.Matches(msg, m.keys.Confirm):
		cursor := m.state.MenuCursor()
		if cursor >= len(m.actions) {
			m.CloseMenu()
			return nil
		}
		cmd, err := m.ChooseAction(m.actions[cursor].ID)
		if err != nil {
			m.logger.Warn("choose action", "error", err)
		}
		return cmd
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Actions):
		m.CloseMenu()
	}
	return nil
}

func (m *Model[T]) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m.cancelSearch()
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.search.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != m.query {
		return tea.Batch(cmd, m.setQuery(v))
	}
	return cmd
}

func (m *Model[T]) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.cursor > 0 && !m.state.MenuOpen() {
			m.cursor--
		}
		return nil
	case tea.MouseButtonWheelDown:
		if m.cursor < len(m.pageRows())-1 && !m.state.MenuOpen() {
			m.cursor++
		}
		return nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	x, y := msg.X-m.originX, msg.Y-m.originY
	f := m.frame()

	if m.state.MenuOpen() {
		if i, ok := f.menuItems[y]; ok && i < len(m.actions) {
			cmd, err := m.ChooseAction(m.actions[i].ID)
			if err != nil {
				m.logger.Warn("choose action", "error", err)
			}
			return cmd
		}
		// Clicking anywhere outside the menu dismisses it.
		m.CloseMenu()
		return nil
	}

	if y == f.headerLine {
		return m.header(f.layout).Click(x)
	}

	h, ok := f.rows[y]
	if !ok {
		return nil
	}
	m.cursor = h.pageIndex
	switch {
	case m.collapsible && x >= 0 && x < toggleWidth:
		return m.ToggleExpanded(h.key)
	case len(m.actions) > 0 && x >= f.layout.triggerX:
		if err := m.OpenMenu(h.key); err != nil {
			m.logger.Debug("open action menu", "key", h.key, "error", err)
		}
	}
	return nil
}

// RequestSort applies a sort click on the column with the given ID.
func (m *Model[T]) RequestSort(columnID string) tea.Cmd {
	m.state.RequestSort(columnID)
	m.state.CloseMenu()
	if i := columnIndex(MainColumns(m.columns), columnID); i >= 0 {
		m.focusCol = i
	}
	m.logger.Debug("sort requested", "column", columnID, "order", m.state.Order)
	return emit(SortChangedMsg{ColumnID: columnID, Order: m.state.Order})
}

// ChangePage moves to page. Out-of-range pages are clamped; no message is
// emitted when the page does not change.
func (m *Model[T]) ChangePage(page int) tea.Cmd {
	if !m.state.ChangePage(page, m.rowCount()) {
		return nil
	}
	m.cursor = 0
	m.state.CloseMenu()
	return emit(PageChangedMsg{Page: m.state.Page})
}

// ChangeRowsPerPage sets the page size and returns to the first page.
func (m *Model[T]) ChangeRowsPerPage(n int) (tea.Cmd, error) {
	if err := m.state.ChangeRowsPerPage(n); err != nil {
		return nil, err
	}
	m.cursor = 0
	m.state.CloseMenu()
	return emit(RowsPerPageChangedMsg{RowsPerPage: n}), nil
}

func (m *Model[T]) stepRowsPerPage(step int) tea.Cmd {
	n := m.state.StepPageSize(step)
	if n == m.state.RowsPerPage {
		return nil
	}
	cmd, err := m.ChangeRowsPerPage(n)
	if err != nil {
		m.logger.Warn("change rows per page", "rows", n, "error", err)
	}
	return cmd
}

// ToggleExpanded flips the detail panel of the row with key. It does
// nothing unless the table is collapsible.
func (m *Model[T]) ToggleExpanded(key string) tea.Cmd {
	if !m.collapsible {
		return nil
	}
	expanded := m.state.ToggleExpanded(key)
	return emit(ExpandToggledMsg{Key: key, Expanded: expanded})
}

// OpenMenu opens the action menu on the row with key.
func (m *Model[T]) OpenMenu(key string) error {
	if len(m.actions) == 0 {
		return fmt.Errorf("no actions configured: %w", ErrUnknownAction)
	}
	if _, ok := m.lookup(key); !ok {
		return fmt.Errorf("row %q: %w", key, ErrUnknownRow)
	}

	m.state.OpenMenu(Anchor{Key: key})
	return nil
}

// CloseMenu dismisses the action menu.
func (m *Model[T]) CloseMenu() {
	m.state.CloseMenu()
}

// ChooseAction runs the action with the given ID against the menu's target
// row and closes the menu.
func (m *Model[T]) ChooseAction(actionID string) (tea.Cmd, error) {
	target, ok := m.state.MenuTarget()
	if !ok {
		return nil, ErrMenuClosed
	}
	defer m.state.CloseMenu()

	var action *Action[T]
	for i := range m.actions {
		if m.actions[i].ID == actionID {
			action = &m.actions[i]
			break
		}
	}
	if action == nil {
		return nil, fmt.Errorf("%q: %w", actionID, ErrUnknownAction)
	}

	e, ok := m.lookup(target)
	if !ok {
		return nil, fmt.Errorf("row %q: %w", target, ErrUnknownRow)
	}

	cmds := []tea.Cmd{emit(ActionMsg[T]{ActionID: actionID, Key: e.key, Row: e.row})}
	if action.Run != nil {
		cmds = append(cmds, action.Run(e.row))
	}
	return tea.Batch(cmds...), nil
}

// SetQuery sets the search query programmatically.
func (m *Model[T]) SetQuery(q string) tea.Cmd {
	m.search.SetValue(q)
	return m.setQuery(q)
}

func (m *Model[T]) setQuery(q string) tea.Cmd {
	m.query = q
	m.state.Page = 0
	m.cursor = 0
	m.state.CloseMenu()
	return emit(SearchMsg{Query: q})
}

func (m *Model[T]) cancelSearch() tea.Cmd {
	m.query = ""
	m.searching = false
	m.search.SetValue("")
	m.search.Blur()
	m.state.Page = 0
	m.cursor = 0
	return emit(SearchCanceledMsg{})
}

// SetItems replaces the rows. Sort, page and expansion state survive; the
// page is clamped onto the new data and state for vanished rows is dropped.
// With External paging, items are the current page only and the page is
// clamped by SetTotal instead.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	if m.paging == Local && m.state.ClampPage(m.rowCount()) {
		m.logger.Debug("page clamped", "page", m.state.Page, "rows", len(items))
	}

	present := make(map[string]bool, len(items))
	for _, e := range m.entries() {
		present[e.key] = true
	}
	m.state.Prune(func(k string) bool { return present[k] })
	m.warnDuplicateKeys()

	if n := len(m.pageRows()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

// SetTotal sets the row count across all pages for External paging. A
// total that no longer reaches the current page clamps it and emits
// PageChangedMsg so the parent can fetch the page now shown.
func (m *Model[T]) SetTotal(total int) tea.Cmd {
	m.total = max(0, total)
	if m.paging != External || !m.state.ClampPage(m.total) {
		return nil
	}
	m.cursor = 0
	m.state.CloseMenu()
	m.logger.Debug("page clamped", "page", m.state.Page, "total", m.total)
	return emit(PageChangedMsg{Page: m.state.Page})
}

// Total returns the row count across all pages.
func (m *Model[T]) Total() int { return m.rowCount() }

// warnDuplicateKeys logs the first row key shared by two rows. Expansion
// and the action menu address rows by key, so only the first such row can
// be targeted.
func (m *Model[T]) warnDuplicateKeys() {
	if m.rowKey == nil {
		return
	}
	seen := make(map[string]int, len(m.items))
	for i, row := range m.items {
		k := m.rowKey(row)
		if j, ok := seen[k]; ok {
			m.logger.Warn("duplicate row key", "key", k, "first", j, "index", i)
			return
		}
		seen[k] = i
	}
}

// Items returns the rows as supplied.
func (m *Model[T]) Items() []T {
	return m.items
}

// VisibleRows returns the rows on the current page, after search and
// local sorting.
func (m *Model[T]) VisibleRows() []T {
	page := m.pageRows()
	out := make([]T, len(page))
	for i, e := range page {
		out[i] = e.row
	}
	return out
}

// SelectedRow returns the row under the cursor.
func (m *Model[T]) SelectedRow() (T, bool) {
	e, ok := m.cursorEntry()
	return e.row, ok
}

// Key returns the row key of the item at index in Items.
func (m *Model[T]) Key(index int) string {
	if index < 0 || index >= len(m.items) {
		return ""
	}
	return m.keyOf(index, m.items[index])
}

// MenuTarget returns the row targeted by the open action menu.
func (m *Model[T]) MenuTarget() (T, bool) {
	var zero T
	key, ok := m.state.MenuTarget()
	if !ok {
		return zero, false
	}
	e, ok := m.lookup(key)
	return e.row, ok
}

// Session returns a copy of the interaction state.
func (m *Model[T]) Session() Session {
	return m.state
}

// Order returns the sort direction.
func (m *Model[T]) Order() Order { return m.state.Order }

// OrderBy returns the active sort column ID.
func (m *Model[T]) OrderBy() string { return m.state.OrderBy }

func (m *Model[T]) Page() int { return m.state.Page }
func (m *Model[T]) RowsPerPage() int { return m.state.RowsPerPage }
func (m *Model[T]) Cursor() int { return m.cursor }
func (m *Model[T]) MenuOpen() bool { return m.state.MenuOpen() }
func (m *Model[T]) IsExpanded(key string) bool { return m.state.IsExpanded(key) }
func (m *Model[T]) Query() string { return m.query }
func (m *Model[T]) Searching() bool { return m.searching }

// SetCursor moves the cursor within the current page.
func (m *Model[T]) SetCursor(i int) {
	m.cursor = max(0, min(i, len(m.pageRows())-1))
}

// SetSize sets the render width and height.
func (m *Model[T]) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
}

// SetOrigin sets the screen position of the table for mouse handling.
func (m *Model[T]) SetOrigin(x, y int) {
	m.originX = x
	m.originY = y
}

// Focus enables key and mouse handling.
func (m *Model[T]) Focus() { m.focused = true }

// Blur disables key and mouse handling.
func (m *Model[T]) Blur() { m.focused = false }

// Focused reports whether the table handles input.
func (m *Model[T]) Focused() bool { return m.focused }

// String returns a summary for debugging.
func (m *Model[T]) String() string {
	return fmt.Sprintf("Table[rows=%d, page=%d, perPage=%d, sort=%s %s, query=%q]",
		len(m.items), m.state.Page, m.state.RowsPerPage, m.state.OrderBy, m.state.Order, m.query)
}

func (m *Model[T]) keyOf(index int, row T) string {
	if m.rowKey != nil {
		return m.rowKey(row)
	}
	return positionalKey(index)
}

func (m *Model[T]) entries() []entry[T] {
	out := make([]entry[T], len(m.items))
	for i, row := range m.items {
		out[i] = entry[T]{index: i, key: m.keyOf(i, row), row: row}
	}
	return out
}

func (m *Model[T]) lookup(key string) (entry[T], bool) {
	for i, row := range m.items {
		if k := m.keyOf(i, row); k == key {
			return entry[T]{index: i, key: k, row: row}, true
		}
	}
	return entry[T]{}, false
}

// visibleRows returns every row that survives the search, in display order.
func (m *Model[T]) visibleRows() []entry[T] {
	rows := m.entries()
	if m.searchable && m.searchMode == Local && m.query != "" {
		rows = m.filterRows(rows, m.query)
	}
	if m.sortMode == Local {
		m.sortRows(rows)
	}
	return rows
}

// rowCount returns the number of rows across all pages.
func (m *Model[T]) rowCount() int {
	if m.paging == External {
		return max(m.total, m.state.Page*m.state.RowsPerPage+len(m.items))
	}
	return len(m.visibleRows())
}

// pageSpan returns the visible rows on the current page and the index of
// the first one across all pages.
func (m *Model[T]) pageSpan() ([]entry[T], int) {
	rows := m.visibleRows()
	if m.paging == External {
		return rows[:min(len(rows), m.state.RowsPerPage)], m.state.Page * m.state.RowsPerPage
	}
	start, end := PageBounds(len(rows), m.state.Page, m.state.RowsPerPage)
	return rows[start:end], start
}

// pageRows returns the slice of visible rows on the current page.
func (m *Model[T]) pageRows() []entry[T] {
	rows, _ := m.pageSpan()
	return rows
}

func (m *Model[T]) cursorEntry() (entry[T], bool) {
	page := m.pageRows()
	if m.cursor < 0 || m.cursor >= len(page) {
		return entry[T]{}, false
	}
	return page[m.cursor], true
}
