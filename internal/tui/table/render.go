package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/mmcdole/flextable/internal/tui/styles"
)

const (
	detailTitle    = "More information"
	minBodyLines   = 3
	cellFallback   = "⚠"
	emptyMessage   = "No rows"
	noMatchMessage = "No matches"
)

// layout is the column geometry for one rendered page.
type layout[T any] struct {
	main     []Column[T]
	widths   []int
	triggerX int
}

// rowHit maps a rendered line back to the row drawn on it.
type rowHit struct {
	key       string
	pageIndex int
}

// frame is one full render plus the hit-test tables for mouse handling.
type frame[T any] struct {
	lines      []string
	layout     layout[T]
	headerLine int
	rows       map[int]rowHit
	menuItems  map[int]int
}

// body is the scrollable part of a frame between the header and footer
// rules. Hit-test tables are keyed by body line.
type body struct {
	lines     []string
	rows      map[int]rowHit
	menuItems map[int]int

	// focusFrom and focusTo bound the lines kept in view when scrolling.
	focusFrom, focusTo int
}

// View renders the table.
func (m *Model[T]) View() string {
	return strings.Join(m.frame().lines, "\n")
}

func (m *Model[T]) frame() frame[T] {
	page, start := m.pageSpan()
	total := m.rowCount()

	main := MainColumns(m.columns)
	cells := make([][]string, len(page))
	for i, e := range page {
		cells[i] = make([]string, len(main))
		for j, c := range main {
			cells[i][j] = m.cell(c, e.row)
		}
	}
	lay := m.layoutFor(main, cells)

	var top []string
	if m.searchable && (m.searching || m.query != "") {
		top = append(top, m.searchBar(total))
	}
	header := m.header(lay).View()
	headerLine := len(top)
	top = append(top, header)

	ruleWidth := m.width
	if ruleWidth <= 0 {
		ruleWidth = ansi.StringWidth(header)
	}
	top = append(top, styles.Rule(ruleWidth))

	b := m.body(page, cells, lay, total)

	bottom := []string{styles.Rule(ruleWidth), m.footer(total, start, start+len(page))}
	help := strings.Split(m.help.View(m.keys), "\n")
	// Help is the first thing given up when rows would not fit.
	if m.showHelp && (m.height <= 0 || m.height-len(top)-len(bottom)-len(help) >= min(len(b.lines), minBodyLines)) {
		bottom = append(bottom, help...)
	}
	m.scroll(&b, len(top)+len(bottom))

	f := frame[T]{
		layout:     lay,
		headerLine: headerLine,
		rows:       make(map[int]rowHit, len(b.rows)),
		menuItems:  make(map[int]int, len(b.menuItems)),
	}
	for l, h := range b.rows {
		f.rows[len(top)+l] = h
	}
	for l, i := range b.menuItems {
		f.menuItems[len(top)+l] = i
	}
	f.lines = append(append(top, b.lines...), bottom...)

	if m.width > 0 {
		for i, l := range f.lines {
			f.lines[i] = ansi.Truncate(l, m.width, "")
		}
	}
	return f
}

// body renders the rows of page with their menus, detail blocks and filler.
func (m *Model[T]) body(page []entry[T], cells [][]string, lay layout[T], total int) body {
	b := body{
		rows:      make(map[int]rowHit),
		menuItems: make(map[int]int),
	}

	if len(page) == 0 {
		msg := emptyMessage
		if m.query != "" {
			msg = noMatchMessage
		}
		b.lines = append(b.lines, m.styles.Footer.Render(msg))
	}

	anchor, menuOpen := m.state.MenuAnchor()
	menuDrawn := false
	for i, e := range page {
		from := len(b.lines)
		b.rows[from] = rowHit{key: e.key, pageIndex: i}
		b.lines = append(b.lines, m.renderRow(e, cells[i], lay, i == m.cursor))

		menuHere := menuOpen && !menuDrawn && anchor.Key == e.key
		if menuHere {
			m.appendMenu(&b, e, lay)
			menuDrawn = true
		}
		if m.collapsible && m.state.IsExpanded(e.key) {
			b.lines = append(b.lines, m.renderDetail(e)...)
		}

		switch {
		case menuHere:
			b.focusFrom, b.focusTo = from, len(b.lines)
		case i == m.cursor && !menuOpen:
			b.focusFrom, b.focusTo = from, len(b.lines)
		}
	}

	for range EmptyRows(total, m.state.Page, m.state.RowsPerPage) {
		b.lines = append(b.lines, "")
	}
	return b
}

// scroll cuts the body down to the lines left over from reserved when a
// height is set, moving the offset so the focused lines stay in view.
func (m *Model[T]) scroll(b *body, reserved int) {
	avail := m.height - reserved
	if m.height <= 0 || len(b.lines) <= avail {
		m.offset = 0
		return
	}
	avail = max(1, avail)

	if b.focusTo > m.offset+avail {
		m.offset = b.focusTo - avail
	}
	if b.focusFrom < m.offset {
		m.offset = b.focusFrom
	}
	m.offset = max(0, min(m.offset, len(b.lines)-avail))
	lo, hi := m.offset, m.offset+avail

	rows := make(map[int]rowHit)
	for l, h := range b.rows {
		if l >= lo && l < hi {
			rows[l-lo] = h
		}
	}
	items := make(map[int]int)
	for l, i := range b.menuItems {
		if l >= lo && l < hi {
			items[l-lo] = i
		}
	}
	b.lines, b.rows, b.menuItems = b.lines[lo:hi], rows, items
}

// cell renders one column for row. A panicking Render is isolated to its
// cell and drawn as a placeholder.
func (m *Model[T]) cell(c Column[T], row T) (s string) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("cell render failed", "column", c.ID, "panic", r)
			s = m.styles.Placeholder.Render(cellFallback)
		}
	}()
	return strings.ReplaceAll(c.text(row), "\n", " ")
}

func (m *Model[T]) layoutFor(main []Column[T], cells [][]string) layout[T] {
	lay := layout[T]{main: main, widths: make([]int, len(main))}
	for j, c := range main {
		if c.Width > 0 {
			lay.widths[j] = c.Width
			continue
		}
		// Leave room for the sort indicator.
		w := runewidth.StringWidth(c.Label) + 2
		for i := range cells {
			w = max(w, ansi.StringWidth(cells[i][j]))
		}
		lay.widths[j] = min(w, maxAutoWidth)
	}

	x := 0
	if m.collapsible {
		x = toggleWidth
	}
	for j, w := range lay.widths {
		if j > 0 {
			x += len(cellGap)
		}
		x += w
	}
	lay.triggerX = x + len(cellGap)
	return lay
}

func (m *Model[T]) header(lay layout[T]) Header[T] {
	focused := -1
	if m.focused {
		focused = m.focusCol
	}
	return NewHeader(HeaderProps[T]{
		Order:         m.state.Order,
		OrderBy:       m.state.OrderBy,
		HeadCells:     m.columns,
		IsCollapsible: m.collapsible,
		HasActions:    len(m.actions) > 0,
		Widths:        lay.widths,
		Focused:       focused,
		OnRequestSort: m.RequestSort,
	}, m.styles)
}

func (m *Model[T]) renderRow(e entry[T], cells []string, lay layout[T], selected bool) string {
	toggle := ""
	if m.collapsible {
		toggle = "▸ "
		if m.state.IsExpanded(e.key) {
			toggle = "▾ "
		}
	}

	padded := make([]string, len(cells))
	for j, c := range cells {
		padded[j] = styles.Pad(c, lay.widths[j])
	}
	body := strings.Join(padded, cellGap)

	trigger := ""
	if len(m.actions) > 0 {
		trigger = cellGap + "⋮"
	}

	// A selected row is styled as one run so the background is unbroken.
	if selected {
		return m.styles.Selected.Render(toggle + body + trigger)
	}
	return m.styles.Toggle.Render(toggle) + m.styles.Cell.Render(body) + m.styles.Trigger.Render(trigger)
}

func (m *Model[T]) renderDetail(e entry[T]) []string {
	indent := strings.Repeat(" ", toggleWidth+2)
	lines := []string{indent + m.styles.DetailTitle.Render(detailTitle)}

	detail := DetailColumns(m.columns)
	labelWidth := 0
	for _, c := range detail {
		labelWidth = max(labelWidth, runewidth.StringWidth(c.Label))
	}
	for _, c := range detail {
		label := m.styles.DetailLabel.Render(runewidth.FillRight(c.Label, labelWidth))
		value := m.styles.DetailValue.Render(m.cell(c, e.row))
		lines = append(lines, indent+label+"  "+value)
	}
	return lines
}

// appendMenu draws the action popup beneath the anchor row, right-aligned
// to the trigger, and records which line holds each entry.
func (m *Model[T]) appendMenu(b *body, anchorRow entry[T], lay layout[T]) {
	target := anchorRow
	if key, ok := m.state.MenuTarget(); ok {
		if e, found := m.lookup(key); found {
			target = e
		}
	}

	entries := make([]string, len(m.actions))
	width := 0
	for i, a := range m.actions {
		entries[i] = strings.ReplaceAll(m.actionText(a, target), "\n", " ")
		width = max(width, ansi.StringWidth(entries[i]))
	}
	for i := range entries {
		style := m.styles.MenuItem
		if i == m.state.MenuCursor() {
			style = m.styles.MenuItemActive
		}
		entries[i] = style.Render(styles.Pad(entries[i], width))
	}

	box := strings.Split(m.styles.Menu.Render(strings.Join(entries, "\n")), "\n")
	indent := strings.Repeat(" ", max(0, lay.triggerX+triggerWidth-lipgloss.Width(box[0])))
	topBorder := 1
	if m.styles.Menu.GetBorderTopSize() == 0 {
		topBorder = 0
	}
	for i, l := range box {
		if item := i - topBorder; item >= 0 && item < len(m.actions) {
			b.menuItems[len(b.lines)] = item
		}
		b.lines = append(b.lines, indent+l)
	}
}

func (m *Model[T]) actionText(a Action[T], row entry[T]) (s string) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("action render failed", "action", a.ID, "panic", r)
			s = cellFallback
		}
	}()
	return a.text(row.row)
}

func (m *Model[T]) searchBar(total int) string {
	bar := m.search.View()
	if m.query != "" && m.searchMode == Local {
		bar += m.styles.Footer.Render(fmt.Sprintf(" [%d/%d]", total, len(m.items)))
	}
	return bar
}

func (m *Model[T]) footer(total, start, end int) string {
	p := m.paginator
	p.PerPage = m.state.RowsPerPage
	p.TotalPages = PageCount(total, m.state.RowsPerPage)
	p.Page = m.state.Page

	span := "0 of 0"
	if total > 0 && end > start {
		span = fmt.Sprintf("%d–%d of %d", start+1, end, total)
	} else if total > 0 {
		span = fmt.Sprintf("0 of %d", total)
	}
	return m.styles.Footer.Render(fmt.Sprintf("page %s  ·  %s  ·  %d per page", p.View(), span, m.state.RowsPerPage))
}
