package table

import (
	"fmt"
	"slices"
)

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder converts a configuration string to an Order. Anything other
// than "asc" is descending.
func ParseOrder(s string) Order {
	if Order(s) == Asc {
		return Asc
	}
	return Desc
}

// Indicator returns the header arrow for the direction.
func (o Order) Indicator() string {
	if o == Asc {
		return "▲"
	}
	return "▼"
}

// ExpansionMode selects how detail panels are tracked.
type ExpansionMode int

const (
	// ExpandPerRow keeps one expanded flag per row key.
	ExpandPerRow ExpansionMode = iota
	// ExpandShared keeps a single flag for every row: toggling any row
	// shows or hides all detail panels at once.
	ExpandShared
)

// Anchor records where the action menu was opened from.
type Anchor struct {
	Key string // row key of the trigger's row
}

// Session is the interaction state of one table instance. It is created
// with the table and never persisted.
type Session struct {
	Order       Order
	OrderBy     string
	Page        int
	RowsPerPage int
	PageSizes   []int
	Expansion   ExpansionMode

	expanded       map[string]bool
	sharedExpanded bool

	menuAnchor *Anchor
	menuTarget string
	menuCursor int
}

// NewSession returns the initial session: descending, no sort column,
// first page, 25 rows per page, everything collapsed, menu closed.
func NewSession() Session {
	return Session{
		Order:       Desc,
		RowsPerPage: DefaultRowsPerPage,
		PageSizes:   DefaultPageSizes(),
		expanded:    make(map[string]bool),
	}
}

// RequestSort applies a sort click on column. Clicking the active ascending
// column flips it to descending; every other click sorts ascending.
func (s *Session) RequestSort(column string) {
	isAsc := s.OrderBy == column && s.Order == Asc
	if isAsc {
		s.Order = Desc
	} else {
		s.Order = Asc
	}
	s.OrderBy = column
}

// ChangePage moves to page, clamped to the pages available for total rows.
// It reports whether the page changed.
func (s *Session) ChangePage(page, total int) bool {
	page = max(0, min(page, LastPage(total, s.RowsPerPage)))
	if page == s.Page {
		return false
	}
	s.Page = page
	return true
}

// ChangeRowsPerPage sets the page size and returns to the first page.
func (s *Session) ChangeRowsPerPage(n int) error {
	if n <= 0 {
		return fmt.Errorf("%d: %w", n, ErrInvalidPageSize)
	}
	s.RowsPerPage = n
	s.Page = 0
	return nil
}

// StepPageSize returns the page-size option step positions away from the
// current size, stopping at either end of the option set. A current size
// that is not an option snaps to the nearest larger option.
func (s *Session) StepPageSize(step int) int {
	sizes := slices.Clone(s.PageSizes)
	if len(sizes) == 0 {
		return s.RowsPerPage
	}
	slices.Sort(sizes)
	i, found := slices.BinarySearch(sizes, s.RowsPerPage)
	if !found && step > 0 {
		step--
	}
	i = max(0, min(i+step, len(sizes)-1))
	return sizes[i]
}

// IsExpanded reports whether the detail panel for key is shown.
func (s *Session) IsExpanded(key string) bool {
	if s.Expansion == ExpandShared {
		return s.sharedExpanded
	}
	return s.expanded[key]
}

// ToggleExpanded flips the detail panel for key (or for every row in shared
// mode) and returns the new state.
func (s *Session) ToggleExpanded(key string) bool {
	if s.Expansion == ExpandShared {
		s.sharedExpanded = !s.sharedExpanded
		return s.sharedExpanded
	}
	if s.expanded == nil {
		s.expanded = make(map[string]bool)
	}
	if s.expanded[key] {
		delete(s.expanded, key)
		return false
	}
	s.expanded[key] = true
	return true
}

// OpenMenu opens the action menu at anchor, targeting the anchor's row.
func (s *Session) OpenMenu(anchor Anchor) {
	s.menuAnchor = &anchor
	s.menuTarget = anchor.Key
	s.menuCursor = 0
}

// CloseMenu clears the anchor and the target.
func (s *Session) CloseMenu() {
	s.menuAnchor = nil
	s.menuTarget = ""
	s.menuCursor = 0
}

// MenuOpen reports whether the action menu is showing.
func (s *Session) MenuOpen() bool {
	return s.menuAnchor != nil
}

// MenuAnchor returns the anchor of the open menu.
func (s *Session) MenuAnchor() (Anchor, bool) {
	if s.menuAnchor == nil {
		return Anchor{}, false
	}
	return *s.menuAnchor, true
}

// MenuTarget returns the row key targeted by the open menu.
func (s *Session) MenuTarget() (string, bool) {
	if s.menuAnchor == nil {
		return "", false
	}
	return s.menuTarget, true
}

// MenuCursor returns the highlighted entry of the open menu.
func (s *Session) MenuCursor() int {
	return s.menuCursor
}

// MoveMenuCursor moves the menu highlight by delta within n entries.
func (s *Session) MoveMenuCursor(delta, n int) {
	if n <= 0 {
		s.menuCursor = 0
		return
	}
	s.menuCursor = max(0, min(s.menuCursor+delta, n-1))
}

// ClampPage pulls Page back onto the last page when total rows shrank.
// It reports whether the page changed.
func (s *Session) ClampPage(total int) bool {
	last := LastPage(total, s.RowsPerPage)
	if s.Page <= last {
		return false
	}
	s.Page = last
	return true
}

// Prune drops expansion and menu state for keys no longer present.
func (s *Session) Prune(present func(key string) bool) {
	for k := range s.expanded {
		if !present(k) {
			delete(s.expanded, k)
		}
	}
	if s.menuAnchor != nil && !present(s.menuTarget) {
		s.CloseMenu()
	}
}
