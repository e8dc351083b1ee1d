package table

import (
	"errors"
	"fmt"
)

// Column describes how one field of a row is labeled and rendered.
type Column[T any] struct {
	// ID identifies the column. It is the sort key reported in SortChangedMsg.
	ID string

	// Label is the header text.
	Label string

	// Value extracts the column's field from a row.
	Value func(row T) any

	// Render projects the field value (and the full row) to display text.
	// It must be deterministic. When nil, the value is formatted with fmt.Sprint.
	Render func(value any, row T) string

	// ShowOnCollapse moves the column out of the main row and into the
	// expanded detail panel.
	ShowOnCollapse bool

	// Width is a fixed display width. Zero sizes the column to its content.
	Width int

	// Less orders rows for local sorting. When nil, rendered text is compared.
	Less func(a, b T) bool

	// Searchable includes the column's rendered text in the local search haystack.
	Searchable bool
}

// text renders the column for row. Panics raised by Value or Render propagate.
func (c Column[T]) text(row T) string {
	var v any
	if c.Value != nil {
		v = c.Value(row)
	}
	if c.Render != nil {
		return c.Render(v, row)
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// MainColumns returns the columns shown in the main row, in order.
func MainColumns[T any](cols []Column[T]) []Column[T] {
	var out []Column[T]
	for _, c := range cols {
		if !c.ShowOnCollapse {
			out = append(out, c)
		}
	}
	return out
}

// DetailColumns returns the columns shown only in the detail panel, in order.
func DetailColumns[T any](cols []Column[T]) []Column[T] {
	var out []Column[T]
	for _, c := range cols {
		if c.ShowOnCollapse {
			out = append(out, c)
		}
	}
	return out
}

// ValidateColumns reports empty and duplicate column IDs. The table renders
// regardless; callers can use this to catch keying mistakes early.
func ValidateColumns[T any](cols []Column[T]) error {
	var errs []error
	seen := make(map[string]bool, len(cols))
	for i, c := range cols {
		if c.ID == "" {
			errs = append(errs, fmt.Errorf("column %d: %w", i, ErrEmptyColumnID))
			continue
		}
		if seen[c.ID] {
			errs = append(errs, fmt.Errorf("column %q: %w", c.ID, ErrDuplicateColumn))
		}
		seen[c.ID] = true
	}
	return errors.Join(errs...)
}

// columnIndex returns the position of the column with the given ID, or -1.
func columnIndex[T any](cols []Column[T], id string) int {
	for i, c := range cols {
		if c.ID == id {
			return i
		}
	}
	return -1
}
