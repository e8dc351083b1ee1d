package table

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// sortRows orders rows in place by the active sort column. Rows keep their
// input order when the column is unknown or the values compare equal.
func (m *Model[T]) sortRows(rows []entry[T]) {
	i := columnIndex(m.columns, m.state.OrderBy)
	if i < 0 {
		return
	}
	col := m.columns[i]

	compare := func(a, b entry[T]) int {
		if col.Less != nil {
			switch {
			case col.Less(a.row, b.row):
				return -1
			case col.Less(b.row, a.row):
				return 1
			}
			return 0
		}
		return compareValues(m.sortValue(col, a.row), m.sortValue(col, b.row))
	}

	slices.SortStableFunc(rows, func(a, b entry[T]) int {
		if m.state.Order == Desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
}

// sortValue returns the raw field when available, else the rendered text.
func (m *Model[T]) sortValue(col Column[T], row T) any {
	if col.Value != nil {
		if v := col.Value(row); v != nil {
			return v
		}
	}
	return m.cell(col, row)
}

// compareValues orders common scalar types naturally and falls back to
// comparing their formatted text.
func compareValues(a, b any) int {
	switch x := a.(type) {
	case int:
		if y, ok := b.(int); ok {
			return cmp.Compare(x, y)
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(strings.ToLower(x), strings.ToLower(y))
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
