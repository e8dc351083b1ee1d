package table

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// filterRows keeps the rows whose searchable text fuzzily matches query,
// preserving their order.
func (m *Model[T]) filterRows(rows []entry[T], query string) []entry[T] {
	query = strings.TrimSpace(query)
	if query == "" {
		return rows
	}

	cols := m.searchColumns()
	haystack := make([]string, len(rows))
	for i, e := range rows {
		parts := make([]string, 0, len(cols))
		for _, c := range cols {
			parts = append(parts, m.cell(c, e.row))
		}
		haystack[i] = strings.ToLower(strings.Join(parts, " "))
	}

	matches := fuzzy.Find(strings.ToLower(query), haystack)
	idx := make([]int, len(matches))
	for i, match := range matches {
		idx[i] = match.Index
	}
	slices.Sort(idx)

	out := make([]entry[T], len(idx))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return out
}

// searchColumns returns the columns flagged Searchable, or every main
// column when none are flagged.
func (m *Model[T]) searchColumns() []Column[T] {
	var cols []Column[T]
	for _, c := range m.columns {
		if c.Searchable {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return MainColumns(m.columns)
	}
	return cols
}
