package table

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, PageCount(0, 25))
	assert.Equal(t, 1, PageCount(25, 25))
	assert.Equal(t, 2, PageCount(26, 25))
	assert.Equal(t, 3, PageCount(57, 25))
	assert.Equal(t, 1, PageCount(10, 0))
	assert.Equal(t, 2, LastPage(57, 25))
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name               string
		total, page, rpp   int
		wantStart, wantEnd int
	}{
		{"first page", 57, 0, 25, 0, 25},
		{"middle page", 57, 1, 25, 25, 50},
		{"short last page", 57, 2, 25, 50, 57},
		{"past the end", 57, 5, 25, 57, 57},
		{"empty", 0, 0, 25, 0, 0},
		{"negative page", 10, -1, 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := PageBounds(tt.total, tt.page, tt.rpp)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestEmptyRows(t *testing.T) {
	assert.Equal(t, 18, EmptyRows(57, 2, 25))
	assert.Equal(t, 0, EmptyRows(57, 0, 25), "first page is never padded")
	assert.Equal(t, 0, EmptyRows(3, 0, 25))
	assert.Equal(t, 0, EmptyRows(50, 1, 25))
	assert.Equal(t, 4, EmptyRows(6, 1, 5))
}

func TestModel_ExternalPaging(t *testing.T) {
	m := New(personColumns(),
		WithItems(people(5)),
		WithRowsPerPage[person](5),
		WithPagination[person](External),
		WithTotal[person](12),
		WithRowKey(byID),
	)
	assert.Len(t, m.VisibleRows(), 5)
	assert.Equal(t, 12, m.Total())
	assert.Contains(t, plainView(m), "1–5 of 12")

	_, cmd := m.Update(keyPress("G"))
	assert.Equal(t, []tea.Msg{PageChangedMsg{Page: 2}}, collect(cmd))

	// The parent answers with the last page only.
	m.SetItems(people(2))
	assert.Equal(t, 2, m.Page(), "items are not re-sliced")
	assert.Len(t, m.VisibleRows(), 2)
	view := plainView(m)
	assert.Contains(t, view, "page 3/3")
	assert.Contains(t, view, "11–12 of 12")

	assert.Equal(t, []tea.Msg{PageChangedMsg{Page: 1}}, collect(m.SetTotal(8)))
	assert.Equal(t, 1, m.Page())
	assert.Nil(t, m.SetTotal(8))
}

func TestModel_ExternalPagingFillerRows(t *testing.T) {
	m := New(personColumns(),
		WithItems(people(2)),
		WithRowsPerPage[person](5),
		WithPagination[person](External),
		WithTotal[person](12),
	)
	m.ChangePage(2)
	m.SetItems(people(2))

	// header, rule, 2 rows, 3 filler, rule, footer, help
	assert.Len(t, strings.Split(m.View(), "\n"), 10)
}
