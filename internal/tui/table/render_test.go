package table

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_HeightCapsFrame(t *testing.T) {
	m := New(personColumns(), WithItems(people(25)), WithSize[person](80, 10), WithRowKey(byID))

	lines := strings.Split(plainView(m), "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, lines[0], "Name", "header stays on the first line")
	assert.Contains(t, lines[len(lines)-2], "1–25 of 25")

	_, cmd := m.Update(click(3, 0))
	assert.Equal(t, []tea.Msg{SortChangedMsg{ColumnID: "name", Order: Asc}}, collect(cmd))
}

func TestView_ScrollFollowsCursor(t *testing.T) {
	m := New(personColumns(), WithItems(people(25)), WithSize[person](80, 10), WithRowKey(byID))
	for range 12 {
		m.Update(keyPress("down"))
	}

	view := plainView(m)
	assert.Len(t, strings.Split(view, "\n"), 10)
	assert.Contains(t, view, "person-12")
	assert.NotContains(t, view, "person-00")

	f := m.frame()
	line := -1
	for l, h := range f.rows {
		assert.Contains(t, ansi.Strip(f.lines[l]), "person-"+h.key[1:], "row hit matches the drawn row")
		if h.key == "p10" {
			line = l
		}
	}
	require.GreaterOrEqual(t, line, 0, "p10 is on screen")

	m.Update(click(1, line))
	assert.Equal(t, 10, m.Cursor())
}

func TestView_ScrollKeepsMenuInView(t *testing.T) {
	m := New(personColumns(),
		WithItems(people(25)),
		WithSize[person](80, 10),
		WithRowKey(byID),
		WithActions(
			Action[person]{ID: "open", Label: "Open"},
			Action[person]{ID: "drop", Label: "Drop"},
		),
	)
	m.SetCursor(20)
	require.NoError(t, m.OpenMenu("p20"))

	f := m.frame()
	require.Len(t, f.lines, 10)
	require.Len(t, f.menuItems, 2, "every entry is on screen")

	var drop = -1
	for l, i := range f.menuItems {
		assert.Less(t, l, len(f.lines))
		if i == 1 {
			drop = l
		}
	}
	_, cmd := m.Update(click(f.layout.triggerX, drop))
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, ActionMsg[person]{ActionID: "drop", Key: "p20", Row: people(25)[20]}, msgs[0])
}

func TestView_NoHeightRendersWholePage(t *testing.T) {
	m := New(personColumns(), WithItems(people(25)))
	// header, rule, 25 rows, rule, footer, help
	assert.Len(t, strings.Split(m.View(), "\n"), 30)
}

func TestView_DuplicateRowKeys(t *testing.T) {
	var buf bytes.Buffer
	items := people(3)
	items[2].ID = items[0].ID

	m := New(personColumns(),
		WithItems(items),
		WithRowKey(byID),
		WithLogger[person](slog.New(slog.NewTextHandler(&buf, nil))),
		WithActions(Action[person]{ID: "act", Render: func(p person) string { return "act:" + p.Name }}),
	)
	assert.Contains(t, buf.String(), "duplicate row key")

	require.NoError(t, m.OpenMenu("p00"))
	assert.Equal(t, 1, strings.Count(plainView(m), "act:"), "menu is drawn once")

	buf.Reset()
	m.SetItems(people(3))
	assert.NotContains(t, buf.String(), "duplicate row key")
}
