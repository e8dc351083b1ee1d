package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/mmcdole/flextable/internal/config"
	"github.com/mmcdole/flextable/internal/domain"
	"github.com/mmcdole/flextable/internal/loader"
	"github.com/mmcdole/flextable/internal/log"
	"github.com/mmcdole/flextable/internal/service"
	"github.com/mmcdole/flextable/internal/store"
	"github.com/mmcdole/flextable/internal/tui/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

func testRecords() []domain.Record {
	return []domain.Record{
		{ID: "r1", Name: "Rotate backups", Owner: "ops", Status: domain.StatusActive, Priority: 2, CreatedAt: created, Notes: "weekly", Tags: []string{"infra"}},
		{ID: "r2", Name: "Audit dns", Owner: "security", Status: domain.StatusPaused, Priority: 1, CreatedAt: created.Add(time.Hour)},
		{ID: "r3", Name: "Migrate billing", Owner: "data", Status: domain.StatusArchived, Priority: 4, CreatedAt: created.Add(2 * time.Hour)},
	}
}

func newTestModel(t *testing.T, cfg config.TableConfig) (Model, *service.RecordService) {
	t.Helper()
	repo, err := store.NewRecordStore("")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.Save(context.Background(), testRecords()...))

	svc := service.NewRecordService(repo, log.NullLogger())
	return NewModel(svc, cfg, log.NullLogger()), svc
}

// send feeds msg to the model and then feeds back every message its
// commands produce, skipping timers, until nothing is left.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		updated, cmd := m.Update(next)
		m = updated.(Model)
		queue = append(queue, run(cmd)...)
	}
	return m
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil, ClearStatusMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func init() {
	statusTimeout = time.Millisecond
}

func ids(records []domain.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestModel_InitLoadsWithInitialSort(t *testing.T) {
	cfg := config.DefaultConfig().Table
	m, _ := newTestModel(t, cfg)

	m = send(t, m, m.Init()())
	assert.Equal(t, []string{"r3", "r2", "r1"}, ids(m.Table().Items()), "created_at descending")
	assert.Equal(t, domain.SortByCreatedAt, m.Query().Field)
	assert.True(t, m.Query().Desc)

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "3 records")
	assert.Contains(t, view, "Created ▼")
}

func TestModel_ExternalSortRequeries(t *testing.T) {
	m, _ := newTestModel(t, config.DefaultConfig().Table)
	m = send(t, m, m.Init()())

	m = send(t, m, table.SortChangedMsg{ColumnID: "priority", Order: table.Asc})
	assert.Equal(t, []string{"r2", "r1", "r3"}, ids(m.Table().Items()))

	// Clicking the header goes through the table and back to the service.
	m = send(t, m, tea.MouseMsg{X: 3, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, domain.SortByName, m.Query().Field)
	assert.Equal(t, []string{"r2", "r3", "r1"}, ids(m.Table().Items()))
}

func TestModel_LocalSortDoesNotRequery(t *testing.T) {
	cfg := config.DefaultConfig().Table
	cfg.SortMode = config.ModeLocal
	m, _ := newTestModel(t, cfg)
	m = send(t, m, m.Init()())

	m = send(t, m, table.SortChangedMsg{ColumnID: "priority", Order: table.Asc})
	assert.Empty(t, m.Query().Field)
	assert.Equal(t, []string{"r1", "r2", "r3"}, ids(m.Table().Items()), "items stay in service order")
}

func TestModel_ExternalSearch(t *testing.T) {
	m, _ := newTestModel(t, config.DefaultConfig().Table)
	m = send(t, m, m.Init()())

	m = send(t, m, table.SearchMsg{Query: "billing"})
	assert.Equal(t, []string{"r3"}, ids(m.Table().Items()))

	m = send(t, m, table.SearchCanceledMsg{})
	assert.Len(t, m.Table().Items(), 3)
}

func TestModel_ArchiveAction(t *testing.T) {
	m, svc := newTestModel(t, config.DefaultConfig().Table)
	m = send(t, m, m.Init()())

	m = send(t, m, table.ActionMsg[domain.Record]{ActionID: ActionArchive, Key: "r1", Row: testRecords()[0]})

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.True(t, all[0].Archived())
	assert.Contains(t, ansi.Strip(m.View()), "Archived Rotate backups")
}

func TestModel_DeleteAskForConfirmation(t *testing.T) {
	m, svc := newTestModel(t, config.DefaultConfig().Table)
	m = send(t, m, m.Init()())

	m = send(t, m, table.ActionMsg[domain.Record]{ActionID: ActionDelete, Key: "r2", Row: testRecords()[1]})
	assert.Contains(t, ansi.Strip(m.View()), "Delete record?")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	n, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n, "declined delete keeps the record")

	m = send(t, m, table.ActionMsg[domain.Record]{ActionID: ActionDelete, Key: "r2", Row: testRecords()[1]})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	n, err = svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NotContains(t, ids(m.Table().Items()), "r2")
	assert.Contains(t, ansi.Strip(m.View()), "Deleted Audit dns")
}

func TestModel_DeleteShrinksLastPage(t *testing.T) {
	cfg := config.DefaultConfig().Table
	cfg.RowsPerPage = 5
	m, svc := newTestModel(t, cfg)
	_, err := svc.Import(context.Background(), []domain.Record{
		{ID: "r4", Name: "four"}, {ID: "r5", Name: "five"}, {ID: "r6", Name: "six"},
	})
	require.NoError(t, err)
	m = send(t, m, m.Init()())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	require.Equal(t, 1, m.Table().Page())

	last := m.Table().VisibleRows()[0]
	m = send(t, m, table.ActionMsg[domain.Record]{ActionID: ActionDelete, Key: last.ID, Row: last})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	assert.Equal(t, 0, m.Table().Page(), "page clamps when its only row is deleted")
}

func TestModel_StaleLoadsAreDropped(t *testing.T) {
	m, _ := newTestModel(t, config.DefaultConfig().Table)
	m = send(t, m, m.Init()())

	updated, _ := m.Update(table.SortChangedMsg{ColumnID: "name", Order: table.Asc})
	m = updated.(Model)
	updated, _ = m.Update(RecordsLoadedMsg{Records: nil, Seq: 0})
	m = updated.(Model)
	assert.Len(t, m.Table().Items(), 3)
}

func TestModel_QuitKey(t *testing.T) {
	m, _ := newTestModel(t, config.DefaultConfig().Table)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_ErrorsShowInStatus(t *testing.T) {
	m, _ := newTestModel(t, config.DefaultConfig().Table)
	m = send(t, m, ErrMsg{Err: domain.ErrRecordNotFound, Context: "archiving record"})
	assert.Contains(t, ansi.Strip(m.View()), "archiving record: record not found")
}

func TestSnapshot(t *testing.T) {
	cfg := config.DefaultConfig().Table
	out := ansi.Strip(Snapshot(testRecords(), cfg, 0, 0, log.NullLogger()))

	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "Rotate backups")
	assert.Contains(t, out, "P2")
	assert.Contains(t, out, "2024-02-01 09:30")
	assert.Contains(t, out, "1–3 of 3")
	assert.NotContains(t, out, "weekly", "detail columns stay collapsed")
	assert.NotContains(t, out, "quit")

	narrow := Snapshot(testRecords(), cfg, 30, 0, log.NullLogger())
	for _, line := range strings.Split(narrow, "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(line), 30)
	}
}

func TestSnapshot_ClampsPage(t *testing.T) {
	cfg := config.DefaultConfig().Table
	cfg.RowsPerPage = 5
	out := ansi.Strip(Snapshot(testRecords(), cfg, 0, 9, log.NullLogger()))
	assert.Contains(t, out, "1–3 of 3")
}

func TestModel_ExternalPagingLoadsOnePage(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig().Table
	cfg.Pagination = config.ModeExternal
	cfg.RowsPerPage = 5
	m, svc := newTestModel(t, cfg)
	_, err := svc.Import(ctx, []domain.Record{
		{ID: "r4", Name: "four"}, {ID: "r5", Name: "five"}, {ID: "r6", Name: "six"}, {ID: "r7", Name: "seven"},
	})
	require.NoError(t, err)

	m = send(t, m, m.Init()())
	assert.Len(t, m.Table().Items(), 5)
	assert.Equal(t, 7, m.Table().Total())
	assert.Equal(t, 5, m.Query().Limit)
	view := ansi.Strip(m.View())
	assert.Contains(t, view, "7 records")
	assert.Contains(t, view, "1–5 of 7")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.Equal(t, 1, m.Table().Page())
	assert.Equal(t, 5, m.Query().Offset)
	assert.Len(t, m.Table().Items(), 2)
	assert.Contains(t, ansi.Strip(m.View()), "6–7 of 7")

	// Emptying the last page moves back and fetches the page now shown.
	for _, r := range m.Table().Items() {
		require.NoError(t, svc.Delete(ctx, r.ID))
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Equal(t, 0, m.Table().Page())
	assert.Equal(t, 0, m.Query().Offset)
	assert.Len(t, m.Table().Items(), 5)
	assert.Equal(t, 5, m.Table().Total())
}

func TestModel_ResizeKeepsHeaderOnScreen(t *testing.T) {
	ctx := context.Background()
	m, svc := newTestModel(t, config.DefaultConfig().Table)
	_, err := svc.Import(ctx, loader.SampleRecords(40, created))
	require.NoError(t, err)

	m = send(t, m, m.Init()())
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 10})

	lines := strings.Split(ansi.Strip(m.View()), "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, lines[0], "43 records")
	assert.Contains(t, lines[1], "Name")

	// The header sits right under the title, where a click lands.
	m = send(t, m, tea.MouseMsg{X: 3, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, domain.SortByName, m.Query().Field)
}
