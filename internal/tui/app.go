package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/flextable/internal/config"
	"github.com/mmcdole/flextable/internal/domain"
	"github.com/mmcdole/flextable/internal/service"
	"github.com/mmcdole/flextable/internal/tui/components"
	"github.com/mmcdole/flextable/internal/tui/styles"
	"github.com/mmcdole/flextable/internal/tui/table"
)

// chromeHeight is the number of lines around the table: title and status.
const chromeHeight = 2

// Model is the record browser. It owns the record table and acts as its
// sort and search authority, re-querying the service when the table asks.
type Model struct {
	svc    *service.RecordService
	table  *table.Model[domain.Record]
	keys   KeyMap
	logger *slog.Logger

	externalSort   bool
	externalSearch bool
	externalPaging bool
	query          service.Query
	seq            int // last issued load
	loading        bool

	confirm components.ConfirmModal
	pending *domain.Record

	status    string
	statusErr bool
	statusGen int

	width  int
	height int
}

// NewModel creates the browser over svc with the given table configuration.
func NewModel(svc *service.RecordService, cfg config.TableConfig, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	t := table.New(RecordColumns(), TableOptions(cfg, logger)...)
	t.SetOrigin(0, 1)

	m := Model{
		svc:            svc,
		table:          t,
		keys:           DefaultKeyMap(),
		logger:         logger,
		externalSort:   cfg.SortMode != config.ModeLocal,
		externalSearch: cfg.Searchable && cfg.SearchMode != config.ModeLocal,
		externalPaging: cfg.Pagination == config.ModeExternal,
		confirm:        components.NewConfirmModal(),
	}
	if m.externalSort && cfg.InitialSort != "" {
		m.query.Field = domain.SortField(cfg.InitialSort)
		m.query.Desc = table.ParseOrder(cfg.InitialOrder) == table.Desc
	}
	m.window()
	return m
}

// Init loads the first page of records.
func (m Model) Init() tea.Cmd {
	return LoadRecordsCmd(m.svc, m.query, m.seq)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetSize(msg.Width, max(0, msg.Height-chromeHeight))
		return m, nil

	case tea.KeyMsg:
		if m.confirm.IsVisible() {
			return m.updateConfirm(msg)
		}
		if !m.table.Searching() && !m.table.MenuOpen() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Refresh):
				cmd := m.load()
				return m, cmd
			}
		}

	case RecordsLoadedMsg:
		if msg.Seq < m.seq {
			// A newer query is in flight
			return m, nil
		}
		m.loading = false
		var cmd tea.Cmd
		if m.externalPaging {
			cmd = m.table.SetTotal(msg.Total)
		}
		m.table.SetItems(msg.Records)
		m.logger.Debug("records loaded", "count", len(msg.Records), "total", msg.Total, "seq", msg.Seq)
		return m, cmd

	case RecordArchivedMsg:
		cmds := []tea.Cmd{m.setStatus("Archived "+msg.Record.Name, false), m.load()}
		return m, tea.Batch(cmds...)

	case RecordDeletedMsg:
		cmds := []tea.Cmd{m.setStatus("Deleted "+msg.Name, false), m.load()}
		return m, tea.Batch(cmds...)

	case StatusMsg:
		cmd := m.setStatus(msg.Text, false)
		return m, cmd

	case ClearStatusMsg:
		if msg.Gen == m.statusGen {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case ErrMsg:
		m.loading = false
		m.logger.Error(msg.Context, "error", msg.Err)
		cmd := m.setStatus(msg.Error(), true)
		return m, cmd

	case table.SortChangedMsg:
		if !m.externalSort {
			return m, nil
		}
		m.query.Field = domain.SortField(msg.ColumnID)
		m.query.Desc = msg.Order == table.Desc
		cmd := m.load()
		return m, cmd

	case table.SearchMsg:
		if !m.externalSearch {
			return m, nil
		}
		m.query.Search = msg.Query
		cmd := m.load()
		return m, cmd

	case table.SearchCanceledMsg:
		if !m.externalSearch || m.query.Search == "" {
			return m, nil
		}
		m.query.Search = ""
		cmd := m.load()
		return m, cmd

	case table.PageChangedMsg:
		m.logger.Debug("page changed", "page", msg.Page)
		if !m.externalPaging {
			return m, nil
		}
		cmd := m.load()
		return m, cmd

	case table.RowsPerPageChangedMsg:
		m.logger.Debug("rows per page changed", "rows", msg.RowsPerPage)
		if !m.externalPaging {
			return m, nil
		}
		cmd := m.load()
		return m, cmd

	case table.ExpandToggledMsg:
		m.logger.Debug("detail toggled", "id", msg.Key, "expanded", msg.Expanded)
		return m, nil

	case table.ActionMsg[domain.Record]:
		return m.runAction(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var decided, confirmed bool
	m.confirm, decided, confirmed = m.confirm.Update(msg)
	if !decided {
		return m, nil
	}
	r := m.pending
	m.pending = nil
	if !confirmed || r == nil {
		cmd := m.setStatus("Delete canceled", false)
		return m, cmd
	}
	return m, DeleteRecordCmd(m.svc, *r)
}

func (m Model) runAction(msg table.ActionMsg[domain.Record]) (tea.Model, tea.Cmd) {
	switch msg.ActionID {
	case ActionCopyID:
		return m, CopyIDCmd(msg.Row.ID)
	case ActionArchive:
		if msg.Row.Archived() {
			cmd := m.setStatus(msg.Row.Name+" is already archived", false)
			return m, cmd
		}
		return m, ArchiveRecordCmd(m.svc, msg.Row.ID)
	case ActionDelete:
		row := msg.Row
		m.pending = &row
		m.confirm.Show("Delete record?", row.Name)
		return m, nil
	}
	m.logger.Warn("unhandled action", "action", msg.ActionID)
	return m, nil
}

// load re-queries the service. Results from older loads are dropped.
func (m *Model) load() tea.Cmd {
	m.seq++
	m.loading = true
	m.window()
	return LoadRecordsCmd(m.svc, m.query, m.seq)
}

// window points the query at the table's current page when the service
// does the paging.
func (m *Model) window() {
	if !m.externalPaging {
		return
	}
	m.query.Offset = m.table.Page() * m.table.RowsPerPage()
	m.query.Limit = m.table.RowsPerPage()
}

// setStatus shows text on the status line and schedules its removal.
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusGen++
	m.status = text
	m.statusErr = isErr
	return ClearStatusCmd(m.statusGen)
}

// View renders the browser.
func (m Model) View() string {
	title := styles.TitleStyle.Render("flextable") + "  " +
		styles.DimStyle.Render(fmt.Sprintf("%d records", m.table.Total()))
	if m.loading {
		title += "  " + styles.AccentStyle.Render("loading…")
	}

	body := m.table.View()
	if m.confirm.IsVisible() {
		height := max(lipgloss.Height(body), lipgloss.Height(m.confirm.View()))
		width := max(m.width, lipgloss.Width(m.confirm.View()))
		body = lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, m.confirm.View())
	}

	return strings.Join([]string{title, body, m.statusLine()}, "\n")
}

func (m Model) statusLine() string {
	if m.status == "" {
		return styles.DimStyle.Render("q quit · r refresh · ? help")
	}
	if m.statusErr {
		return styles.StatusErrorStyle.Render(m.status)
	}
	return styles.StatusStyle.Render(m.status)
}

// Table exposes the record table.
func (m Model) Table() *table.Model[domain.Record] {
	return m.table
}

// Query returns the query the browser last sent to the service.
func (m Model) Query() service.Query {
	return m.query
}
