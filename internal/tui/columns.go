package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/flextable/internal/config"
	"github.com/mmcdole/flextable/internal/domain"
	"github.com/mmcdole/flextable/internal/tui/styles"
	"github.com/mmcdole/flextable/internal/tui/table"
)

// Action IDs for the record menu
const (
	ActionCopyID  = "copy"
	ActionArchive = "archive"
	ActionDelete  = "delete"
)

const createdLayout = "2006-01-02 15:04"

// RecordColumns returns the record table layout. Main column IDs match
// domain.SortField so sort requests can be passed to the service unchanged.
func RecordColumns() []table.Column[domain.Record] {
	return []table.Column[domain.Record]{
		{
			ID:         string(domain.SortByName),
			Label:      "Name",
			Value:      func(r domain.Record) any { return r.Name },
			Searchable: true,
		},
		{
			ID:         string(domain.SortByOwner),
			Label:      "Owner",
			Value:      func(r domain.Record) any { return r.Owner },
			Searchable: true,
		},
		{
			ID:     string(domain.SortByStatus),
			Label:  "Status",
			Value:  func(r domain.Record) any { return string(r.Status) },
			Render: renderStatus,
		},
		{
			ID:     string(domain.SortByPriority),
			Label:  "Priority",
			Value:  func(r domain.Record) any { return r.Priority },
			Render: func(v any, _ domain.Record) string { return fmt.Sprintf("P%d", v) },
		},
		{
			ID:    string(domain.SortByCreatedAt),
			Label: "Created",
			Value: func(r domain.Record) any { return r.CreatedAt },
			Render: func(v any, _ domain.Record) string {
				t := v.(time.Time)
				if t.IsZero() {
					return "-"
				}
				return t.UTC().Format(createdLayout)
			},
		},
		{
			ID:             "notes",
			Label:          "Notes",
			Value:          func(r domain.Record) any { return r.Notes },
			ShowOnCollapse: true,
			Searchable:     true,
		},
		{
			ID:             "tags",
			Label:          "Tags",
			Value:          func(r domain.Record) any { return r.TagList() },
			ShowOnCollapse: true,
			Searchable:     true,
		},
		{
			ID:             "id",
			Label:          "ID",
			Value:          func(r domain.Record) any { return r.ID },
			ShowOnCollapse: true,
		},
	}
}

func renderStatus(v any, _ domain.Record) string {
	s := domain.Status(v.(string))
	switch s {
	case domain.StatusActive:
		return styles.SuccessStyle.Render(string(s))
	case domain.StatusPaused:
		return styles.AccentStyle.Render(string(s))
	}
	return styles.DimStyle.Render(string(s))
}

// RecordActions returns the per-row action menu.
func RecordActions() []table.Action[domain.Record] {
	return []table.Action[domain.Record]{
		{
			ID:    ActionCopyID,
			Label: "Copy ID",
			Render: func(r domain.Record) string {
				return "Copy ID " + shortID(r.ID)
			},
		},
		{
			ID:    ActionArchive,
			Label: "Archive",
			Render: func(r domain.Record) string {
				if r.Archived() {
					return "Archive (already archived)"
				}
				return "Archive " + r.Name
			},
		},
		{
			ID:    ActionDelete,
			Label: "Delete",
			Render: func(r domain.Record) string {
				return "Delete " + r.Name + "…"
			},
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// TableOptions translates configuration into table options.
func TableOptions(cfg config.TableConfig, logger *slog.Logger) []table.Option[domain.Record] {
	opts := []table.Option[domain.Record]{
		table.WithRowKey(func(r domain.Record) string { return r.ID }),
		table.WithActions(RecordActions()...),
		table.WithCollapsible[domain.Record](cfg.Collapsible),
		table.WithPageSizes[domain.Record](cfg.PageSizes...),
		table.WithRowsPerPage[domain.Record](cfg.RowsPerPage),
		table.WithSortMode[domain.Record](mode(cfg.SortMode)),
		table.WithPagination[domain.Record](mode(cfg.Pagination)),
		table.WithLogger[domain.Record](logger),
	}
	if cfg.InitialSort != "" {
		opts = append(opts, table.WithInitialSort[domain.Record](cfg.InitialSort, table.ParseOrder(cfg.InitialOrder)))
	}
	if cfg.Expansion == config.ExpansionShared {
		opts = append(opts, table.WithExpansion[domain.Record](table.ExpandShared))
	}
	if cfg.Searchable {
		opts = append(opts, table.WithSearch[domain.Record](mode(cfg.SearchMode)))
	}
	return opts
}

func mode(s string) table.Mode {
	if s == config.ModeLocal {
		return table.Local
	}
	return table.External
}
