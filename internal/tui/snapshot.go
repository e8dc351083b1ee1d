package tui

import (
	"log/slog"

	"github.com/mmcdole/flextable/internal/config"
	"github.com/mmcdole/flextable/internal/domain"
	"github.com/mmcdole/flextable/internal/tui/table"
)

// Snapshot renders one page of records as a static frame, without key
// help. Width 0 leaves lines untruncated; out of range pages are clamped.
// records is the full result, so the table always pages it locally.
func Snapshot(records []domain.Record, cfg config.TableConfig, width, page int, logger *slog.Logger) string {
	opts := append(TableOptions(cfg, logger),
		table.WithItems(records),
		table.WithSize[domain.Record](width, 0),
		table.WithShowHelp[domain.Record](false),
		table.WithPagination[domain.Record](table.Local),
	)
	t := table.New(RecordColumns(), opts...)
	t.Blur()
	t.ChangePage(page)
	return t.View()
}
