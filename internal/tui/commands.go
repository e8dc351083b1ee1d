package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/flextable/internal/domain"
	"github.com/mmcdole/flextable/internal/service"
)

// statusTimeout is how long a status message stays on screen.
var statusTimeout = 4 * time.Second

// Command factories for async operations

// LoadRecordsCmd runs a record query
func LoadRecordsCmd(svc *service.RecordService, q service.Query, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		res, err := svc.Query(ctx, q)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading records"}
		}
		return RecordsLoadedMsg{Records: res.Records, Total: res.Total, Seq: seq}
	}
}

// ArchiveRecordCmd archives a record
func ArchiveRecordCmd(svc *service.RecordService, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		r, err := svc.Archive(ctx, id)
		if err != nil {
			return ErrMsg{Err: err, Context: "archiving record"}
		}
		return RecordArchivedMsg{Record: r}
	}
}

// DeleteRecordCmd deletes a record
func DeleteRecordCmd(svc *service.RecordService, r domain.Record) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := svc.Delete(ctx, r.ID); err != nil {
			return ErrMsg{Err: err, Context: "deleting record"}
		}
		return RecordDeletedMsg{ID: r.ID, Name: r.Name}
	}
}

// CopyIDCmd copies a record id to the system clipboard
func CopyIDCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(id); err != nil {
			return ErrMsg{Err: err, Context: "copying id"}
		}
		return StatusMsg{Text: "Copied " + id}
	}
}

// ClearStatusCmd clears the status line after statusTimeout
func ClearStatusCmd(gen int) tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return ClearStatusMsg{Gen: gen}
	})
}
