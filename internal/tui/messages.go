package tui

import (
	"github.com/mmcdole/flextable/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// RecordsLoadedMsg signals that a record query has completed
type RecordsLoadedMsg struct {
	Records []domain.Record
	Total   int
	Seq     int // matches the request that produced it
}

// RecordArchivedMsg signals that a record was archived
type RecordArchivedMsg struct {
	Record domain.Record
}

// RecordDeletedMsg signals that a record was deleted
type RecordDeletedMsg struct {
	ID   string
	Name string
}

// StatusMsg sets a transient status line
type StatusMsg struct {
	Text string
}

// ClearStatusMsg clears the status line if it still shows the given generation
type ClearStatusMsg struct {
	Gen int
}
