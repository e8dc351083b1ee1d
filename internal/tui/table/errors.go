package table

import "errors"

var (
	// ErrInvalidPageSize indicates a rows-per-page value that is not positive.
	ErrInvalidPageSize = errors.New("rows per page must be positive")

	// ErrDuplicateColumn indicates two columns share an ID.
	ErrDuplicateColumn = errors.New("duplicate column id")

	// ErrEmptyColumnID indicates a column without an ID.
	ErrEmptyColumnID = errors.New("empty column id")

	// ErrUnknownAction indicates an action ID that is not configured.
	ErrUnknownAction = errors.New("unknown action")

	// ErrMenuClosed indicates an action was chosen with no menu open.
	ErrMenuClosed = errors.New("action menu is not open")

	// ErrUnknownRow indicates a row key that is not in the current items.
	ErrUnknownRow = errors.New("unknown row")
)
