package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrRecordNotFound indicates the requested record does not exist
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidRecord indicates a record failed validation
	ErrInvalidRecord = errors.New("invalid record")

	// ErrUnknownSortField indicates a sort was requested on a field the service cannot order by
	ErrUnknownSortField = errors.New("unknown sort field")

	// ErrInvalidQuery indicates a negative query offset or limit
	ErrInvalidQuery = errors.New("invalid query")
)
