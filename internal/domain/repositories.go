package domain

import "context"

// RecordRepository persists records.
// Implementations must be safe for concurrent use.
type RecordRepository interface {
	// List returns every record ordered by ID.
	List(ctx context.Context) ([]Record, error)

	// Get returns one record or ErrRecordNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// Save inserts or replaces records.
	Save(ctx context.Context, records ...Record) error

	// Delete removes a record or returns ErrRecordNotFound.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Clear removes every record.
	Clear(ctx context.Context) error

	Close() error
}
