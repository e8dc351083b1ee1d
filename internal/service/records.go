package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/flextable/internal/domain"
)

// Query selects and orders records. An empty Field keeps ID order. A
// positive Limit returns at most Limit records starting at Offset.
type Query struct {
	Field  domain.SortField
	Desc   bool
	Search string
	Offset int
	Limit  int
}

// Result is one window of a query. Total counts every match.
type Result struct {
	Records []domain.Record
	Total   int
}

// RecordService is the sort and search authority for the record table.
type RecordService struct {
	repo   domain.RecordRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewRecordService creates a new record service
func NewRecordService(repo domain.RecordRepository, logger *slog.Logger) *RecordService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordService{repo: repo, logger: logger, now: time.Now}
}

// List returns every record in ID order.
func (s *RecordService) List(ctx context.Context) ([]domain.Record, error) {
	return s.repo.List(ctx)
}

// Query returns the records matching q.Search, ordered by q.Field. With a
// search and no field, results are ranked by match quality.
func (s *RecordService) Query(ctx context.Context, q Query) (Result, error) {
	if q.Field != "" && !slices.Contains(domain.SortFields(), q.Field) {
		return Result{}, fmt.Errorf("%q: %w", q.Field, domain.ErrUnknownSortField)
	}
	if q.Offset < 0 || q.Limit < 0 {
		return Result{}, fmt.Errorf("offset %d, limit %d: %w", q.Offset, q.Limit, domain.ErrInvalidQuery)
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list records: %w", err)
	}

	if q.Search != "" {
		records = search(records, q.Search)
		s.logger.Debug("record search", "query", q.Search, "matches", len(records))
	}
	if q.Field != "" {
		sortRecords(records, q.Field, q.Desc)
	}

	res := Result{Records: records, Total: len(records)}
	if q.Limit > 0 {
		start := min(q.Offset, len(records))
		res.Records = records[start:min(start+q.Limit, len(records))]
	}
	return res, nil
}

// Archive marks a record archived and returns the updated record.
func (s *RecordService) Archive(ctx context.Context, id string) (domain.Record, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Record{}, err
	}
	r.Status = domain.StatusArchived
	if err := s.repo.Save(ctx, r); err != nil {
		return domain.Record{}, fmt.Errorf("archive %s: %w", id, err)
	}
	s.logger.Info("record archived", "id", id)
	return r, nil
}

// Delete removes a record.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("record deleted", "id", id)
	return nil
}

// Import fills in missing ids, statuses and timestamps and saves records.
// It returns the number saved.
func (s *RecordService) Import(ctx context.Context, records []domain.Record) (int, error) {
	if err := s.prepare(records); err != nil {
		return 0, err
	}
	if err := s.repo.Save(ctx, records...); err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	s.logger.Info("records imported", "count", len(records))
	return len(records), nil
}

// Replace is Import into an emptied store. Records are validated before
// anything is removed.
func (s *RecordService) Replace(ctx context.Context, records []domain.Record) (int, error) {
	if err := s.prepare(records); err != nil {
		return 0, err
	}
	if err := s.repo.Clear(ctx); err != nil {
		return 0, fmt.Errorf("clear records: %w", err)
	}
	if err := s.repo.Save(ctx, records...); err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	s.logger.Info("records replaced", "count", len(records))
	return len(records), nil
}

func (s *RecordService) prepare(records []domain.Record) error {
	now := s.now().UTC()
	for i := range records {
		r := &records[i]
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.Status == "" {
			r.Status = domain.StatusActive
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		if err := r.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// Count returns the number of stored records.
func (s *RecordService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func sortRecords(records []domain.Record, field domain.SortField, desc bool) {
	slices.SortStableFunc(records, func(a, b domain.Record) int {
		c := compareField(a, b, field)
		if desc {
			c = -c
		}
		if c == 0 {
			return cmp.Compare(a.ID, b.ID)
		}
		return c
	})
}

func compareField(a, b domain.Record, field domain.SortField) int {
	switch field {
	case domain.SortByName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case domain.SortByOwner:
		return strings.Compare(strings.ToLower(a.Owner), strings.ToLower(b.Owner))
	case domain.SortByStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case domain.SortByPriority:
		return cmp.Compare(a.Priority, b.Priority)
	case domain.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	return 0
}
