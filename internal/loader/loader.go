// Package loader decodes record fixtures and generates sample data.
package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/flextable/internal/domain"
	"gopkg.in/yaml.v3"
)

// fixture is the on-disk shape of one record. Timestamps are kept as text
// so JSON strings and YAML timestamps decode the same way.
type fixture struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Owner     string   `yaml:"owner"`
	Status    string   `yaml:"status"`
	Priority  int      `yaml:"priority"`
	CreatedAt string   `yaml:"created_at"`
	Notes     string   `yaml:"notes"`
	Tags      []string `yaml:"tags"`
}

type document struct {
	Records []fixture `yaml:"records"`
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// Decode reads records from YAML or JSON. The input is either a list of
// records or a mapping with a "records" list.
func Decode(r io.Reader) ([]domain.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	var fixtures []fixture
	switch top := root.Content[0]; top.Kind {
	case yaml.SequenceNode:
		err = top.Decode(&fixtures)
	case yaml.MappingNode:
		var doc document
		err = top.Decode(&doc)
		fixtures = doc.Records
	default:
		return nil, fmt.Errorf("fixture must be a list or a mapping with records: %w", domain.ErrInvalidRecord)
	}
	if err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	records := make([]domain.Record, 0, len(fixtures))
	for i, f := range fixtures {
		rec, err := f.record()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// DecodeFile reads records from path.
func DecodeFile(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func (f fixture) record() (domain.Record, error) {
	status, err := domain.ParseStatus(f.Status)
	if err != nil {
		return domain.Record{}, err
	}

	var created time.Time
	if s := strings.TrimSpace(f.CreatedAt); s != "" {
		created, err = parseTime(s)
		if err != nil {
			return domain.Record{}, err
		}
	}

	return domain.Record{
		ID:        strings.TrimSpace(f.ID),
		Name:      strings.TrimSpace(f.Name),
		Owner:     strings.TrimSpace(f.Owner),
		Status:    status,
		Priority:  f.Priority,
		CreatedAt: created,
		Notes:     f.Notes,
		Tags:      f.Tags,
	}, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("created_at %q: %w", s, domain.ErrInvalidRecord)
}

// Encode writes records as a YAML list.
func Encode(w io.Writer, records []domain.Record) error {
	out := make([]fixture, len(records))
	for i, r := range records {
		out[i] = fixture{
			ID:        r.ID,
			Name:      r.Name,
			Owner:     r.Owner,
			Status:    string(r.Status),
			Priority:  r.Priority,
			CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
			Notes:     r.Notes,
			Tags:      r.Tags,
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}
