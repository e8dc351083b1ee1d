package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/flextable/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketRecords = []byte("records")
	bucketMeta    = []byte("meta")
)

// schemaVersion is written to the meta bucket on open.
const schemaVersion = "1"

// RecordStore implements domain.RecordRepository using BoltDB.
type RecordStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
	// loaded is set once every record has been promoted into cache
	loaded bool
}

// NewRecordStore opens the store at path. An empty path keeps records in
// memory only.
func NewRecordStore(path string) (*RecordStore, error) {
	if path == "" {
		// Memory-only mode (no persistence)
		return &RecordStore{cache: make(map[string][]byte), loaded: true}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketRecords, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return tx.Bucket(bucketMeta).Put([]byte("schema"), []byte(schemaVersion))
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &RecordStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *RecordStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *RecordStore) get(key string) ([]byte, bool) {
	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return data, true
	}
	loaded := s.loaded
	s.mu.RUnlock()

	if s.db == nil || loaded {
		return nil, false
	}

	// Read from BoltDB
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketRecords).Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return nil, false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return data, true
}

// loadAll promotes every stored record into the memory cache.
func (s *RecordStore) loadAll() error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded || s.db == nil {
		return nil
	}

	all := make(map[string][]byte)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRecords).ForEach(func(k, v []byte) error {
			data := make([]byte, len(v))
			copy(data, v)
			all[string(k)] = data
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	s.mu.Lock()
	for k, v := range all {
		if _, ok := s.cache[k]; !ok {
			s.cache[k] = v
		}
	}
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// === Records ===

func (s *RecordStore) List(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.loadAll(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	records := make([]domain.Record, 0, len(s.cache))
	for id, data := range s.cache {
		var r domain.Record
		if err := json.Unmarshal(data, &r); err != nil {
			s.mu.RUnlock()
			return nil, fmt.Errorf("decode record %s: %w", id, err)
		}
		records = append(records, r)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (s *RecordStore) Get(ctx context.Context, id string) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, err
	}
	data, ok := s.get(id)
	if !ok {
		return domain.Record{}, fmt.Errorf("record %s: %w", id, domain.ErrRecordNotFound)
	}
	var r domain.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return domain.Record{}, fmt.Errorf("decode record %s: %w", id, err)
	}
	return r, nil
}

func (s *RecordStore) Save(ctx context.Context, records ...domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded := make(map[string][]byte, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		encoded[r.ID] = data
	}

	if s.db != nil {
		// Write to BoltDB in one transaction
		err := s.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketRecords)
			for id, data := range encoded {
				if err := b.Put([]byte(id), data); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("save records: %w", err)
		}
	}

	// Update memory cache
	s.mu.Lock()
	for id, data := range encoded {
		s.cache[id] = data
	}
	s.mu.Unlock()
	return nil
}

func (s *RecordStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := s.get(id); !ok {
		return fmt.Errorf("record %s: %w", id, domain.ErrRecordNotFound)
	}

	// Clear from memory cache
	s.mu.Lock()
	delete(s.cache, id)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	// Delete from BoltDB
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRecords).Delete([]byte(id))
	})
}

func (s *RecordStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.loadAll(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache), nil
}

// Clear removes every record.
func (s *RecordStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.loaded = true
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketRecords); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketRecords)
		return err
	})
}

var _ domain.RecordRepository = (*RecordStore)(nil)
