package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmcdole/flextable/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id, name string) domain.Record {
	return domain.Record{
		ID:        id,
		Name:      name,
		Owner:     "ops",
		Status:    domain.StatusActive,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Tags:      []string{"a", "b"},
	}
}

func TestRecordStore_MemoryOnly(t *testing.T) {
	ctx := context.Background()
	s, err := NewRecordStore("")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(ctx, record("b", "beta"), record("a", "alpha")))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID, "listed in ID order")
	assert.Equal(t, "b", got[1].ID)

	r, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "beta", r.Name)

	_, err = s.Get(ctx, "zz")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	require.NoError(t, s.Delete(ctx, "a"))
	assert.ErrorIs(t, s.Delete(ctx, "a"), domain.ErrRecordNotFound)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecordStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "records.db")

	s, err := NewRecordStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, record("a", "alpha"), record("b", "beta"), record("c", "gamma")))
	require.NoError(t, s.Delete(ctx, "b"))
	require.NoError(t, s.Close())

	s, err = NewRecordStore(path)
	require.NoError(t, err)
	defer s.Close()

	r, err := s.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "gamma", r.Name)
	assert.Equal(t, []string{"a", "b"}, r.Tags)
	assert.True(t, r.CreatedAt.Equal(record("c", "").CreatedAt))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestRecordStore_SaveRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s, err := NewRecordStore("")
	require.NoError(t, err)

	err = s.Save(ctx, record("a", "alpha"), domain.Record{ID: "b"})
	require.ErrorIs(t, err, domain.ErrInvalidRecord)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "a rejected batch stores nothing")
}

func TestRecordStore_Clear(t *testing.T) {
	ctx := context.Background()
	s, err := NewRecordStore(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(ctx, record("a", "alpha"), record("b", "beta")))
	require.NoError(t, s.Clear(ctx))

	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.Save(ctx, record("c", "gamma")))
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecordStore_CanceledContext(t *testing.T) {
	s, err := NewRecordStore("")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Save(ctx, record("a", "alpha")), context.Canceled)
	assert.ErrorIs(t, s.Clear(ctx), context.Canceled)
}
