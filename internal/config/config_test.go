package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 25, cfg.Table.RowsPerPage)
	assert.Equal(t, []int{5, 10, 25}, cfg.Table.PageSizes)
	assert.Equal(t, "created_at", cfg.Table.InitialSort)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeFile(t, `
table:
  rows_per_page: 10
  page_sizes: [10, 20]
  sort_mode: local
  expansion: shared
  initial_sort: name
  initial_order: asc
store:
  path: ""
logging:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Table.RowsPerPage)
	assert.Equal(t, []int{10, 20}, cfg.Table.PageSizes)
	assert.Equal(t, ModeLocal, cfg.Table.SortMode)
	assert.Equal(t, ExpansionShared, cfg.Table.Expansion)
	assert.Equal(t, "name", cfg.Table.InitialSort)
	assert.Equal(t, "asc", cfg.Table.InitialOrder)
	assert.True(t, cfg.Table.Collapsible, "unset keys keep defaults")
	assert.Empty(t, cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeFile(t, "table:\n  rows_per_page: 10\n")
	t.Setenv("FLEXTABLE_TABLE_ROWS_PER_PAGE", "5")
	t.Setenv("FLEXTABLE_TABLE_SORT_MODE", "local")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Table.RowsPerPage)
	assert.Equal(t, ModeLocal, cfg.Table.SortMode)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeFile(t, `
table:
  rows_per_page: 7
  sort_mode: sideways
`)
	_, err := LoadConfig(path)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "rows_per_page 7")
	assert.Contains(t, err.Error(), "sideways")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Table.PageSizes = []int{0, 25}
	cfg.Table.Expansion = "all"
	cfg.Table.InitialOrder = "up"

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "not positive")
	assert.Contains(t, err.Error(), "expansion")
	assert.Contains(t, err.Error(), "initial_order")
}

func TestValidate_ExternalPagination(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Table.Pagination = ModeExternal
	require.NoError(t, cfg.Validate())

	cfg.Table.SortMode = ModeLocal
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "table.pagination external")

	cfg.Table.SortMode = ModeExternal
	cfg.Table.SearchMode = ModeLocal
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg.Table.Searchable = false
	assert.NoError(t, cfg.Validate(), "search mode is moot without search")

	cfg.Table.Pagination = "server"
	assert.ErrorContains(t, cfg.Validate(), "table.pagination")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "config.yaml")
	cfg := DefaultConfig()
	cfg.Table.RowsPerPage = 10
	cfg.Table.Pagination = ModeExternal
	cfg.Store.Path = ""

	require.NoError(t, SaveConfig(cfg, path))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Table, loaded.Table)
	assert.Empty(t, loaded.Store.Path)
}
