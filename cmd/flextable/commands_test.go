package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv writes a config that keeps logs off and the store in a temp dir.
func testEnv(t *testing.T, extra string) (configPath, storePath string) {
	t.Helper()
	dir := t.TempDir()
	configPath = filepath.Join(dir, "config.yaml")
	storePath = filepath.Join(dir, "records.db")
	content := "logging:\n  file: \"\"\n" + extra
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return configPath, storePath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return ansi.Strip(out.String()), err
}

func TestImportThenPrint(t *testing.T) {
	cfgPath, storePath := testEnv(t, "table:\n  initial_sort: priority\n  initial_order: asc\n")
	fixture := filepath.Join(t.TempDir(), "records.yaml")
	require.NoError(t, os.WriteFile(fixture, []byte(`
- id: a
  name: Low priority
  owner: ops
  priority: 3
  created_at: 2024-01-02
- id: b
  name: Urgent fix
  owner: web
  priority: 0
  created_at: 2024-01-03
`), 0o644))

	out, err := execute(t, "--config", cfgPath, "--store", storePath, "import", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 records")

	out, err = execute(t, "--config", cfgPath, "--store", storePath, "print")
	require.NoError(t, err)
	assert.Contains(t, out, "Priority ▲")
	assert.Less(t, bytes.Index([]byte(out), []byte("Urgent fix")), bytes.Index([]byte(out), []byte("Low priority")))
	assert.Contains(t, out, "1–2 of 2")

	out, err = execute(t, "--config", cfgPath, "--store", storePath, "print", "--search", "urgent")
	require.NoError(t, err)
	assert.Contains(t, out, "Urgent fix")
	assert.NotContains(t, out, "Low priority")
}

func TestSeedAndPage(t *testing.T) {
	cfgPath, storePath := testEnv(t, "table:\n  rows_per_page: 5\n")

	out, err := execute(t, "--config", cfgPath, "--store", storePath, "seed", "--count", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 12 records")

	out, err = execute(t, "--config", cfgPath, "--store", storePath, "print", "--page", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "11–12 of 12")

	_, err = execute(t, "--config", cfgPath, "--store", storePath, "seed", "--count", "0")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	cfgPath, storePath := testEnv(t, "")
	_, err := execute(t, "--config", cfgPath, "--store", storePath, "seed", "--count", "2")
	require.NoError(t, err)

	out, err := execute(t, "--config", cfgPath, "--store", storePath, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "name:")
	assert.Contains(t, out, "created_at:")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration saved")
	assert.FileExists(t, path)

	_, err = execute(t, "--config", path, "config", "init")
	assert.ErrorContains(t, err, "already exists")
}

func TestImportMissingFile(t *testing.T) {
	cfgPath, storePath := testEnv(t, "")
	_, err := execute(t, "--config", cfgPath, "--store", storePath, "import", "does-not-exist.yaml")
	assert.Error(t, err)
}

func TestImportReplace(t *testing.T) {
	cfgPath, storePath := testEnv(t, "")
	_, err := execute(t, "--config", cfgPath, "--store", storePath, "seed", "--count", "3")
	require.NoError(t, err)

	fixture := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(fixture, []byte(`[{"id": "only", "name": "Sole survivor", "created_at": "2024-01-02"}]`), 0o644))

	out, err := execute(t, "--config", cfgPath, "--store", storePath, "import", "--replace", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 records")

	out, err = execute(t, "--config", cfgPath, "--store", storePath, "print")
	require.NoError(t, err)
	assert.Contains(t, out, "Sole survivor")
	assert.Contains(t, out, "1–1 of 1")
}

func TestPrintWithExternalPagination(t *testing.T) {
	cfgPath, storePath := testEnv(t, "table:\n  rows_per_page: 5\n  pagination: external\n")
	_, err := execute(t, "--config", cfgPath, "--store", storePath, "seed", "--count", "12")
	require.NoError(t, err)

	// print hands the whole result to the table, so it pages locally.
	out, err := execute(t, "--config", cfgPath, "--store", storePath, "print", "--page", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "11–12 of 12")
}
