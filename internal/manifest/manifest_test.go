package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "link.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadParsesModulesInOrder(t *testing.T) {
	path := writeManifest(t, `
modules:
  - path: prelude.tripc
  - path: list.tripc
    as: List
main: List.main
`)
	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"prelude.tripc", "list.tripc"}, m.Paths())
	assert.Equal(t, "List.main", m.Main)

	alias, ok := m.Alias("list.tripc")
	require.True(t, ok)
	assert.Equal(t, "List", alias)

	_, ok = m.Alias("prelude.tripc")
	assert.False(t, ok)
}

func TestLoadRejectsEmptyModuleList(t *testing.T) {
	path := writeManifest(t, "modules: []\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no modules")
}

func TestLoadRejectsMissingPath(t *testing.T) {
	path := writeManifest(t, "modules:\n  - as: Foo\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing path")
}

func TestLoadRejectsDuplicateAlias(t *testing.T) {
	path := writeManifest(t, `
modules:
  - path: a.tripc
    as: Shared
  - path: b.tripc
    as: Shared
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate alias")
}

func TestLoadSurfacesReadError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
