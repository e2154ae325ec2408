package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readKeys(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, yaml.Unmarshal(data, &out))
	return out
}

func TestSaveLocale_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveLocale(path, "es-ES"))
	require.Equal(t, "es-ES", readKeys(t, path)["locale"])
}

func TestSaveLocale_ReplacesAndPreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveLocale(path, "es-ES"))

	keys := readKeys(t, path)
	require.Equal(t, "es-ES", keys["locale"])
	require.Contains(t, keys, "ui")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# UI settings")
}

func TestSaveScalar_AppendsMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locale: en-US\n"), 0o600))

	require.NoError(t, SaveScalar(path, "policy", "/tmp/p.yaml"))

	keys := readKeys(t, path)
	require.Equal(t, "en-US", keys["locale"])
	require.Equal(t, "/tmp/p.yaml", keys["policy"])
}

func TestSaveScalar_RejectsNonMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))

	err := SaveScalar(path, "locale", "es-ES")
	require.Error(t, err)
}

func TestSaveScalar_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locale: [\n"), 0o600))

	err := SaveScalar(path, "locale", "es-ES")
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing config")
}
