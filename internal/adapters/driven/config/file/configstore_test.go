package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyVaultRoot, "~/vault"))
	require.NoError(t, store.Set("export.include_completed", true))

	assert.Equal(t, "~/vault", store.GetString(KeyVaultRoot))
	assert.True(t, store.GetBool("export.include_completed"))

	_, ok := store.Get("missing.key")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("missing.key"))
	assert.False(t, store.GetBool(KeyVaultRoot))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyCalendarID, "primary"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "primary", reopened.GetString(KeyCalendarID))
}

func TestConfigStore_FlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := "[vault]\nroot = \"/notes\"\n\n[auth]\nclient_id = \"abc\"\nscopes = [\"a\", \"b\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "/notes", store.GetString(KeyVaultRoot))
	assert.Equal(t, "abc", store.GetString(KeyClientID))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("auth.scopes"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyClientSecret, "hunter2"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
