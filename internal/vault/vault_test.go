package vault

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

func TestNew_EmptyRoot(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, domain.ErrVaultNotConfigured)
}

func TestNew_ExpandsTilde(t *testing.T) {
	v, err := New("~/vault")
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "vault"), v.Root())
}

func TestDailyNotePath(t *testing.T) {
	v, err := New("/vault")
	require.NoError(t, err)

	date := time.Date(2025, 11, 20, 15, 30, 0, 0, time.UTC)
	assert.Equal(t,
		filepath.Join("/vault", "daily", "2025", "2025-11", "2025-11-20.md"),
		v.DailyNotePath(date))
}

func TestEmailNotePath(t *testing.T) {
	v, err := New("/vault")
	require.NoError(t, err)

	assert.Equal(t,
		filepath.Join("/vault", "emails", "2025-11-17-0432-alice-hello", "2025-11-17-0432-alice-hello.md"),
		v.EmailNotePath("2025-11-17-0432-alice-hello"))
}

func TestReadNote(t *testing.T) {
	dir := t.TempDir()
	v, err := New(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "note.md")

	content, exists, err := v.ReadNote(path)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, content)

	require.NoError(t, os.WriteFile(path, []byte("# hello"), 0o644))
	content, exists, err = v.ReadNote(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "# hello", content)
}

func TestWriteNote(t *testing.T) {
	dir := t.TempDir()
	v, err := New(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "emails", "thread", "thread.md")
	require.NoError(t, v.WriteNote(path, "# thread"))

	content, exists, err := v.ReadNote(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "# thread", content)

	// Overwrite replaces the previous content in full.
	require.NoError(t, v.WriteNote(path, "# updated"))
	content, _, err = v.ReadNote(path)
	require.NoError(t, err)
	assert.Equal(t, "# updated", content)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	v, err := New(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "emails", "thread", "invoice.pdf")
	require.NoError(t, v.WriteFile(path, []byte{0x25, 0x50, 0x44, 0x46}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x25, 0x50, 0x44, 0x46}, data)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"alice@example.com", "alice-example-com"},
		{"  Weird -- punctuation!!", "weird-punctuation"},
		{"", ""},
		{"---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}
