// Package vault resolves note file paths inside an Obsidian vault.
// It owns the on-disk layout conventions (daily notes, email notes) so
// the export engine only ever sees concrete file paths.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

// Vault points at an Obsidian vault root directory.
type Vault struct {
	root string
}

// New creates a Vault for the given root. A leading "~" is expanded to
// the user home directory. Fails with domain.ErrVaultNotConfigured when
// root is empty.
func New(root string) (*Vault, error) {
	if root == "" {
		return nil, domain.ErrVaultNotConfigured
	}

	if root == "~" || strings.HasPrefix(root, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		root = filepath.Join(home, strings.TrimPrefix(root, "~"))
	}

	return &Vault{root: root}, nil
}

// Root returns the resolved vault root.
func (v *Vault) Root() string {
	return v.root
}

// DailyNotePath returns the daily note path for a date:
// <root>/daily/YYYY/YYYY-MM/YYYY-MM-DD.md.
func (v *Vault) DailyNotePath(date time.Time) string {
	return filepath.Join(
		v.root,
		"daily",
		date.Format("2006"),
		date.Format("2006-01"),
		date.Format("2006-01-02")+".md",
	)
}

// EmailNotePath returns the note path for an exported mail thread. Each
// thread gets its own folder so attachments can live next to the note:
// <root>/emails/<name>/<name>.md.
func (v *Vault) EmailNotePath(name string) string {
	return filepath.Join(v.root, "emails", name, name+".md")
}

// ReadNote reads a note file. A missing note is not an error: it returns
// empty content and exists=false, which is how a first export run sees
// the world.
func (v *Vault) ReadNote(path string) (content string, exists bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read note %s: %w", path, err)
	}
	return string(data), true, nil
}

// WriteNote writes note content atomically. The content goes to a temp
// file in the target directory and is renamed over the note, so a crash
// mid-write never leaves a truncated note behind.
func (v *Vault) WriteNote(path, content string) error {
	return v.WriteFile(path, []byte(content))
}

// WriteFile writes arbitrary bytes (e.g. a downloaded attachment) with
// the same atomic temp-and-rename strategy as WriteNote.
func (v *Vault) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrWriteFailed, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrWriteFailed, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", domain.ErrWriteFailed, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close temp file: %v", domain.ErrWriteFailed, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: chmod temp file: %v", domain.ErrWriteFailed, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", domain.ErrWriteFailed, path, err)
	}
	return nil
}

// Slug converts text into a filesystem-safe lowercase slug, used for
// email note folder names.
func Slug(text string) string {
	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
