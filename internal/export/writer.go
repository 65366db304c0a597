package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

// Serialize renders a note document back to text. Unmanaged blocks are
// emitted verbatim; managed lines are emitted in canonical form with the
// item-key anchor between the checkbox and the rendered text:
//
//	- [x] <!--id:KEY--> rendered text
//
// Serialisation is the exact inverse of Parse for canonical documents,
// which is what makes repeated exports byte-stable.
func Serialize(doc *domain.NoteDocument) string {
	var lines []string
	for _, block := range doc.Blocks {
		if block.Kind == domain.BlockUnmanaged {
			lines = append(lines, block.Raw...)
			continue
		}
		section := block.Section
		lines = append(lines, section.Heading)
		for _, line := range section.Lines {
			lines = append(lines, formatManagedLine(line))
		}
		lines = append(lines, section.Unmanaged...)
	}
	return strings.Join(lines, "\n")
}

func formatManagedLine(line domain.ManagedLine) string {
	mark := " "
	if line.Checked {
		mark = "x"
	}
	return fmt.Sprintf("- [%s] <!--id:%s--> %s", mark, line.ItemKey, line.Text)
}

// Commit writes the document to path atomically: the content goes to a
// temporary file in the target directory which is renamed over the note
// on success and removed on failure. A crash mid-write therefore never
// leaves a truncated note; the previous committed state survives any
// error. Failures are wrapped in domain.ErrWriteFailed.
func Commit(path string, doc *domain.NoteDocument) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrWriteFailed, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrWriteFailed, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.WriteString(Serialize(doc)); err != nil {
		cleanup()
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
