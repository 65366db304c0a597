package driven

import "time"

// NoteVault resolves target note paths and reads existing notes. The
// notes themselves are the only persisted state of the exporter; there
// is no index or database behind this port.
type NoteVault interface {
	// DailyNotePath returns the note path for a calendar date.
	DailyNotePath(date time.Time) string

	// EmailNotePath returns the note path for an exported mail thread.
	EmailNotePath(name string) string

	// ReadNote reads a note. A missing note returns empty content and
	// exists=false without error.
	ReadNote(path string) (content string, exists bool, err error)
}
