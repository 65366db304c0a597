package export

import (
	"strings"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

const notesExcerptLimit = 80

// Render converts a bucket's records into canonical managed lines. The
// result is deterministic for identical bucket content, and every line
// is unchecked: checkbox state is user-owned and only ever restored by
// the merge step.
func Render(bucket domain.Bucket) []domain.ManagedLine {
	lines := make([]domain.ManagedLine, 0, len(bucket.Records))
	for _, rec := range bucket.Records {
		lines = append(lines, domain.ManagedLine{
			ItemKey: rec.Key,
			Checked: false,
			Text:    renderText(rec),
		})
	}
	return lines
}

// renderText builds the machine-owned payload of a managed line.
func renderText(rec domain.Record) string {
	title := rec.Title
	if title == "" {
		title = "(No title)"
	}

	var b strings.Builder
	switch {
	case rec.Kind == domain.KindEvent && rec.AllDay:
		b.WriteString("All day: ")
		b.WriteString(title)
	case rec.Kind == domain.KindEvent && rec.Timed():
		b.WriteString(rec.Start.Format("15:04"))
		b.WriteString("-")
		b.WriteString(rec.End.Format("15:04"))
		b.WriteString(" ")
		b.WriteString(title)
	default:
		b.WriteString(title)
	}

	if rec.Kind == domain.KindEvent && rec.Location != "" {
		b.WriteString(" @ ")
		b.WriteString(rec.Location)
	}

	if rec.Kind == domain.KindTask {
		if rec.HasDue() {
			b.WriteString(" (due: ")
			b.WriteString(rec.Due.Format("2006-01-02"))
			b.WriteString(")")
		}
		if excerpt := notesExcerpt(rec.Notes); excerpt != "" {
			b.WriteString(" - ")
			b.WriteString(excerpt)
		}
	}

	return b.String()
}

// notesExcerpt reduces free-form notes to a single-line excerpt so a
// managed line stays one line. Whitespace runs collapse to one space.
func notesExcerpt(notes string) string {
	excerpt := strings.Join(strings.Fields(notes), " ")
	if excerpt == "" {
		return ""
	}
	runes := []rune(excerpt)
	if len(runes) > notesExcerptLimit {
		return string(runes[:notesExcerptLimit]) + "..."
	}
	return excerpt
}
