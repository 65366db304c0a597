package export

import (
	"regexp"
	"strings"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

// managedLineRe matches an exporter-owned checkbox line: checkbox marker
// (mark case-insensitive), item-key anchor, rendered text. Checkbox
// lines without an anchor are user-owned and stay unmanaged.
var managedLineRe = regexp.MustCompile(`^- \[( |x|X)\] <!--id:([^>]+)--> ?(.*)$`)

// Parse reads raw note text into a NoteDocument. Parsing is total: it
// never fails, whatever the input. Unrecognised lines land in unmanaged
// blocks, in place, and are preserved byte-for-byte on write-back.
//
// A managed section starts at a heading line from the section set and
// runs until the next Markdown heading of any level. A repeated heading
// for an identity already seen is left unmanaged so the first section
// stays authoritative.
func Parse(raw string, set SectionSet) *domain.NoteDocument {
	doc := &domain.NoteDocument{}
	if raw == "" {
		return doc
	}

	lines := strings.Split(raw, "\n")
	seen := make(map[domain.BucketIdentity]bool)

	var pending []string // unmanaged lines not yet flushed into a block
	flush := func() {
		if len(pending) > 0 {
			doc.AppendUnmanaged(pending...)
			pending = nil
		}
	}

	i := 0
	for i < len(lines) {
		line := lines[i]

		id, ok := set.Identify(strings.TrimSpace(line))
		if !ok || seen[id] {
			pending = append(pending, line)
			i++
			continue
		}
		seen[id] = true
		flush()

		section := &domain.Section{Identity: id, Heading: line}
		i++
		for i < len(lines) && !isHeading(lines[i]) {
			if m := managedLineRe.FindStringSubmatch(lines[i]); m != nil {
				section.Lines = append(section.Lines, domain.ManagedLine{
					ItemKey: m[2],
					Checked: strings.EqualFold(m[1], "x"),
					Text:    m[3],
				})
			} else {
				section.Unmanaged = append(section.Unmanaged, lines[i])
			}
			i++
		}
		doc.AppendSection(section)
	}
	flush()

	return doc
}

// isHeading reports whether the line is a Markdown ATX heading. Any
// heading terminates the current managed section body.
func isHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return false
	}
	rest := strings.TrimLeft(trimmed, "#")
	return strings.HasPrefix(rest, " ") || rest == ""
}
