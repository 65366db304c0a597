package export

import (
	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

// Merge combines freshly rendered buckets with a previously parsed note
// document. Machine-owned fields always win: rendered text and order
// come from the fresh lines. User-owned state survives: the checked flag
// is copied from the old line with the same item key, and unmanaged text
// passes through byte-for-byte in its original position.
//
// Old lines whose key is absent from the fresh render are orphans and
// are dropped. Sections present in the old document but missing from the
// fresh buckets keep their heading with no lines, so the note's skeleton
// is stable across runs. Sections the old document lacks are appended at
// the end in the set's fixed order; for a document with no sections at
// all, every heading of the set is written, buckets or not.
//
// Checked state is looked up per section only: a record whose bucket
// identity changed between runs reappears unchecked in its new section.
// That loss is the documented behaviour of the exporter.
//
// Merge is idempotent: merging its own result with the same fresh
// buckets reproduces it exactly.
func Merge(
	old *domain.NoteDocument,
	fresh map[domain.BucketIdentity]domain.Bucket,
	set SectionSet,
) *domain.NoteDocument {
	merged := &domain.NoteDocument{}
	present := make(map[domain.BucketIdentity]bool)

	for _, block := range old.Blocks {
		if block.Kind != domain.BlockSection {
			merged.AppendUnmanaged(block.Raw...)
			continue
		}

		section := block.Section
		present[section.Identity] = true

		out := &domain.Section{
			Identity:  section.Identity,
			Heading:   section.Heading,
			Unmanaged: section.Unmanaged,
		}
		if bucket, ok := fresh[section.Identity]; ok {
			out.Lines = mergeSection(section.Lines, Render(bucket))
		}
		merged.AppendSection(out)
	}

	// Append sections the old document does not have yet. A fresh
	// document gets the full skeleton.
	empty := len(present) == 0
	for _, id := range set.Order() {
		if present[id] {
			continue
		}
		bucket, ok := fresh[id]
		if !ok && !empty {
			continue
		}
		heading, _ := set.Heading(id)
		section := &domain.Section{
			Identity:  id,
			Heading:   heading,
			Unmanaged: []string{""},
		}
		if ok {
			section.Lines = mergeSection(nil, Render(bucket))
		}
		merged.AppendSection(section)
	}

	return merged
}

// mergeSection merges one section's lines. Fresh order wins; each old
// line may be consumed at most once, and on duplicate old keys the first
// occurrence is authoritative.
func mergeSection(old, fresh []domain.ManagedLine) []domain.ManagedLine {
	prior := make(map[string]domain.ManagedLine, len(old))
	for _, line := range old {
		if _, dup := prior[line.ItemKey]; !dup {
			prior[line.ItemKey] = line
		}
	}

	out := make([]domain.ManagedLine, 0, len(fresh))
	for _, line := range fresh {
		if previous, ok := prior[line.ItemKey]; ok {
			line.Checked = previous.Checked
			delete(prior, line.ItemKey)
		} else {
			line.Checked = false
		}
		out = append(out, line)
	}
	// Anything left in prior is an orphan and is dropped.
	return out
}
