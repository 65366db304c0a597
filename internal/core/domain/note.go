package domain

// ManagedLine is one checkbox line inside a managed note section. The
// exporter owns the rendered text; the user owns the checked state.
//
// The item key is carried as an explicit field here and only serialised
// into the on-disk anchor at the format boundary, so no component ever
// re-extracts it from rendered text.
type ManagedLine struct {
	// ItemKey is derived from the source Record key and is stable across
	// export runs.
	ItemKey string

	// Checked is the checkbox state. The renderer always produces false;
	// the merge engine copies the value from the previously parsed line.
	Checked bool

	// Text is the rendered payload after the checkbox and anchor.
	Text string

	// Orphan marks a line whose item key has no corresponding record in
	// the current export pass. Orphans are dropped during the merge.
	Orphan bool
}

// Section is one managed region of a note: a heading the exporter
// recognises, the managed lines it owns, and any unmanaged lines a human
// added inside the region.
type Section struct {
	// Identity is the bucket identity the section belongs to.
	Identity BucketIdentity

	// Heading is the verbatim heading line, e.g. "### Today".
	Heading string

	// Lines are the managed lines in section order.
	Lines []ManagedLine

	// Unmanaged holds the raw lines inside the section body that carry
	// no item-key anchor. They are preserved verbatim, after the managed
	// lines, in their original relative order.
	Unmanaged []string
}

// BlockKind discriminates note document blocks.
type BlockKind int

const (
	// BlockUnmanaged is raw text outside any recognised section.
	BlockUnmanaged BlockKind = iota
	// BlockSection is a managed section.
	BlockSection
)

// Block is one element of a note document: either verbatim unmanaged
// text or a managed section.
type Block struct {
	Kind    BlockKind
	Raw     []string // verbatim lines, BlockUnmanaged only
	Section *Section // BlockSection only
}

// NoteDocument is the in-memory form of one target note file. It is read
// fresh for every export invocation, merged and written back in one
// pass; no instance outlives a single export call.
type NoteDocument struct {
	Blocks []Block
}

// SectionFor returns the section with the given identity, or nil.
func (d *NoteDocument) SectionFor(id BucketIdentity) *Section {
	for i := range d.Blocks {
		if d.Blocks[i].Kind == BlockSection && d.Blocks[i].Section.Identity == id {
			return d.Blocks[i].Section
		}
	}
	return nil
}

// AppendUnmanaged appends raw lines as an unmanaged block.
func (d *NoteDocument) AppendUnmanaged(lines ...string) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockUnmanaged, Raw: lines})
}

// AppendSection appends a managed section block.
func (d *NoteDocument) AppendSection(s *Section) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockSection, Section: s})
}
