package export

import (
	"time"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

// SectionSet describes the fixed managed headings of one export kind and
// the bucket identity each heading maps to. The parser only recognises
// headings from this set; everything else in a note is unmanaged.
type SectionSet struct {
	order    []domain.BucketIdentity
	headings map[domain.BucketIdentity]string
	byTitle  map[string]domain.BucketIdentity
}

func newSectionSet(pairs []struct {
	id      domain.BucketIdentity
	heading string
}) SectionSet {
	s := SectionSet{
		headings: make(map[domain.BucketIdentity]string, len(pairs)),
		byTitle:  make(map[string]domain.BucketIdentity, len(pairs)),
	}
	for _, p := range pairs {
		s.order = append(s.order, p.id)
		s.headings[p.id] = p.heading
		s.byTitle[p.heading] = p.id
	}
	return s
}

// TaskSections returns the five status sections of a task export, in
// their fixed priority order.
func TaskSections() SectionSet {
	pairs := []struct {
		id      domain.BucketIdentity
		heading string
	}{
		{domain.BucketOverdue, "### Overdue"},
		{domain.BucketToday, "### Today"},
		{domain.BucketTomorrow, "### Tomorrow"},
		{domain.BucketThisWeek, "### This Week"},
		{domain.BucketNoDue, "### No Due Date"},
	}
	return newSectionSet(pairs)
}

// CalendarSections returns the single calendar section of the daily note
// for the given date. The heading is constant; the identity is the date,
// matching the event bucketer.
func CalendarSections(date time.Time) SectionSet {
	pairs := []struct {
		id      domain.BucketIdentity
		heading string
	}{
		{domain.DateIdentity(date), "## Calendar"},
	}
	return newSectionSet(pairs)
}

// Order returns the identities in fixed heading order.
func (s SectionSet) Order() []domain.BucketIdentity {
	return s.order
}

// Heading returns the heading line for an identity.
func (s SectionSet) Heading(id domain.BucketIdentity) (string, bool) {
	h, ok := s.headings[id]
	return h, ok
}

// Identify resolves a heading line (whitespace-trimmed) to its identity.
func (s SectionSet) Identify(title string) (domain.BucketIdentity, bool) {
	id, ok := s.byTitle[title]
	return id, ok
}
