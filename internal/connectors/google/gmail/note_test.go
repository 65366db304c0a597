package gmail

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleThread() *Thread {
	return &Thread{
		ID: "thread-1",
		Messages: []Message{
			{
				ID:        "m1",
				Subject:   "Invoice 42",
				From:      "Alice <alice@example.com>",
				To:        "me@example.com",
				Date:      time.Date(2025, 11, 17, 4, 32, 27, 0, time.UTC),
				Labels:    []string{"INBOX", "STARRED"},
				BodyPlain: "Please find the invoice attached.",
				Attachments: []Attachment{
					{Filename: "invoice.pdf", MIMEType: "application/pdf", Size: 1024},
				},
			},
		},
	}
}

func TestNoteName(t *testing.T) {
	assert.Equal(t, "2025-11-17-0432-alice-example-com-invoice-42", NoteName(sampleThread()))
}

func TestNoteName_NoDate(t *testing.T) {
	thread := sampleThread()
	thread.ID = "18c2f4a9e7b31d5f0000"
	thread.Messages[0].Date = time.Time{}
	assert.True(t, strings.HasPrefix(NoteName(thread), "18c2f4a9e7b31d5f-"))
}

func TestBuildNote_Fresh(t *testing.T) {
	content, added := BuildNote("", sampleThread())

	assert.Equal(t, 1, added)
	assert.True(t, strings.HasPrefix(content, "---\n"))
	assert.Contains(t, content, `subject: "Invoice 42"`)
	assert.Contains(t, content, `thread_id: "thread-1"`)
	assert.Contains(t, content, "message_count: 1")
	assert.Contains(t, content, "  - gmail/starred")
	assert.NotContains(t, content, "gmail/inbox")
	assert.Contains(t, content, "# Message 1/1")
	assert.Contains(t, content, "**Message ID:** `m1`")
	assert.Contains(t, content, "[[invoice.pdf]] (1.0 KB, application/pdf)")
	assert.Contains(t, content, "Please find the invoice attached.")
}

func TestBuildNote_AppendsOnlyNewMessages(t *testing.T) {
	thread := sampleThread()
	first, added := BuildNote("", thread)
	assert.Equal(t, 1, added)

	thread.Messages = append(thread.Messages, Message{
		ID:        "m2",
		Subject:   "Re: Invoice 42",
		From:      "me@example.com",
		To:        "alice@example.com",
		Date:      time.Date(2025, 11, 17, 9, 0, 0, 0, time.UTC),
		BodyPlain: "Received, thanks.",
	})

	merged, added := BuildNote(first, thread)
	assert.Equal(t, 1, added)
	assert.Contains(t, merged, "**Message ID:** `m2`")
	assert.Contains(t, merged, "message_count: 2")
	assert.Equal(t, 1, strings.Count(merged, "**Message ID:** `m1`"))
}

func TestBuildNote_NoNewMessages(t *testing.T) {
	thread := sampleThread()
	first, _ := BuildNote("", thread)

	again, added := BuildNote(first, thread)
	assert.Equal(t, 0, added)
	assert.Equal(t, first, again)
}

func TestStripFrontmatter(t *testing.T) {
	content := "---\nsubject: \"x\"\n---\n\n# Message 1/1"
	assert.Equal(t, "# Message 1/1", stripFrontmatter(content))
	assert.Equal(t, "no frontmatter", stripFrontmatter("no frontmatter"))
}
