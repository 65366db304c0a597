package gmail

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dnvriend/google-gmail-tool/internal/vault"
)

// messageIDRe matches the message markers written by formatMessage.
// They double as the dedup index for append runs.
var messageIDRe = regexp.MustCompile("\\*\\*Message ID:\\*\\* `([^`]+)`")

// Labels that would only add noise as note tags.
var ignoredLabelTags = map[string]bool{
	"unread":              true,
	"inbox":               true,
	"sent":                true,
	"category-promotions": true,
	"category-updates":    true,
}

// NoteName derives the folder and file name for a thread note from its
// first message: date, sender, and subject, slugged. Threads without a
// parseable date fall back to a thread ID prefix.
func NoteName(thread *Thread) string {
	first := thread.Messages[0]

	stamp := first.Date.Format("2006-01-02-1504")
	if first.Date.IsZero() {
		stamp = thread.ID
		if len(stamp) > 16 {
			stamp = stamp[:16]
		}
	}

	return fmt.Sprintf("%s-%s-%s", stamp, vault.Slug(first.SenderAddress()), vault.Slug(first.Subject))
}

// BuildNote merges a thread into an existing note, or builds a fresh
// one when existing is empty. Messages already present in the note are
// kept as written; only new messages are appended, and the frontmatter
// is regenerated to cover the whole thread. Returns the note content
// and the number of messages appended.
func BuildNote(existing string, thread *Thread) (string, int) {
	present := existingMessageIDs(existing)

	var added []string
	total := len(thread.Messages)
	for i, msg := range thread.Messages {
		if present[msg.ID] {
			continue
		}
		added = append(added, formatMessage(msg, i+1, total))
	}
	if existing != "" && len(added) == 0 {
		return existing, 0
	}

	frontmatter := buildFrontmatter(thread)
	if existing == "" {
		return frontmatter + "\n\n" + strings.Join(added, "\n\n---\n\n"), len(added)
	}

	body := stripFrontmatter(existing)
	return frontmatter + "\n\n" + body + "\n\n---\n\n" + strings.Join(added, "\n\n---\n\n"), len(added)
}

func existingMessageIDs(content string) map[string]bool {
	ids := make(map[string]bool)
	for _, match := range messageIDRe.FindAllStringSubmatch(content, -1) {
		ids[match[1]] = true
	}
	return ids
}

// stripFrontmatter drops a leading YAML block so it can be rebuilt.
func stripFrontmatter(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || lines[0] != "---" {
		return content
	}
	for i := 1; i < len(lines); i++ {
		if lines[i] == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return content
}

func buildFrontmatter(thread *Thread) string {
	first := thread.Messages[0]

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "subject: %q\n", escapeYAML(first.Subject))
	fmt.Fprintf(&b, "from: %q\n", escapeYAML(first.From))
	fmt.Fprintf(&b, "to: %q\n", escapeYAML(first.To))
	if first.CC != "" {
		fmt.Fprintf(&b, "cc: %q\n", escapeYAML(first.CC))
	}
	if !first.Date.IsZero() {
		fmt.Fprintf(&b, "date: %q\n", first.Date.Format("2006-01-02T15:04:05Z07:00"))
	}
	fmt.Fprintf(&b, "thread_id: %q\n", thread.ID)
	fmt.Fprintf(&b, "message_count: %d\n", len(thread.Messages))

	b.WriteString("message_ids:\n")
	for _, msg := range thread.Messages {
		fmt.Fprintf(&b, "  - %q\n", msg.ID)
	}

	b.WriteString("tags:\n  - email\n")
	for _, tag := range labelTags(thread) {
		fmt.Fprintf(&b, "  - gmail/%s\n", tag)
	}

	b.WriteString("---")
	return b.String()
}

// labelTags converts the union of all message labels to note tags,
// sorted and with noise labels dropped.
func labelTags(thread *Thread) []string {
	seen := make(map[string]bool)
	for _, msg := range thread.Messages {
		for _, label := range msg.Labels {
			tag := strings.ReplaceAll(strings.ToLower(label), "_", "-")
			if !ignoredLabelTags[tag] {
				seen[tag] = true
			}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func formatMessage(msg Message, index, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Message %d/%d\n\n", index, total)
	fmt.Fprintf(&b, "**From:** %s\n", msg.From)
	fmt.Fprintf(&b, "**To:** %s\n", msg.To)
	if msg.CC != "" {
		fmt.Fprintf(&b, "**CC:** %s\n", msg.CC)
	}
	if !msg.Date.IsZero() {
		fmt.Fprintf(&b, "**Date:** %s\n", msg.Date.Format("2006-01-02T15:04:05Z07:00"))
	}
	fmt.Fprintf(&b, "**Message ID:** `%s`\n", msg.ID)
	if msg.InReplyTo != "" {
		fmt.Fprintf(&b, "**In-Reply-To:** `%s`\n", msg.InReplyTo)
	}

	if len(msg.Attachments) > 0 {
		b.WriteString("\n**Attachments:**\n")
		for _, att := range msg.Attachments {
			fmt.Fprintf(&b, "- [[%s]] (%.1f KB, %s)\n", att.Filename, float64(att.Size)/1024, att.MIMEType)
		}
	}

	b.WriteString("\n## Message Body\n\n")
	if body := msg.Body(); body != "" {
		b.WriteString(body)
	} else {
		b.WriteString("(No content)")
	}
	return b.String()
}

func escapeYAML(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.ReplaceAll(text, "\r", "")
}
