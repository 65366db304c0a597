package gmail

import (
	"encoding/base64"
	"html"
	"net/mail"
	"regexp"
	"strings"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"
)

// Attachment describes an attachment on a message. The payload itself
// is fetched separately via DownloadAttachment.
type Attachment struct {
	Filename     string
	MIMEType     string
	Size         int64
	AttachmentID string
}

// Message is a fully fetched Gmail message with parsed headers and
// decoded body parts.
type Message struct {
	ID          string
	ThreadID    string
	Subject     string
	From        string
	To          string
	CC          string
	BCC         string
	Date        time.Time
	InReplyTo   string
	Labels      []string
	Snippet     string
	BodyPlain   string
	BodyHTML    string
	Attachments []Attachment
}

// Body returns the best available body text: the plain-text part when
// present, otherwise the HTML part with tags stripped.
func (m Message) Body() string {
	if m.BodyPlain != "" {
		return m.BodyPlain
	}
	if m.BodyHTML != "" {
		return htmlToText(m.BodyHTML)
	}
	return ""
}

// SenderAddress returns the bare address from the From header, without
// the display name.
func (m Message) SenderAddress() string {
	if addr, err := mail.ParseAddress(m.From); err == nil {
		return addr.Address
	}
	if fields := strings.Fields(m.From); len(fields) > 0 {
		return fields[0]
	}
	return "unknown"
}

// Thread is a conversation with all its messages in order.
type Thread struct {
	ID       string
	Messages []Message
}

// ThreadSummary is the listing view of a thread, built from the
// headers of its first message.
type ThreadSummary struct {
	ID           string
	Subject      string
	From         string
	Date         time.Time
	Snippet      string
	Labels       []string
	MessageCount int
}

// parseMessage converts an API message fetched with format "full" into
// a Message with headers resolved and body parts decoded.
func parseMessage(msg *gmailapi.Message) Message {
	m := Message{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Labels:   msg.LabelIds,
		Snippet:  msg.Snippet,
	}
	if msg.Payload == nil {
		return m
	}

	headers := headerMap(msg.Payload.Headers)
	m.Subject = headers["subject"]
	if m.Subject == "" {
		m.Subject = "(No Subject)"
	}
	m.From = headers["from"]
	m.To = headers["to"]
	m.CC = headers["cc"]
	m.BCC = headers["bcc"]
	m.InReplyTo = headers["in-reply-to"]
	if date, err := mail.ParseDate(headers["date"]); err == nil {
		m.Date = date
	}

	var plain, htmlParts []string
	collectParts(msg.Payload, &plain, &htmlParts, &m.Attachments)
	m.BodyPlain = strings.Join(plain, "")
	m.BodyHTML = strings.Join(htmlParts, "")

	return m
}

func headerMap(headers []*gmailapi.MessagePartHeader) map[string]string {
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		if h == nil {
			continue
		}
		out[strings.ToLower(h.Name)] = h.Value
	}
	return out
}

// collectParts walks a (possibly nested multipart) payload, decoding
// text bodies and recording attachment metadata. Parts with a filename
// are attachments regardless of MIME type.
func collectParts(part *gmailapi.MessagePart, plain, htmlParts *[]string, attachments *[]Attachment) {
	if part == nil {
		return
	}

	if part.Filename != "" {
		att := Attachment{
			Filename: part.Filename,
			MIMEType: part.MimeType,
		}
		if part.Body != nil {
			att.Size = part.Body.Size
			att.AttachmentID = part.Body.AttachmentId
		}
		*attachments = append(*attachments, att)
		return
	}

	if part.Body != nil && part.Body.Data != "" {
		if decoded, err := decodeBody(part.Body.Data); err == nil {
			switch part.MimeType {
			case "text/plain":
				*plain = append(*plain, string(decoded))
			case "text/html":
				*htmlParts = append(*htmlParts, string(decoded))
			}
		}
	}

	for _, child := range part.Parts {
		collectParts(child, plain, htmlParts, attachments)
	}
}

// decodeBody decodes base64url body data. The API serves it unpadded,
// but padded data shows up in the wild, so both are accepted.
func decodeBody(data string) ([]byte, error) {
	if decoded, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return decoded, nil
	}
	return base64.URLEncoding.DecodeString(data)
}

var (
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	headTag       = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockBoundary = regexp.MustCompile(`(?i)</?(p|div|h[1-6]|li|tr|blockquote|pre|table)[^>]*>|<br\s*/?>|<hr\s*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// htmlToText strips markup from an HTML body, keeping block boundaries
// as newlines. Good enough for notification emails; messages with a
// plain-text part never reach this path.
func htmlToText(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")
	content = blockBoundary.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	lines := strings.Split(content, "\n")
	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
