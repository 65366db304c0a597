// Package gmail fetches Gmail threads and messages and builds
// append-only thread notes for the vault.
package gmail

import (
	"context"
	"fmt"

	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/dnvriend/google-gmail-tool/internal/connectors/google"
	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
	"github.com/dnvriend/google-gmail-tool/internal/logger"
)

const (
	userID       = "me"
	maxListLimit = 500
	defaultLimit = 50
)

// Client wraps the Gmail API for the authenticated user.
type Client struct {
	service *gmailapi.Service
	limiter *google.RateLimiter
}

// NewClient creates a Gmail client.
func NewClient(service *gmailapi.Service) *Client {
	return &Client{
		service: service,
		limiter: google.NewRateLimiter(google.ServiceGmail),
	}
}

// ListThreads returns thread summaries matching a Gmail search query.
// An empty query lists the most recent threads. maxResults is capped at
// the API limit of 500.
func (c *Client) ListThreads(ctx context.Context, query string, maxResults int64) ([]ThreadSummary, error) {
	if maxResults <= 0 {
		maxResults = defaultLimit
	}
	if maxResults > maxListLimit {
		logger.Warn("gmail: capping max results at %d", maxListLimit)
		maxResults = maxListLimit
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	call := c.service.Users.Threads.List(userID).MaxResults(maxResults).Context(ctx)
	if query != "" {
		call = call.Q(query)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", c.limiter.WrapError(err))
	}

	summaries := make([]ThreadSummary, 0, len(resp.Threads))
	for _, stub := range resp.Threads {
		if stub == nil || stub.Id == "" {
			continue
		}
		summary, err := c.threadSummary(ctx, stub.Id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	logger.Debug("gmail: listed %d threads for query %q", len(summaries), query)
	return summaries, nil
}

// threadSummary fetches thread metadata and summarises it from the
// first message's headers.
func (c *Client) threadSummary(ctx context.Context, threadID string) (ThreadSummary, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return ThreadSummary{}, err
	}

	thread, err := c.service.Users.Threads.Get(userID, threadID).Format("metadata").Context(ctx).Do()
	if err != nil {
		return ThreadSummary{}, fmt.Errorf("get thread %s: %w", threadID, c.limiter.WrapError(err))
	}

	summary := ThreadSummary{
		ID:           threadID,
		Snippet:      thread.Snippet,
		MessageCount: len(thread.Messages),
	}
	if len(thread.Messages) == 0 {
		return summary, nil
	}

	first := parseMessage(thread.Messages[0])
	summary.Subject = first.Subject
	summary.From = first.From
	summary.Date = first.Date
	summary.Labels = first.Labels
	if summary.Snippet == "" {
		summary.Snippet = first.Snippet
	}
	return summary, nil
}

// GetThread fetches a thread with full message bodies.
func (c *Client) GetThread(ctx context.Context, threadID string) (*Thread, error) {
	if threadID == "" {
		return nil, fmt.Errorf("thread id required: %w", domain.ErrInvalidInput)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.service.Users.Threads.Get(userID, threadID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get thread %s: %w", threadID, c.limiter.WrapError(err))
	}

	thread := &Thread{ID: threadID}
	for _, msg := range resp.Messages {
		if msg == nil || msg.Id == "" {
			continue
		}
		thread.Messages = append(thread.Messages, parseMessage(msg))
	}
	if len(thread.Messages) == 0 {
		return nil, fmt.Errorf("thread %s has no messages: %w", threadID, domain.ErrNotFound)
	}

	logger.Debug("gmail: fetched thread %s with %d messages", threadID, len(thread.Messages))
	return thread, nil
}

// DownloadAttachment fetches the raw bytes of a message attachment.
func (c *Client) DownloadAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	att, err := c.service.Users.Messages.Attachments.Get(userID, messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get attachment %s: %w", attachmentID, c.limiter.WrapError(err))
	}
	if att.Data == "" {
		return nil, fmt.Errorf("attachment %s has no data: %w", attachmentID, domain.ErrNotFound)
	}

	data, err := decodeBody(att.Data)
	if err != nil {
		return nil, fmt.Errorf("decode attachment %s: %w", attachmentID, err)
	}
	return data, nil
}
