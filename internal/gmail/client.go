package gmail

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// maxConcurrentFetches bounds the per-message metadata fan-out so a
// large list request cannot burst the Gmail API quota.
const maxConcurrentFetches = 5

// metadataHeaders are the only headers requested when listing messages.
var metadataHeaders = []string{"Subject", "From", "Date"}

// Client wraps the Gmail Users service.
type Client struct {
	svc *gmail.UsersService
}

// NewClient creates a Gmail client on top of an OAuth-authenticated
// HTTP client. Extra options are passed through to the service
// constructor, which lets tests point the client at a fake API server.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Client{svc: svc.Users}, nil
}

// ListEmails lists messages matching query and resolves each one to an
// EmailSummary via a bounded metadata fan-out. A non-positive
// maxResults returns an empty slice without calling the API. Any
// failed metadata fetch fails the whole call.
func (c *Client) ListEmails(ctx context.Context, query string, maxResults int64) ([]EmailSummary, error) {
	if maxResults <= 0 {
		return []EmailSummary{}, nil
	}

	req := c.svc.Messages.List("me").MaxResults(maxResults)
	if query != "" {
		req = req.Q(query)
	}
	res, err := req.Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	summaries := make([]EmailSummary, len(res.Messages))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	sem := make(chan struct{}, maxConcurrentFetches)

	for i, m := range res.Messages {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-sem }()

			msg, err := c.svc.Messages.Get("me", id).
				Format("metadata").
				MetadataHeaders(metadataHeaders...).
				Context(ctx).
				Do()

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to get message %s: %w", id, err)
				}
				return
			}
			summaries[i] = toEmailSummary(msg)
		}(i, m.Id)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	return summaries, nil
}

// SearchEmails is ListEmails under a different tool name. Gmail search
// syntax applies to the query in both cases.
func (c *Client) SearchEmails(ctx context.Context, query string, maxResults int64) ([]EmailSummary, error) {
	return c.ListEmails(ctx, query, maxResults)
}

// SendEmail sends msg through the Gmail API and returns the assigned
// message ID.
func (c *Client) SendEmail(ctx context.Context, msg OutgoingMessage) (string, error) {
	sent, err := c.svc.Messages.Send("me", &gmail.Message{
		Raw: BuildRawMessage(msg),
	}).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}

// ModifyEmail adds and removes labels on a message. Passing empty
// slices for both is a valid no-op request; Gmail returns the message
// unchanged.
func (c *Client) ModifyEmail(ctx context.Context, messageID string, addLabels, removeLabels []string) (*ModifyResult, error) {
	msg, err := c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		AddLabelIds:    addLabels,
		RemoveLabelIds: removeLabels,
	}).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	labels := msg.LabelIds
	if labels == nil {
		labels = []string{}
	}
	return &ModifyResult{ID: msg.Id, Labels: labels}, nil
}

// toEmailSummary projects a metadata-format message onto the summary shape.
func toEmailSummary(msg *gmail.Message) EmailSummary {
	return EmailSummary{
		ID:      msg.Id,
		Subject: headerValue(msg, "Subject"),
		From:    headerValue(msg, "From"),
		Date:    headerValue(msg, "Date"),
	}
}

// headerValue returns the value of the first header with the given
// name, or an empty string if the header is absent.
func headerValue(msg *gmail.Message, name string) string {
	if msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}
