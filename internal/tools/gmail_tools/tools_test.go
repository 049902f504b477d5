package gmail_tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/opsmode/workspace-mcp/internal/gmail"
	"github.com/opsmode/workspace-mcp/internal/registry"
	"github.com/opsmode/workspace-mcp/internal/server"
)

type fakeGmailService struct {
	emails []gmail.EmailSummary
	err    error

	sentMsg      gmail.OutgoingMessage
	modifyID     string
	addLabels    []string
	removeLabels []string
	lastQuery    string
	lastMax      int64
}

func (f *fakeGmailService) ListEmails(ctx context.Context, query string, maxResults int64) ([]gmail.EmailSummary, error) {
	f.lastQuery = query
	f.lastMax = maxResults
	if f.err != nil {
		return nil, f.err
	}
	if maxResults <= 0 {
		return []gmail.EmailSummary{}, nil
	}
	return f.emails, nil
}

func (f *fakeGmailService) SearchEmails(ctx context.Context, query string, maxResults int64) ([]gmail.EmailSummary, error) {
	return f.ListEmails(ctx, query, maxResults)
}

func (f *fakeGmailService) SendEmail(ctx context.Context, msg gmail.OutgoingMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sentMsg = msg
	return "sent-1", nil
}

func (f *fakeGmailService) ModifyEmail(ctx context.Context, messageID string, addLabels, removeLabels []string) (*gmail.ModifyResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.modifyID = messageID
	f.addLabels = addLabels
	f.removeLabels = removeLabels
	return &gmail.ModifyResult{ID: messageID, Labels: []string{"INBOX"}}, nil
}

func newTestRegistry(t *testing.T, fake *fakeGmailService) *registry.Registry {
	t.Helper()
	sc := server.NewServerContext(context.Background(), fake, nil, nil)
	reg := registry.New()
	if err := Register(reg, sc); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return reg
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected single content block, got %d", len(result.Content))
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("content is not text: %#v", result.Content[0])
	}
	return text.Text
}

func TestRegister_ToolNames(t *testing.T) {
	reg := newTestRegistry(t, &fakeGmailService{})

	want := []string{"list_emails", "search_emails", "send_email", "modify_email"}
	tools := reg.Tools()
	if len(tools) != len(want) {
		t.Fatalf("got %d tools, want %d", len(tools), len(want))
	}
	for i, name := range want {
		if tools[i].Name != name {
			t.Errorf("tools[%d] = %q, want %q", i, tools[i].Name, name)
		}
	}
}

func TestListEmails_EmptyMailbox(t *testing.T) {
	fake := &fakeGmailService{emails: []gmail.EmailSummary{}}
	reg := newTestRegistry(t, fake)

	result, err := reg.Invoke(context.Background(), "list_emails", map[string]any{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error envelope: %s", resultText(t, result))
	}
	if got := resultText(t, result); got != "[]" {
		t.Errorf("text = %q, want %q", got, "[]")
	}
	if fake.lastMax != 10 {
		t.Errorf("default maxResults = %d, want 10", fake.lastMax)
	}
}

func TestListEmails_ZeroMaxResults(t *testing.T) {
	fake := &fakeGmailService{emails: []gmail.EmailSummary{{ID: "m1"}}}
	reg := newTestRegistry(t, fake)

	result, err := reg.Invoke(context.Background(), "list_emails", map[string]any{"maxResults": float64(0)})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error envelope: %s", resultText(t, result))
	}
	if got := resultText(t, result); got != "[]" {
		t.Errorf("text = %q, want %q", got, "[]")
	}
}

func TestListEmails_ErrorEnvelope(t *testing.T) {
	fake := &fakeGmailService{err: errors.New("quota exceeded")}
	reg := newTestRegistry(t, fake)

	result, err := reg.Invoke(context.Background(), "list_emails", map[string]any{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error envelope")
	}
	if got := resultText(t, result); got != "Error listing emails: quota exceeded" {
		t.Errorf("text = %q", got)
	}
}

func TestSearchEmails(t *testing.T) {
	fake := &fakeGmailService{emails: []gmail.EmailSummary{{ID: "m1", Subject: "Hi"}}}
	reg := newTestRegistry(t, fake)

	result, err := reg.Invoke(context.Background(), "search_emails", map[string]any{
		"query": "from:alice@example.com",
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error envelope: %s", resultText(t, result))
	}
	if fake.lastQuery != "from:alice@example.com" {
		t.Errorf("query = %q", fake.lastQuery)
	}
	if !strings.Contains(resultText(t, result), `"id": "m1"`) {
		t.Errorf("result text missing email: %s", resultText(t, result))
	}
}

func TestSearchEmails_RequiresQuery(t *testing.T) {
	reg := newTestRegistry(t, &fakeGmailService{})

	result, err := reg.Invoke(context.Background(), "search_emails", map[string]any{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected validation error for missing query")
	}
}

func TestSearchEmails_ErrorEnvelope(t *testing.T) {
	fake := &fakeGmailService{err: errors.New("backend error")}
	reg := newTestRegistry(t, fake)

	result, err := reg.Invoke(context.Background(), "search_emails", map[string]any{"query": "x"})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got := resultText(t, result); got != "Error searching emails: backend error" {
		t.Errorf("text = %q", got)
	}
}

func TestSendEmail(t *testing.T) {
	fake := &fakeGmailService{}
	reg := newTestRegistry(t, fake)

	result, err := reg.Invoke(context.Background(), "send_email", map[string]any{
		"to":      "a@x.com",
		"subject": "Hi",
		"body":    "<b>hi</b>",
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error envelope: %s", resultText(t, result))
	}
	if fake.sentMsg.To != "a@x.com" || fake.sentMsg.Subject != "Hi" {
		t.Errorf("sent message = %+v", fake.sentMsg)
	}
	if fake.sentMsg.Cc != "" || fake.sentMsg.Bcc != "" {
		t.Errorf("cc/bcc should be empty, got %+v", fake.sentMsg)
	}
	if !strings.Contains(resultText(t, result), `"id": "sent-1"`) {
		t.Errorf("result text = %s", resultText(t, result))
	}
}

func TestSendEmail_ErrorEnvelope(t *testing.T) {
	fake := &fakeGmailService{err: errors.New("invalid recipient")}
	reg := newTestRegistry(t, fake)

	result, err := reg.Invoke(context.Background(), "send_email", map[string]any{
		"to": "x", "subject": "s", "body": "b",
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got := resultText(t, result); got != "Error sending email: invalid recipient" {
		t.Errorf("text = %q", got)
	}
}

func TestModifyEmail_NoLabelsIsValidNoOp(t *testing.T) {
	fake := &fakeGmailService{}
	reg := newTestRegistry(t, fake)

	result, err := reg.Invoke(context.Background(), "modify_email", map[string]any{"id": "m1"})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("no-op modify should succeed, got: %s", resultText(t, result))
	}
	if fake.modifyID != "m1" {
		t.Errorf("modifyID = %q", fake.modifyID)
	}
	if fake.addLabels != nil || fake.removeLabels != nil {
		t.Errorf("labels = add %v remove %v, want nil", fake.addLabels, fake.removeLabels)
	}
}

func TestModifyEmail_Labels(t *testing.T) {
	fake := &fakeGmailService{}
	reg := newTestRegistry(t, fake)

	result, err := reg.Invoke(context.Background(), "modify_email", map[string]any{
		"id":           "m1",
		"addLabels":    []any{"STARRED"},
		"removeLabels": "UNREAD",
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error envelope: %s", resultText(t, result))
	}
	if len(fake.addLabels) != 1 || fake.addLabels[0] != "STARRED" {
		t.Errorf("addLabels = %v", fake.addLabels)
	}
	if len(fake.removeLabels) != 1 || fake.removeLabels[0] != "UNREAD" {
		t.Errorf("removeLabels = %v", fake.removeLabels)
	}
}

func TestModifyEmail_ErrorEnvelope(t *testing.T) {
	fake := &fakeGmailService{err: errors.New("not found")}
	reg := newTestRegistry(t, fake)

	result, err := reg.Invoke(context.Background(), "modify_email", map[string]any{"id": "gone"})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got := resultText(t, result); got != "Error modifying email: not found" {
		t.Errorf("text = %q", got)
	}
}
