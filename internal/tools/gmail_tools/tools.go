package gmail_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/opsmode/workspace-mcp/internal/gmail"
	"github.com/opsmode/workspace-mcp/internal/registry"
	"github.com/opsmode/workspace-mcp/internal/server"
	"github.com/opsmode/workspace-mcp/internal/tools/common"
)

// defaultMaxResults applies when a listing tool is called without maxResults.
const defaultMaxResults = 10

// Register adds all Gmail tools to the registry.
func Register(reg *registry.Registry, sc *server.ServerContext) error {
	listEmailsTool := mcp.NewTool("list_emails",
		mcp.WithDescription("List recent emails from the Gmail inbox"),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of emails to return (default: 10)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional Gmail search query (e.g., 'is:unread')"),
		),
	)
	reg.Add(listEmailsTool, func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		return handleListEmails(ctx, args, sc, false)
	})

	searchEmailsTool := mcp.NewTool("search_emails",
		mcp.WithDescription("Search emails using Gmail search syntax"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Gmail search query (e.g., 'from:alice@example.com has:attachment')"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of emails to return (default: 10)"),
		),
	)
	reg.Add(searchEmailsTool, func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		return handleListEmails(ctx, args, sc, true)
	})

	sendEmailTool := mcp.NewTool("send_email",
		mcp.WithDescription("Send an email via Gmail"),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient email address"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body (HTML supported)"),
		),
		mcp.WithString("cc",
			mcp.Description("CC recipients"),
		),
		mcp.WithString("bcc",
			mcp.Description("BCC recipients"),
		),
	)
	reg.Add(sendEmailTool, func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		return handleSendEmail(ctx, args, sc)
	})

	modifyEmailTool := mcp.NewTool("modify_email",
		mcp.WithDescription("Add or remove labels on an email (archive, mark read, star, ...)"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The ID of the email to modify"),
		),
		mcp.WithArray("addLabels",
			mcp.Description("Label IDs to add (e.g., ['STARRED'])"),
		),
		mcp.WithArray("removeLabels",
			mcp.Description("Label IDs to remove (e.g., ['UNREAD', 'INBOX'])"),
		),
	)
	reg.Add(modifyEmailTool, func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		return handleModifyEmail(ctx, args, sc)
	})

	return nil
}

func handleListEmails(ctx context.Context, args map[string]any, sc *server.ServerContext, search bool) (*mcp.CallToolResult, error) {
	query := common.StringArg(args, "query", "")
	maxResults := common.IntArg(args, "maxResults", defaultMaxResults)

	var (
		emails []gmail.EmailSummary
		err    error
	)
	if search {
		emails, err = sc.GmailService().SearchEmails(ctx, query, maxResults)
	} else {
		emails, err = sc.GmailService().ListEmails(ctx, query, maxResults)
	}
	if err != nil {
		if search {
			return mcp.NewToolResultError(fmt.Sprintf("Error searching emails: %v", err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Error listing emails: %v", err)), nil
	}

	return textResult(emails)
}

func handleSendEmail(ctx context.Context, args map[string]any, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	msg := gmail.OutgoingMessage{
		To:      common.StringArg(args, "to", ""),
		Subject: common.StringArg(args, "subject", ""),
		Body:    common.StringArg(args, "body", ""),
		Cc:      common.StringArg(args, "cc", ""),
		Bcc:     common.StringArg(args, "bcc", ""),
	}

	id, err := sc.GmailService().SendEmail(ctx, msg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error sending email: %v", err)), nil
	}

	return textResult(struct {
		ID string `json:"id"`
	}{ID: id})
}

func handleModifyEmail(ctx context.Context, args map[string]any, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	id := common.StringArg(args, "id", "")

	addLabels, err := common.ParseStringOrArray(args["addLabels"], "addLabels")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	removeLabels, err := common.ParseStringOrArray(args["removeLabels"], "removeLabels")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := sc.GmailService().ModifyEmail(ctx, id, addLabels, removeLabels)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error modifying email: %v", err)), nil
	}

	return textResult(result)
}

// textResult marshals payload as pretty-printed JSON inside a text envelope.
func textResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
