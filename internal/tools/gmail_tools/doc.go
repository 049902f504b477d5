// Package gmail_tools provides MCP (Model Context Protocol) tools for interacting with Gmail.
//
// This package exposes Gmail functionality through MCP tools that can be
// called by AI agents or other MCP clients:
//   - list_emails: List recent emails from the inbox
//   - search_emails: Search emails using Gmail search syntax
//   - send_email: Send an email (HTML body, optional cc/bcc)
//   - modify_email: Add or remove labels on a message
//
// Handlers talk to the Gmail facade through the server context, so
// tests can substitute a fake service. Successful results are
// pretty-printed JSON inside a text envelope; failures come back as
// error envelopes with a one-line description.
package gmail_tools
