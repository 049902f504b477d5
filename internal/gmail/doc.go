// Package gmail provides a client for interacting with the Gmail API.
//
// The client covers the email operations exposed as MCP tools:
//   - Listing and searching messages (metadata projection with a
//     bounded per-message fan-out)
//   - Sending messages (RFC 2822 assembly, base64url encoding)
//   - Label modification
//
// Authentication is handled by the google package; the client only
// needs an OAuth-authenticated HTTP client.
//
// Example usage:
//
//	httpClient := creds.HTTPClient(ctx)
//	client, err := gmail.NewClient(ctx, httpClient)
//	if err != nil {
//	    return err
//	}
//
//	emails, err := client.ListEmails(ctx, "in:inbox", 10)
package gmail
