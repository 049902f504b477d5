package google

// DefaultOAuthScopes are the Google OAuth scopes required for full MCP functionality.
// These scopes are used consistently across the application for OAuth configurations.
//
// The scopes provide access to:
//   - Gmail: read, modify, send
//   - Google Calendar: full access
var DefaultOAuthScopes = []string{
	// Gmail scope
	"https://mail.google.com/", // Full Gmail access (includes send and modify)

	// Google Calendar scope
	"https://www.googleapis.com/auth/calendar",
}
