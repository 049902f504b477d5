// Package google provides OAuth2 authentication for Google APIs.
//
// Credentials are read from the environment (GOOGLE_CLIENT_ID,
// GOOGLE_CLIENT_SECRET, GOOGLE_REFRESH_TOKEN) and exchanged for access
// tokens on demand. The refresh token is obtained once via the
// interactive authorize command and then reused indefinitely.
package google
