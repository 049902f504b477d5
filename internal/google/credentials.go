package google

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Environment variable names for OAuth credentials.
const (
	EnvClientID     = "GOOGLE_CLIENT_ID"
	EnvClientSecret = "GOOGLE_CLIENT_SECRET"
	EnvRefreshToken = "GOOGLE_REFRESH_TOKEN"
)

// Credentials holds the OAuth client identity and the long-lived refresh
// token used to mint access tokens for Google APIs.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// CredentialsFromEnv reads OAuth credentials from the environment.
// All three variables must be set; the error names every missing one
// so a misconfigured deployment fails with a complete diagnosis.
func CredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
		RefreshToken: os.Getenv(EnvRefreshToken),
	}

	var missing []string
	if creds.ClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if creds.ClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}
	if creds.RefreshToken == "" {
		missing = append(missing, EnvRefreshToken)
	}
	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return creds, nil
}

// OAuthConfig returns the OAuth2 configuration for the Gmail and Calendar scopes.
func (c Credentials) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       DefaultOAuthScopes,
	}
}

// TokenSource returns an OAuth2 token source seeded with the refresh token.
// The expired seed token forces a refresh on first use, so a stale or revoked
// refresh token surfaces as an error on the first API call rather than later.
func (c Credentials) TokenSource(ctx context.Context) oauth2.TokenSource {
	conf := c.OAuthConfig()
	seed := &oauth2.Token{
		RefreshToken: c.RefreshToken,
		Expiry:       time.Unix(1, 0),
	}
	return conf.TokenSource(ctx, seed)
}

// HTTPClient returns an HTTP client that authenticates requests with
// tokens minted from the refresh token. Tokens are cached and refreshed
// transparently by the oauth2 transport.
func (c Credentials) HTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, c.TokenSource(ctx))
}
