package google

import (
	"context"
	"strings"
	"testing"
)

func setCredentialEnv(t *testing.T, clientID, clientSecret, refreshToken string) {
	t.Helper()
	t.Setenv(EnvClientID, clientID)
	t.Setenv(EnvClientSecret, clientSecret)
	t.Setenv(EnvRefreshToken, refreshToken)
}

func TestCredentialsFromEnv(t *testing.T) {
	setCredentialEnv(t, "client-id", "client-secret", "refresh-token")

	creds, err := CredentialsFromEnv()
	if err != nil {
		t.Fatalf("CredentialsFromEnv() error = %v", err)
	}

	if creds.ClientID != "client-id" {
		t.Errorf("ClientID = %q, want %q", creds.ClientID, "client-id")
	}
	if creds.ClientSecret != "client-secret" {
		t.Errorf("ClientSecret = %q, want %q", creds.ClientSecret, "client-secret")
	}
	if creds.RefreshToken != "refresh-token" {
		t.Errorf("RefreshToken = %q, want %q", creds.RefreshToken, "refresh-token")
	}
}

func TestCredentialsFromEnv_Missing(t *testing.T) {
	tests := []struct {
		name         string
		clientID     string
		clientSecret string
		refreshToken string
		wantMissing  []string
	}{
		{
			name:        "all missing",
			wantMissing: []string{EnvClientID, EnvClientSecret, EnvRefreshToken},
		},
		{
			name:         "client id missing",
			clientSecret: "secret",
			refreshToken: "token",
			wantMissing:  []string{EnvClientID},
		},
		{
			name:         "refresh token missing",
			clientID:     "id",
			clientSecret: "secret",
			wantMissing:  []string{EnvRefreshToken},
		},
		{
			name:        "secret and token missing",
			clientID:    "id",
			wantMissing: []string{EnvClientSecret, EnvRefreshToken},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setCredentialEnv(t, tt.clientID, tt.clientSecret, tt.refreshToken)

			_, err := CredentialsFromEnv()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			for _, name := range tt.wantMissing {
				if !strings.Contains(err.Error(), name) {
					t.Errorf("error %q does not mention %s", err, name)
				}
			}
		})
	}
}

func TestOAuthConfig(t *testing.T) {
	creds := Credentials{ClientID: "id", ClientSecret: "secret", RefreshToken: "token"}

	conf := creds.OAuthConfig()
	if conf.ClientID != "id" {
		t.Errorf("ClientID = %q, want %q", conf.ClientID, "id")
	}
	if len(conf.Scopes) != len(DefaultOAuthScopes) {
		t.Errorf("Scopes = %v, want %v", conf.Scopes, DefaultOAuthScopes)
	}
}

func TestHTTPClient(t *testing.T) {
	creds := Credentials{ClientID: "id", ClientSecret: "secret", RefreshToken: "token"}

	client := creds.HTTPClient(context.Background())
	if client == nil {
		t.Fatal("HTTPClient returned nil")
	}
	if client.Transport == nil {
		t.Error("expected oauth2 transport to be installed")
	}
}
