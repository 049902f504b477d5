package cmd

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"golang.org/x/oauth2"

	"github.com/opsmode/workspace-mcp/internal/google"
)

const (
	authorizeCallbackPath = "/oauth/callback"
	authorizeTimeout      = 5 * time.Minute
)

func newAuthorizeCmd() *cobra.Command {
	var (
		clientID     string
		clientSecret string
		port         int
		envFile      string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Run the one-time OAuth flow and capture a refresh token",
		Long: `Run the OAuth2 authorization flow against Google and capture a refresh
token for the Gmail and Calendar scopes.

The command starts a loopback listener, opens your browser to the Google
consent page, and exchanges the returned authorization code. The resulting
credentials are printed and can be written to an env file for "serve".

The OAuth client must be of type "Desktop app" (or have the loopback
redirect URI configured).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("failed to load env file %s: %w", envFile, err)
				}
			}
			if clientID == "" {
				clientID = os.Getenv(google.EnvClientID)
			}
			if clientSecret == "" {
				clientSecret = os.Getenv(google.EnvClientSecret)
			}
			if clientID == "" || clientSecret == "" {
				return fmt.Errorf("client ID and secret are required (flags or %s/%s env vars)",
					google.EnvClientID, google.EnvClientSecret)
			}
			return runAuthorize(clientID, clientSecret, port, outputFile)
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "Google OAuth client ID. Can also use "+google.EnvClientID+" env var.")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "Google OAuth client secret. Can also use "+google.EnvClientSecret+" env var.")
	cmd.Flags().IntVar(&port, "port", 0, "Loopback listener port (0 picks a free port)")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to an env file with the client ID and secret")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write credentials to this env file (default: print only)")

	return cmd
}

func runAuthorize(clientID, clientSecret string, port int, outputFile string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ln, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
	if err != nil {
		return fmt.Errorf("failed to start loopback listener: %w", err)
	}
	defer func() { _ = ln.Close() }()

	creds := google.Credentials{ClientID: clientID, ClientSecret: clientSecret}
	conf := creds.OAuthConfig()
	conf.RedirectURL = fmt.Sprintf("http://%s%s", ln.Addr().String(), authorizeCallbackPath)

	state, err := generateState()
	if err != nil {
		return err
	}

	// ApprovalForce makes Google reissue a refresh token even when the
	// user authorized this client before.
	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(authorizeCallbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if errMsg := q.Get("error"); errMsg != "" {
			http.Error(w, "Authorization failed: "+errMsg, http.StatusBadRequest)
			errCh <- fmt.Errorf("authorization denied: %s", errMsg)
			return
		}
		if q.Get("state") != state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			errCh <- fmt.Errorf("state parameter mismatch")
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "Missing authorization code", http.StatusBadRequest)
			errCh <- fmt.Errorf("callback had no authorization code")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body><p>Authorization complete. You can close this window.</p></body></html>")
		codeCh <- code
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	defer func() { _ = srv.Close() }()

	fmt.Println("Opening your browser for Google authorization...")
	fmt.Println("If it does not open, visit this URL:")
	fmt.Println()
	fmt.Println("  " + authURL)
	fmt.Println()
	openBrowser(authURL)

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return fmt.Errorf("authorization cancelled")
	case <-time.After(authorizeTimeout):
		return fmt.Errorf("timed out waiting for authorization")
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if token.RefreshToken == "" {
		return fmt.Errorf("Google did not return a refresh token; revoke the app's access at https://myaccount.google.com/permissions and try again")
	}

	envContent := fmt.Sprintf("%s=%s\n%s=%s\n%s=%s\n",
		google.EnvClientID, clientID,
		google.EnvClientSecret, clientSecret,
		google.EnvRefreshToken, token.RefreshToken,
	)

	fmt.Println("Authorization successful. Credentials for serve:")
	fmt.Println()
	fmt.Print(envContent)

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(envContent), 0600); err != nil {
			return fmt.Errorf("failed to write env file: %w", err)
		}
		fmt.Printf("\nCredentials written to %s\n", outputFile)
	}

	return nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// openBrowser opens the given URL in the default browser. Failures are
// not fatal; the URL is printed for manual use.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
