// Package googleauth produces an authorized Gmail session, loading a cached
// credential when one exists and falling back to the interactive OAuth flow.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

const credentialType = "authorized_user"

const (
	callbackAddr = ":9876"
	callbackURL  = "http://localhost:9876"
)

// cachedCredential is the on-disk token cache: a Google authorized-user
// credential. The refresh token plus the client registration is enough to
// mint access tokens without another interactive login.
type cachedCredential struct {
	Type         string `json:"type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
}

// Session signs Gmail API requests. TokenSource refreshes access tokens
// automatically; an unusable refresh token only surfaces on the first call.
type Session struct {
	TokenSource oauth2.TokenSource
}

// NewSession loads the token cache at tokenFile, or, when the cache is
// missing or unreadable, runs the interactive authorization flow using the
// client registration at credentialsFile and persists the resulting
// credential before returning.
func NewSession(ctx context.Context, credentialsFile, tokenFile string) (*Session, error) {
	if ts, err := fromCache(ctx, tokenFile); err == nil {
		return &Session{TokenSource: ts}, nil
	}

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client registration file: %w", err)
	}
	config, err := google.ConfigFromJSON(b, gmail.GmailModifyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client registration file: %w", err)
	}
	config.RedirectURL = callbackURL

	token, err := tokenFromWeb(ctx, config)
	if err != nil {
		return nil, err
	}
	if err := saveCache(tokenFile, config, token); err != nil {
		return nil, err
	}

	return &Session{TokenSource: config.TokenSource(ctx, token)}, nil
}

// fromCache rebuilds a token source from the cache file. The credential is
// not validated for liveness here.
func fromCache(ctx context.Context, tokenFile string) (oauth2.TokenSource, error) {
	b, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, err
	}

	var cached cachedCredential
	if err := json.Unmarshal(b, &cached); err != nil {
		return nil, fmt.Errorf("unable to parse token cache: %w", err)
	}
	if cached.Type != credentialType {
		return nil, fmt.Errorf("unexpected credential type %q in token cache", cached.Type)
	}
	if cached.RefreshToken == "" {
		return nil, fmt.Errorf("token cache has no refresh token")
	}

	config := &oauth2.Config{
		ClientID:     cached.ClientID,
		ClientSecret: cached.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailModifyScope},
	}
	return config.TokenSource(ctx, &oauth2.Token{RefreshToken: cached.RefreshToken}), nil
}

// saveCache persists the credential as an authorized-user JSON file.
func saveCache(tokenFile string, config *oauth2.Config, token *oauth2.Token) error {
	if dir := filepath.Dir(tokenFile); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("unable to create token cache dir: %w", err)
		}
	}

	cached := cachedCredential{
		Type:         credentialType,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RefreshToken: token.RefreshToken,
	}
	b, err := json.MarshalIndent(cached, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal token cache: %w", err)
	}
	if err := os.WriteFile(tokenFile, b, 0600); err != nil {
		return fmt.Errorf("unable to write token cache: %w", err)
	}
	return nil
}

// tokenFromWeb runs the interactive flow: open the consent page in a browser
// and catch the authorization code on a temporary localhost server.
func tokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no code in callback")
			return
		}
		fmt.Fprint(w, "Authorization complete. You can close this window and return to your terminal.")
		codeChan <- code
	})

	server := &http.Server{Addr: callbackAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to start callback server: %w", err)
		}
	}()

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Println("Opening browser for authorization...")
	fmt.Printf("If the browser doesn't open automatically, go to: %v\n", authURL)
	openBrowser(authURL)

	var authCode string
	select {
	case authCode = <-codeChan:
	case err := <-errChan:
		return nil, fmt.Errorf("authorization failed: %w", err)
	case <-time.After(5 * time.Minute):
		return nil, fmt.Errorf("authorization timed out after 5 minutes")
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)

	token, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange authorization code: %w", err)
	}
	return token, nil
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}

	if err != nil {
		fmt.Printf("Could not open browser automatically: %v\n", err)
	}
}
