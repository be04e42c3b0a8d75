package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// ClientSecretsFile is the Google API credentials.json, placed in ~/.config/schedalize.
	ClientSecretsFile = "credentials.json"

	// GoogleTokenFile caches the Google Calendar token used by the mirror.
	GoogleTokenFile = "google_token.json"

	// LocalhostAuthPort receives the OAuth redirect during `schedalize auth google`.
	LocalhostAuthPort = "6789"
)

// GoogleConfig builds an oauth2.Config from the client secrets file. The
// redirect always points at the local callback listener.
func GoogleConfig(scopes []string) (*oauth2.Config, error) {
	xdgConfigBase, err := GetXdgHome()
	if err != nil {
		return nil, err
	}

	clientSecretsFile := filepath.Join(xdgConfigBase, ClientSecretsFile)
	b, err := os.ReadFile(clientSecretsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", clientSecretsFile, err)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort)
	return config, nil
}

// GoogleClient returns an *http.Client for the Google APIs using the cached
// token. Refreshed tokens are written back to the cache.
func GoogleClient(ctx context.Context, scopes []string) (*http.Client, error) {
	config, err := GoogleConfig(scopes)
	if err != nil {
		return nil, err
	}
	store, err := NewTokenStore(GoogleTokenFile)
	if err != nil {
		return nil, err
	}
	tok, err := store.Load()
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			return nil, fmt.Errorf("no Google token found, run `schedalize auth google` first: %w", err)
		}
		return nil, err
	}

	src := &savingSource{
		base:  config.TokenSource(ctx, tok),
		store: store,
		last:  tok.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

// savingSource persists a token whenever the underlying source refreshes it.
type savingSource struct {
	base  oauth2.TokenSource
	store *TokenStore
	last  string
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.store.Save(tok); err != nil {
			log.Printf("[auth] could not save refreshed Google token: %v", err)
		}
	}
	return tok, nil
}

// AuthorizeGoogle runs the authorization code flow through a local callback
// listener and caches the resulting token.
func AuthorizeGoogle(ctx context.Context, scopes []string, out io.Writer) error {
	config, err := GoogleConfig(scopes)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", "localhost:"+LocalhostAuthPort)
	if err != nil {
		return fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}
	defer listener.Close()

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				errCh <- errors.New("authorization code not found in redirect URL")
				return
			}
			fmt.Fprintf(w, "Authentication successful! You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Fprintf(out, "Open the following URL in your browser to authorize schedalize:\n%s\n", authURL)

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return errors.New("authorization timed out, please try again")
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	tok, err := config.Exchange(exchangeCtx, code)
	if err != nil {
		return fmt.Errorf("unable to retrieve token from Google: %w", err)
	}

	store, err := NewTokenStore(GoogleTokenFile)
	if err != nil {
		return err
	}
	return store.Save(tok)
}
