package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

const (
	// TokenFile holds the bearer credential for the schedalize backend.
	TokenFile = "token.json"

	xdgAppName = "schedalize"
)

// ErrNoToken is returned when no credential has been stored yet.
var ErrNoToken = errors.New("no stored credential, please log in")

// TokenStore keeps an oauth2.Token in a JSON file. It is also an
// oauth2.TokenSource: every Token call re-reads the file, so a login from
// another process is picked up without restarting.
type TokenStore struct {
	Path string
	mu   sync.Mutex
}

// NewTokenStore returns a store at ~/.config/schedalize/<name>.
func NewTokenStore(name string) (*TokenStore, error) {
	xdgConfigBase, err := GetXdgHome()
	if err != nil {
		return nil, err
	}
	return &TokenStore{Path: filepath.Join(xdgConfigBase, name)}, nil
}

// Token implements oauth2.TokenSource.
func (s *TokenStore) Token() (*oauth2.Token, error) {
	tok, err := s.Load()
	if err != nil {
		return nil, err
	}
	if tok.TokenType == "" {
		tok.TokenType = "Bearer"
	}
	return tok, nil
}

// Load reads the stored token. A missing file or empty access token is ErrNoToken.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoToken
		}
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", s.Path, err)
	}
	if tok.AccessToken == "" {
		return nil, ErrNoToken
	}
	return tok, nil
}

// Save writes tok with owner-only permissions.
func (s *TokenStore) Save(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return fmt.Errorf("could not create token directory: %w", err)
	}
	f, err := os.OpenFile(s.Path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache token to %s: %w", s.Path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}

// SaveBearer stores an opaque access token.
func (s *TokenStore) SaveBearer(accessToken string) error {
	if accessToken == "" {
		return errors.New("empty access token")
	}
	return s.Save(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func GetXdgHome() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName), nil
}
