// Package auth implements the credential manager for the YouTube Data API.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytls/internal/server"
	"github.com/desertthunder/ytls/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// consentTimeout bounds how long the interactive flow waits for the user
// to approve access in the browser.
const consentTimeout = 2 * time.Minute

// Manager resolves, refreshes, and caches OAuth2 credentials.
type Manager struct {
	cfg       *shared.Config
	oauth     *oauth2.Config
	tokenPath string
	logger    *log.Logger
	out       io.Writer
	browse    func(url string) error
	timeout   time.Duration
}

// NewManager builds a Manager from the client secrets file named in the
// configuration.
//
// Returns [shared.ErrMissingConfig] when the secrets file does not exist and
// [shared.ErrInvalidConfig] when it cannot be parsed as an installed-app or
// web client secret.
func NewManager(cfg *shared.Config) (*Manager, error) {
	data, err := os.ReadFile(cfg.Credentials.ClientSecrets)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: client secrets file %s not found", shared.ErrMissingConfig, cfg.Credentials.ClientSecrets)
		}
		return nil, fmt.Errorf("failed to read client secrets: %w", err)
	}

	oauthCfg, err := google.ConfigFromJSON(data, cfg.Credentials.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	oauthCfg.RedirectURL = cfg.Server.RedirectURI()

	return NewManagerFromOAuth(cfg, oauthCfg), nil
}

// NewManagerFromOAuth builds a Manager around an already-constructed OAuth2
// config, bypassing the client secrets file.
func NewManagerFromOAuth(cfg *shared.Config, oauthCfg *oauth2.Config) *Manager {
	return &Manager{
		cfg:       cfg,
		oauth:     oauthCfg,
		tokenPath: cfg.Credentials.TokenCache,
		logger:    log.Default(),
		out:       os.Stdout,
		browse:    shared.OpenBrowser,
		timeout:   consentTimeout,
	}
}

// SetLogger replaces the manager's logger.
func (m *Manager) SetLogger(logger *log.Logger) {
	m.logger = logger
}

// SetOutput redirects user-facing flow messages.
func (m *Manager) SetOutput(w io.Writer) {
	m.out = w
}

// SetBrowser replaces the function used to open the consent URL.
func (m *Manager) SetBrowser(browse func(url string) error) {
	m.browse = browse
}

// SetTimeout overrides the interactive consent timeout.
func (m *Manager) SetTimeout(d time.Duration) {
	m.timeout = d
}

// Obtain returns a usable token.
//
// A cached token with a future expiry is returned without network traffic. An
// expired token with a refresh token triggers exactly one refresh call and
// persists the result. Anything else (including a failed refresh) runs the
// interactive consent flow.
func (m *Manager) Obtain(ctx context.Context) (*oauth2.Token, error) {
	token, err := m.LoadToken()
	if err == nil {
		if token.Valid() {
			m.logger.Debug("using cached token", "expiry", token.Expiry)
			return token, nil
		}

		if token.RefreshToken != "" {
			refreshed, refreshErr := m.refresh(ctx, token)
			if refreshErr == nil {
				return refreshed, nil
			}
			m.logger.Warnf("token refresh failed, falling back to consent flow: %v", refreshErr)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		m.logger.Warnf("discarding unreadable token cache: %v", err)
	}

	token, err = m.interactive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := m.SaveToken(token); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}

	return token, nil
}

// Client returns an HTTP client that attaches and transparently refreshes the
// managed token. Refreshed tokens are written back to the cache.
func (m *Manager) Client(ctx context.Context) (*http.Client, error) {
	token, err := m.Obtain(ctx)
	if err != nil {
		return nil, err
	}

	source := &persistingSource{
		manager: m,
		wrapped: m.oauth.TokenSource(ctx, token),
		last:    token,
	}

	return oauth2.NewClient(ctx, source), nil
}

// refresh exchanges the refresh token for a fresh access token and persists it.
func (m *Manager) refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	refreshed, err := m.oauth.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	// Google omits the refresh token on refresh responses
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = token.RefreshToken
	}

	if err := m.SaveToken(refreshed); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	m.logger.Debug("refreshed token", "expiry", refreshed.Expiry)

	return refreshed, nil
}

// interactive executes the OAuth2 authorization flow with a local HTTP server.
func (m *Manager) interactive(ctx context.Context) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := m.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
	oauthHandler := server.NewOAuthHandler(m.oauth, state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", m.cfg.Server.Host, m.cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		m.logger.Infof("starting OAuth callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	fmt.Fprintf(m.out, "→ Opening browser for Google authorization...\n")
	if err := m.browse(authURL); err != nil {
		m.logger.Warnf("failed to open browser automatically %v", err)
		fmt.Fprintf(m.out, "⚠ Could not open browser automatically.\n")
		fmt.Fprintf(m.out, "Please open this URL in your browser:\n%s\n\n", authURL)
	}

	fmt.Fprintf(m.out, "→ Waiting for authorization (%v timeout)...\n", m.timeout)

	timeout := time.NewTimer(m.timeout)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after %v", shared.ErrTimeout, m.timeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		m.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}

// LoadToken reads the cached token from disk.
func (m *Manager) LoadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(m.tokenPath)
	if err != nil {
		return nil, err
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("malformed token cache: %w", err)
	}

	return &token, nil
}

// SaveToken writes the token to the cache path with owner-only permissions.
func (m *Manager) SaveToken(token *oauth2.Token) error {
	if dir := filepath.Dir(m.tokenPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create token cache directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(m.tokenPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}

	return nil
}

// TokenStatus summarizes the cached credential for display.
type TokenStatus struct {
	Authenticated   bool      `json:"authenticated"`
	Expiry          time.Time `json:"expiry,omitzero"`
	HasRefreshToken bool      `json:"has_refresh_token"`
	CachePath       string    `json:"cache_path"`
}

// Status inspects the token cache without touching the network.
func (m *Manager) Status() TokenStatus {
	status := TokenStatus{CachePath: m.tokenPath}

	token, err := m.LoadToken()
	if err != nil {
		return status
	}

	status.Authenticated = token.Valid()
	status.Expiry = token.Expiry
	status.HasRefreshToken = token.RefreshToken != ""

	return status
}

// Reset deletes the token cache, forcing the next Obtain through the full
// consent flow.
func (m *Manager) Reset() error {
	if err := os.Remove(m.tokenPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to remove token cache: %w", err)
	}

	return nil
}

// persistingSource wraps a TokenSource and writes refreshed tokens back to
// the cache.
type persistingSource struct {
	manager *Manager
	wrapped oauth2.TokenSource
	last    *oauth2.Token
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	token, err := s.wrapped.Token()
	if err != nil {
		return nil, err
	}

	if s.last == nil || token.AccessToken != s.last.AccessToken {
		if token.RefreshToken == "" && s.last != nil {
			token.RefreshToken = s.last.RefreshToken
		}
		if saveErr := s.manager.SaveToken(token); saveErr != nil {
			s.manager.logger.Warnf("failed to persist refreshed token: %v", saveErr)
		}
		s.last = token
	}

	return token, nil
}
