package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
	"github.com/dnvriend/google-gmail-tool/internal/core/ports/driven"
	"github.com/dnvriend/google-gmail-tool/internal/logger"
)

// Ensure Provider implements the TokenProvider interface.
var _ driven.TokenProvider = (*Provider)(nil)

// refreshBuffer refreshes tokens this long before actual expiry, so an
// access token never dies mid-command.
const refreshBuffer = 5 * time.Minute

// Provider implements driven.TokenProvider on top of a TokenStore.
// Expired access tokens are refreshed through the Google OAuth endpoint
// and the refreshed token is written back, so the next invocation of
// the CLI starts warm.
type Provider struct {
	store        *TokenStore
	clientID     string
	clientSecret string

	mu     sync.Mutex
	cached *domain.OAuthToken
}

// NewProvider creates a token provider. clientID and clientSecret are
// the OAuth client this tool was configured with.
func NewProvider(store *TokenStore, clientID, clientSecret string) *Provider {
	return &Provider{
		store:        store,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// GetToken returns a valid access token, refreshing and persisting it
// when the stored one is expired or close to it.
func (p *Provider) GetToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	token := p.cached
	if token == nil {
		loaded, err := p.store.Load()
		if err != nil {
			return "", err
		}
		token = loaded
	}

	if !needsRefresh(token) {
		p.cached = token
		return token.AccessToken, nil
	}

	if token.RefreshToken == "" {
		return "", fmt.Errorf("access token expired and no refresh token stored: %w", domain.ErrAuthRequired)
	}

	refreshed, err := p.refresh(ctx, token)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}

	if err := p.store.Save(refreshed); err != nil {
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}
	logger.Debug("auth: refreshed access token, new expiry %s", refreshed.Expiry.Format(time.RFC3339))

	p.cached = refreshed
	return refreshed.AccessToken, nil
}

// IsAuthenticated reports whether stored credentials exist. It does not
// guarantee they are still accepted by Google.
func (p *Provider) IsAuthenticated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return true
	}
	_, err := p.store.Load()
	return err == nil
}

// refresh exchanges the refresh token for a new access token.
func (p *Provider) refresh(ctx context.Context, token *domain.OAuthToken) (*domain.OAuthToken, error) {
	cfg := &oauth2.Config{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		Endpoint:     google.Endpoint,
	}

	src := cfg.TokenSource(ctx, &oauth2.Token{
		RefreshToken: token.RefreshToken,
	})
	fresh, err := src.Token()
	if err != nil {
		return nil, err
	}

	out := &domain.OAuthToken{
		AccessToken:  fresh.AccessToken,
		RefreshToken: fresh.RefreshToken,
		TokenType:    fresh.TokenType,
		Expiry:       fresh.Expiry,
	}
	// Google usually omits the refresh token on refresh responses.
	if out.RefreshToken == "" {
		out.RefreshToken = token.RefreshToken
	}
	return out, nil
}

func needsRefresh(token *domain.OAuthToken) bool {
	if token.AccessToken == "" {
		return true
	}
	if token.Expiry.IsZero() {
		return false
	}
	return time.Until(token.Expiry) < refreshBuffer
}
