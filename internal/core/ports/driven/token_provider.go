package driven

import "context"

// TokenProvider provides access tokens for authenticated API calls.
// Implementations handle token refresh transparently and persist
// refreshed tokens so the next invocation starts warm.
type TokenProvider interface {
	// GetToken returns a valid access token, refreshing if the stored
	// one has expired.
	GetToken(ctx context.Context) (string, error)

	// IsAuthenticated returns true if stored credentials are available.
	IsAuthenticated() bool
}
