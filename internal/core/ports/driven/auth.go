package driven

import "context"

// TokenProvider supplies bearer tokens for Microsoft Graph.
type TokenProvider interface {
	// GetToken returns a valid access token, refreshing it when needed.
	GetToken(ctx context.Context) (string, error)
}
