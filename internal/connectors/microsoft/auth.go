package microsoft

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/custodia-labs/risklists/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.TokenProvider = (*ClientCredentials)(nil)

// GraphScope requests every application permission granted to the app.
const GraphScope = "https://graph.microsoft.com/.default"

// DefaultAuthority is the public cloud identity endpoint.
const DefaultAuthority = "https://login.microsoftonline.com"

// ErrMissingCredentials indicates the app registration is incomplete.
var ErrMissingCredentials = errors.New("microsoft: tenant id, client id and client secret are required")

// CredentialsConfig identifies an app registration.
type CredentialsConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	// Authority defaults to DefaultAuthority.
	Authority string
	// HTTPClient is used for token requests when set.
	HTTPClient *http.Client
}

// ClientCredentials obtains app-only Graph tokens and caches them until
// shortly before expiry.
type ClientCredentials struct {
	cfg        clientcredentials.Config
	httpClient *http.Client

	mu    sync.Mutex
	token *oauth2.Token
}

// NewClientCredentials creates a token provider for the app registration.
func NewClientCredentials(c CredentialsConfig) (*ClientCredentials, error) {
	if c.TenantID == "" || c.ClientID == "" || c.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}
	authority := strings.TrimRight(c.Authority, "/")
	if authority == "" {
		authority = DefaultAuthority
	}

	return &ClientCredentials{
		cfg: clientcredentials.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", authority, c.TenantID),
			Scopes:       []string{GraphScope},
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: c.HTTPClient,
	}, nil
}

// GetToken returns a cached token or requests a new one.
func (c *ClientCredentials) GetToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token.Valid() {
		return c.token.AccessToken, nil
	}

	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	tok, err := c.cfg.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthorised, err)
	}
	c.token = tok
	return tok.AccessToken, nil
}

// TokenURL returns the token endpoint in use.
func (c *ClientCredentials) TokenURL() string {
	return c.cfg.TokenURL
}
