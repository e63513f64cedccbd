package microsoft

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/risklists/internal/core/ports/driven"
	"github.com/custodia-labs/risklists/internal/logger"
)

// DefaultBaseURL is the Graph v1.0 endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// maxErrorBody bounds how much of a failed response is logged.
const maxErrorBody = 2048

// Client issues authenticated, rate-limited Graph requests.
type Client struct {
	baseURL    string
	tokens     driven.TokenProvider
	limiter    *RateLimiter
	httpClient *http.Client
}

// NewClient creates a Graph client. An empty baseURL means DefaultBaseURL.
func NewClient(baseURL string, tokens driven.TokenProvider, limiter *RateLimiter) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if limiter == nil {
		limiter = NewRateLimiter(ServiceLists)
	}
	return &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		limiter:    limiter,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// URL joins path onto the base URL.
func (c *Client) URL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Get performs a GET and returns the response when the status is 2xx.
// The caller closes the body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	token, err := c.tokens.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Debug("microsoft: %s returned %d: %s", req.URL.Path, resp.StatusCode, string(body))
		if IsRateLimited(resp.StatusCode) {
			c.limiter.RecordRateLimitError(RetryAfter(resp.Header))
		}
		return nil, fmt.Errorf("request %s failed with status %d: %w",
			req.URL.Path, resp.StatusCode, WrapError(resp.StatusCode))
	}

	return resp, nil
}

// GetJSON decodes a 2xx response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// collectionPage is one page of a Graph collection.
type collectionPage struct {
	Value    []json.RawMessage `json:"value"`
	NextLink string            `json:"@odata.nextLink"`
}

// Collect follows @odata.nextLink from url and returns every element.
func (c *Client) Collect(ctx context.Context, url string) ([]json.RawMessage, error) {
	var all []json.RawMessage
	for pages := 1; url != ""; pages++ {
		var page collectionPage
		if err := c.GetJSON(ctx, url, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Value...)
		logger.Debug("microsoft: page %d returned %d items", pages, len(page.Value))
		url = page.NextLink
	}
	return all, nil
}

// Download reads a 2xx response body of at most limit bytes.
func (c *Client) Download(ctx context.Context, url string, limit int64) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("download exceeds %d bytes", limit)
	}
	return data, nil
}
