// Package sharepoint reads list items and document library files from a
// SharePoint site through Microsoft Graph.
package sharepoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/custodia-labs/risklists/internal/connectors/microsoft"
	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/core/ports/driven"
	"github.com/custodia-labs/risklists/internal/logger"
)

// Ensure Connector implements the interfaces.
var (
	_ driven.ListSource = (*Connector)(nil)
	_ driven.FileSource = (*Connector)(nil)
)

// ErrSiteNotConfigured indicates the hostname or site path is missing.
var ErrSiteNotConfigured = fmt.Errorf("sharepoint: hostname and site path are required: %w", domain.ErrNotConfigured)

// Connector fetches lists and files from one SharePoint site.
type Connector struct {
	config *Config
	lists  *microsoft.Client
	files  *microsoft.Client

	mu      sync.Mutex
	siteID  string
	driveID string
}

// New creates a SharePoint connector.
func New(cfg *Config, tokenProvider driven.TokenProvider) (*Connector, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Hostname == "" || cfg.SitePath == "" {
		return nil, ErrSiteNotConfigured
	}
	return &Connector{
		config: cfg,
		lists:  microsoft.NewClient(cfg.BaseURL, tokenProvider, microsoft.NewRateLimiter(microsoft.ServiceLists)),
		files:  microsoft.NewClient(cfg.BaseURL, tokenProvider, microsoft.NewRateLimiter(microsoft.ServiceFiles)),
	}, nil
}

// ResolveSite returns the Graph id of the configured site.
func (c *Connector) ResolveSite(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.siteID != "" {
		return c.siteID, nil
	}

	var site struct {
		ID string `json:"id"`
	}
	path := fmt.Sprintf("sites/%s:%s", c.config.Hostname, c.config.SitePath)
	if err := c.lists.GetJSON(ctx, c.lists.URL(path), &site); err != nil {
		return "", fmt.Errorf("resolve site %s%s: %w", c.config.Hostname, c.config.SitePath, err)
	}
	if site.ID == "" {
		return "", fmt.Errorf("resolve site %s%s: empty id: %w", c.config.Hostname, c.config.SitePath, microsoft.ErrNotFound)
	}

	logger.Debug("sharepoint: resolved site %s%s to %s", c.config.Hostname, c.config.SitePath, site.ID)
	c.siteID = site.ID
	return c.siteID, nil
}

// ListNames returns the display names of every list on the site.
func (c *Connector) ListNames(ctx context.Context) ([]string, error) {
	siteID, err := c.ResolveSite(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := c.lists.Collect(ctx, c.lists.URL(fmt.Sprintf("sites/%s/lists?$select=displayName", siteID)))
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}

	names := make([]string, 0, len(raw))
	for _, r := range raw {
		var l struct {
			DisplayName string `json:"displayName"`
		}
		if err := json.Unmarshal(r, &l); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		names = append(names, l.DisplayName)
	}
	return names, nil
}

// FindList returns the site's display name matching name, ignoring case
// and spaces.
func (c *Connector) FindList(ctx context.Context, name string) (string, error) {
	names, err := c.ListNames(ctx)
	if err != nil {
		return "", err
	}
	want := squash(name)
	for _, n := range names {
		if squash(n) == want {
			return n, nil
		}
	}
	return "", fmt.Errorf("list %q: %w", name, microsoft.ErrNotFound)
}

// FetchItems returns every item of the list with its fields expanded.
func (c *Connector) FetchItems(ctx context.Context, listName string) ([]domain.Value, error) {
	siteID, err := c.ResolveSite(ctx)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("sites/%s/lists/%s/items?expand=fields&$top=%d",
		siteID, url.PathEscape(listName), c.config.PageSize)
	raw, err := c.lists.Collect(ctx, c.lists.URL(path))
	if err != nil {
		return nil, fmt.Errorf("fetch %s items: %w", listName, err)
	}

	items := make([]domain.Value, 0, len(raw))
	for i, r := range raw {
		v, err := domain.ParseJSON(r)
		if err != nil {
			return nil, fmt.Errorf("decode %s item %d: %w", listName, i, err)
		}
		items = append(items, v)
	}

	logger.Debug("sharepoint: fetched %d items from %s", len(items), listName)
	return items, nil
}

// DownloadFile reads a file from the configured document library.
// Returns domain.ErrNotFound for an invalid file path.
func (c *Connector) DownloadFile(ctx context.Context, path string) ([]byte, error) {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return nil, fmt.Errorf("%w: file path is required", domain.ErrInvalidInput)
	}

	driveID, err := c.resolveDrive(ctx)
	if err != nil {
		return nil, err
	}

	target := c.files.URL(fmt.Sprintf("drives/%s/root:/%s:/content", driveID, escapePath(path)))
	data, err := c.files.Download(ctx, target, c.config.MaxFileSize)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("invalid file path %q: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", path, err)
	}
	return data, nil
}

func (c *Connector) resolveDrive(ctx context.Context) (string, error) {
	siteID, err := c.ResolveSite(ctx)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.driveID != "" {
		return c.driveID, nil
	}

	raw, err := c.files.Collect(ctx, c.files.URL(fmt.Sprintf("sites/%s/drives", siteID)))
	if err != nil {
		return "", fmt.Errorf("list drives: %w", err)
	}
	for _, r := range raw {
		var d struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(r, &d); err != nil {
			return "", fmt.Errorf("decode drive: %w", err)
		}
		if d.Name == c.config.DriveName {
			c.driveID = d.ID
			return d.ID, nil
		}
	}
	return "", fmt.Errorf("drive %q: %w", c.config.DriveName, microsoft.ErrNotFound)
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

func squash(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
