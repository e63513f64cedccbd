package sharepoint

import (
	"strconv"
	"strings"
)

// MaxFileSize is the default download cap (50MB).
const MaxFileSize = 50 * 1024 * 1024

// Config holds SharePoint connector configuration.
type Config struct {
	// Hostname is the tenant host, e.g. contoso.sharepoint.com.
	Hostname string
	// SitePath is the server-relative site path, e.g. /sites/RiskManagement.
	SitePath string
	// PageSize is the $top value for list item requests.
	PageSize int
	// DriveName is the document library used for file downloads.
	DriveName string
	// MaxFileSize caps downloads in bytes.
	MaxFileSize int64
	// BaseURL overrides the Graph endpoint.
	BaseURL string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PageSize:    200,
		DriveName:   "Documents",
		MaxFileSize: MaxFileSize,
	}
}

// ParseConfig builds a configuration from string settings, keeping
// defaults for absent or invalid values.
func ParseConfig(settings map[string]string) *Config {
	cfg := DefaultConfig()

	cfg.Hostname = strings.TrimSpace(settings["hostname"])
	cfg.BaseURL = strings.TrimSpace(settings["base_url"])

	if val := strings.TrimSpace(settings["site_path"]); val != "" {
		cfg.SitePath = "/" + strings.Trim(val, "/")
	}

	if val := settings["page_size"]; val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}

	if val := strings.TrimSpace(settings["drive_name"]); val != "" {
		cfg.DriveName = val
	}

	if val := settings["max_file_size"]; val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil && n > 0 {
			cfg.MaxFileSize = n
		}
	}

	return cfg
}
