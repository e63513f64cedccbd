// Package config loads runtime settings from environment variables and an
// optional TOML file.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix = "RISKLISTS"

	// customHandlerPortEnv is set by the Azure Functions host for custom
	// handlers and wins over http.address.
	customHandlerPortEnv = "FUNCTIONS_CUSTOMHANDLER_PORT"

	defaultHTTPAddress         = "0.0.0.0:8080"
	defaultLogLevel            = "info"
	defaultGraphAuthority      = "https://login.microsoftonline.com"
	defaultGraphBaseURL        = "https://graph.microsoft.com/v1.0"
	defaultPageSize            = 200
	defaultDriveName           = "Documents"
	defaultBlobBucket          = "risk-lists"
	defaultBlobLocalDir        = "data/blobs"
	defaultStoreDriver         = DriverSQLite
	defaultStoreDSN            = "file:risklists.db?_pragma=busy_timeout(5000)"
	defaultCacheTTL            = 10 * time.Minute
	defaultChatAPIVersion      = "2024-08-01-preview"
	defaultReasoningAPIVersion = "2024-12-01-preview"
	defaultSummaryDeployment   = "gpt-4o"
	defaultSyncInterval        = time.Hour
)

// Store drivers accepted by store.driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultSyncLists are uploaded by the timer when sync.lists is empty.
var DefaultSyncLists = []string{"Risk Register", "Risk Mitigations", "Follow Up"}

// AppConfig captures runtime configuration for every surface.
type AppConfig struct {
	LogLevel    string
	HTTPAddress string
	Graph       GraphConfig
	SharePoint  SharePointConfig
	Blob        BlobConfig
	Store       StoreConfig
	Cache       CacheConfig
	Search      SearchConfig
	AI          AIConfig
	Sync        SyncConfig
}

// GraphConfig holds the app registration used for client credentials.
type GraphConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Authority    string
	BaseURL      string
}

// Configured reports whether Graph credentials are present.
func (g GraphConfig) Configured() bool {
	return g.TenantID != "" && g.ClientID != "" && g.ClientSecret != ""
}

// SharePointConfig locates the site holding the lists.
type SharePointConfig struct {
	Hostname  string
	SitePath  string
	PageSize  int
	DriveName string
}

// BlobConfig selects object storage. An empty endpoint means the local
// directory store.
type BlobConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	LocalDir  string
}

// StoreConfig selects the version store database.
type StoreConfig struct {
	Driver string
	DSN    string
}

// CacheConfig enables the redis payload cache when RedisURL is set.
type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

// SearchConfig enables indexing of cleaned lists when MeiliURL is set.
type SearchConfig struct {
	MeiliURL string
	MeiliKey string
}

// AIConfig points at an Azure OpenAI resource.
type AIConfig struct {
	Endpoint            string
	APIKey              string
	ChatAPIVersion      string
	ReasoningAPIVersion string
	SummaryDeployment   string
	EmbeddingDeployment string
}

// Configured reports whether the language model endpoint is usable.
func (a AIConfig) Configured() bool {
	return a.Endpoint != "" && a.APIKey != ""
}

// SyncConfig drives the timer upload. A zero interval disables it.
type SyncConfig struct {
	Interval time.Duration
	Lists    []string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	v := viper.New()
	ApplyDefaults(v)
	return v
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("http.address", defaultHTTPAddress)
	v.SetDefault("graph.authority", defaultGraphAuthority)
	v.SetDefault("graph.base_url", defaultGraphBaseURL)
	v.SetDefault("graph.tenant_id", "")
	v.SetDefault("graph.client_id", "")
	v.SetDefault("graph.client_secret", "")
	v.SetDefault("sharepoint.hostname", "")
	v.SetDefault("sharepoint.site_path", "")
	v.SetDefault("sharepoint.page_size", defaultPageSize)
	v.SetDefault("sharepoint.drive_name", defaultDriveName)
	v.SetDefault("blob.endpoint", "")
	v.SetDefault("blob.access_key", "")
	v.SetDefault("blob.secret_key", "")
	v.SetDefault("blob.bucket", defaultBlobBucket)
	v.SetDefault("blob.use_ssl", true)
	v.SetDefault("blob.local_dir", defaultBlobLocalDir)
	v.SetDefault("store.driver", defaultStoreDriver)
	v.SetDefault("store.dsn", defaultStoreDSN)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", defaultCacheTTL)
	v.SetDefault("search.meili_url", "")
	v.SetDefault("search.meili_key", "")
	v.SetDefault("ai.endpoint", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.chat_api_version", defaultChatAPIVersion)
	v.SetDefault("ai.reasoning_api_version", defaultReasoningAPIVersion)
	v.SetDefault("ai.summary_deployment", defaultSummaryDeployment)
	v.SetDefault("ai.embedding_deployment", "")
	v.SetDefault("sync.interval", defaultSyncInterval)
	v.SetDefault("sync.lists", DefaultSyncLists)
}

// ReadFile merges a TOML config file into v. A missing file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load parses runtime configuration from viper.
func Load(v *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		LogLevel:    v.GetString("log.level"),
		HTTPAddress: v.GetString("http.address"),
		Graph: GraphConfig{
			TenantID:     v.GetString("graph.tenant_id"),
			ClientID:     v.GetString("graph.client_id"),
			ClientSecret: v.GetString("graph.client_secret"),
			Authority:    strings.TrimRight(v.GetString("graph.authority"), "/"),
			BaseURL:      strings.TrimRight(v.GetString("graph.base_url"), "/"),
		},
		SharePoint: SharePointConfig{
			Hostname:  v.GetString("sharepoint.hostname"),
			SitePath:  v.GetString("sharepoint.site_path"),
			PageSize:  v.GetInt("sharepoint.page_size"),
			DriveName: v.GetString("sharepoint.drive_name"),
		},
		Blob: BlobConfig{
			Endpoint:  v.GetString("blob.endpoint"),
			AccessKey: v.GetString("blob.access_key"),
			SecretKey: v.GetString("blob.secret_key"),
			Bucket:    v.GetString("blob.bucket"),
			UseSSL:    v.GetBool("blob.use_ssl"),
			LocalDir:  v.GetString("blob.local_dir"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
			DSN:    v.GetString("store.dsn"),
		},
		Cache: CacheConfig{
			RedisURL: v.GetString("cache.redis_url"),
			TTL:      v.GetDuration("cache.ttl"),
		},
		Search: SearchConfig{
			MeiliURL: v.GetString("search.meili_url"),
			MeiliKey: v.GetString("search.meili_key"),
		},
		AI: AIConfig{
			Endpoint:            v.GetString("ai.endpoint"),
			APIKey:              v.GetString("ai.api_key"),
			ChatAPIVersion:      v.GetString("ai.chat_api_version"),
			ReasoningAPIVersion: v.GetString("ai.reasoning_api_version"),
			SummaryDeployment:   v.GetString("ai.summary_deployment"),
			EmbeddingDeployment: v.GetString("ai.embedding_deployment"),
		},
		Sync: SyncConfig{
			Interval: v.GetDuration("sync.interval"),
			Lists:    v.GetStringSlice("sync.lists"),
		},
	}

	if port := strings.TrimSpace(os.Getenv(customHandlerPortEnv)); port != "" {
		cfg.HTTPAddress = net.JoinHostPort("", port)
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

// SiteConfigured reports whether SharePoint can be reached.
func (c AppConfig) SiteConfigured() bool {
	return c.Graph.Configured() && c.SharePoint.Hostname != "" && c.SharePoint.SitePath != ""
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.HTTPAddress) == "" {
		return fmt.Errorf("http.address is required")
	}
	if c.Store.Driver != DriverSQLite && c.Store.Driver != DriverPostgres {
		return fmt.Errorf("store.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Store.Driver)
	}
	if strings.TrimSpace(c.Store.DSN) == "" {
		return fmt.Errorf("store.dsn is required")
	}
	if c.SharePoint.PageSize <= 0 {
		return fmt.Errorf("sharepoint.page_size must be positive")
	}
	if c.Sync.Interval < 0 {
		return fmt.Errorf("sync.interval must not be negative")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if c.Blob.Endpoint == "" && strings.TrimSpace(c.Blob.LocalDir) == "" {
		return fmt.Errorf("blob.local_dir is required when blob.endpoint is empty")
	}
	if c.Blob.Endpoint != "" && strings.TrimSpace(c.Blob.Bucket) == "" {
		return fmt.Errorf("blob.bucket is required")
	}
	return nil
}
