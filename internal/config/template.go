package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type fileConfig struct {
	Log        logSection        `toml:"log"`
	HTTP       httpSection       `toml:"http"`
	Graph      graphSection      `toml:"graph" comment:"Entra ID app registration with Sites.Read.All"`
	SharePoint sharePointSection `toml:"sharepoint"`
	Blob       blobSection       `toml:"blob" comment:"Leave endpoint empty to store blobs under local_dir"`
	Store      storeSection      `toml:"store" comment:"Version history store, sqlite or postgres"`
	Cache      cacheSection      `toml:"cache"`
	Search     searchSection     `toml:"search"`
	AI         aiSection         `toml:"ai" comment:"Azure OpenAI resource used for queries and summaries"`
	Sync       syncSection       `toml:"sync" comment:"Set interval to 0s to disable the timer upload"`
}

type logSection struct {
	Level string `toml:"level" comment:"debug, info, warn or error"`
}

type httpSection struct {
	Address string `toml:"address"`
}

type graphSection struct {
	TenantID     string `toml:"tenant_id"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	Authority    string `toml:"authority"`
	BaseURL      string `toml:"base_url"`
}

type sharePointSection struct {
	Hostname  string `toml:"hostname" comment:"e.g. contoso.sharepoint.com"`
	SitePath  string `toml:"site_path" comment:"e.g. /sites/RiskManagement"`
	PageSize  int    `toml:"page_size"`
	DriveName string `toml:"drive_name"`
}

type blobSection struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
	LocalDir  string `toml:"local_dir"`
}

type storeSection struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

type cacheSection struct {
	RedisURL string `toml:"redis_url"`
	TTL      string `toml:"ttl"`
}

type searchSection struct {
	MeiliURL string `toml:"meili_url"`
	MeiliKey string `toml:"meili_key"`
}

type aiSection struct {
	Endpoint            string `toml:"endpoint"`
	APIKey              string `toml:"api_key"`
	ChatAPIVersion      string `toml:"chat_api_version"`
	ReasoningAPIVersion string `toml:"reasoning_api_version"`
	SummaryDeployment   string `toml:"summary_deployment"`
	EmbeddingDeployment string `toml:"embedding_deployment" comment:"Optional, adds Embeddings to merged records"`
}

type syncSection struct {
	Interval string   `toml:"interval"`
	Lists    []string `toml:"lists"`
}

// Template renders the default configuration as commented TOML.
func Template() ([]byte, error) {
	cfg, err := Load(NewViper())
	if err != nil {
		return nil, err
	}

	doc := fileConfig{
		Log:  logSection{Level: cfg.LogLevel},
		HTTP: httpSection{Address: cfg.HTTPAddress},
		Graph: graphSection{
			Authority: cfg.Graph.Authority,
			BaseURL:   cfg.Graph.BaseURL,
		},
		SharePoint: sharePointSection{
			PageSize:  cfg.SharePoint.PageSize,
			DriveName: cfg.SharePoint.DriveName,
		},
		Blob: blobSection{
			Bucket:   cfg.Blob.Bucket,
			UseSSL:   cfg.Blob.UseSSL,
			LocalDir: cfg.Blob.LocalDir,
		},
		Store: storeSection{Driver: cfg.Store.Driver, DSN: cfg.Store.DSN},
		Cache: cacheSection{TTL: cfg.Cache.TTL.String()},
		AI: aiSection{
			ChatAPIVersion:      cfg.AI.ChatAPIVersion,
			ReasoningAPIVersion: cfg.AI.ReasoningAPIVersion,
			SummaryDeployment:   cfg.AI.SummaryDeployment,
		},
		Sync: syncSection{Interval: cfg.Sync.Interval.String(), Lists: cfg.Sync.Lists},
	}

	return toml.Marshal(doc)
}

// WriteTemplate writes the default configuration to path. An existing file
// is left untouched.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	data, err := Template()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
