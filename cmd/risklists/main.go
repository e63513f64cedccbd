package main

import (
	"context"
	"os"

	"github.com/custodia-labs/risklists/internal/adapters/driven/ai"
	"github.com/custodia-labs/risklists/internal/adapters/driven/blob/filesystem"
	"github.com/custodia-labs/risklists/internal/adapters/driven/blob/objectstore"
	"github.com/custodia-labs/risklists/internal/adapters/driven/cache/rediscache"
	"github.com/custodia-labs/risklists/internal/adapters/driven/search/meili"
	"github.com/custodia-labs/risklists/internal/adapters/driven/storage/sqlstore"
	"github.com/custodia-labs/risklists/internal/adapters/driving/cli"
	"github.com/custodia-labs/risklists/internal/config"
	"github.com/custodia-labs/risklists/internal/connectors/microsoft"
	"github.com/custodia-labs/risklists/internal/connectors/microsoft/sharepoint"
	"github.com/custodia-labs/risklists/internal/core/ports/driven"
	"github.com/custodia-labs/risklists/internal/core/services"
	"github.com/custodia-labs/risklists/internal/logger"
	"github.com/custodia-labs/risklists/internal/normalisers"
	"github.com/custodia-labs/risklists/internal/pptx"
)

var version = "dev"

func main() {
	os.Exit(run())
}

//nolint:funlen // main initialisation requires sequential setup of all dependencies
func run() int {
	cli.SetVersion(version)
	defer logger.Sync()

	ctx := context.Background()

	configPath := os.Getenv("RISKLISTS_CONFIG")
	if configPath == "" {
		configPath = cli.DefaultConfigPath
	}
	v := config.NewViper()
	if err := config.ReadFile(v, configPath); err != nil {
		logger.Error("failed to read config: %v", err)
		return 1
	}
	cfg, err := config.Load(v)
	if err != nil {
		logger.Error("failed to load config: %v", err)
		return 1
	}
	logger.SetLevel(cfg.LogLevel)

	schemas := normalisers.NewRegistry()

	// Graph access is optional: offline commands (clean, merge, diff) work without it.
	var (
		source driven.ListSource
		files  driven.FileSource
	)
	if cfg.SiteConfigured() {
		tokens, err := microsoft.NewClientCredentials(microsoft.CredentialsConfig{
			TenantID:     cfg.Graph.TenantID,
			ClientID:     cfg.Graph.ClientID,
			ClientSecret: cfg.Graph.ClientSecret,
			Authority:    cfg.Graph.Authority,
		})
		if err != nil {
			logger.Error("failed to create graph credentials: %v", err)
			return 1
		}
		connector, err := sharepoint.New(&sharepoint.Config{
			Hostname:    cfg.SharePoint.Hostname,
			SitePath:    cfg.SharePoint.SitePath,
			PageSize:    cfg.SharePoint.PageSize,
			DriveName:   cfg.SharePoint.DriveName,
			MaxFileSize: sharepoint.MaxFileSize,
			BaseURL:     cfg.Graph.BaseURL,
		}, tokens)
		if err != nil {
			logger.Error("failed to create sharepoint connector: %v", err)
			return 1
		}
		source, files = connector, connector
	} else {
		logger.Warn("SharePoint is not configured; list sync and pptx extraction are unavailable")
	}

	var blobs driven.BlobStore
	if cfg.Blob.Endpoint != "" {
		store, err := objectstore.New(ctx, objectstore.Config{
			Endpoint:  cfg.Blob.Endpoint,
			AccessKey: cfg.Blob.AccessKey,
			SecretKey: cfg.Blob.SecretKey,
			Bucket:    cfg.Blob.Bucket,
			UseSSL:    cfg.Blob.UseSSL,
		})
		if err != nil {
			logger.Error("failed to open object storage: %v", err)
			return 1
		}
		blobs = store
	} else {
		store, err := filesystem.New(cfg.Blob.LocalDir)
		if err != nil {
			logger.Error("failed to open blob directory: %v", err)
			return 1
		}
		blobs = store
	}

	versions, err := sqlstore.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		logger.Error("failed to open version store: %v", err)
		return 1
	}
	defer versions.Close()

	listSvc := services.NewListService(source, schemas, blobs)
	listSvc.SetSyncLists(cfg.Sync.Lists)
	historySvc := services.NewHistoryService(versions)

	if cfg.Cache.RedisURL != "" {
		cache, err := rediscache.New(cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			logger.Warn("cache disabled, fell back to direct blob reads: %v", err)
		} else {
			defer cache.Close()
			listSvc.SetCache(cache)
		}
	}

	if cfg.Search.MeiliURL != "" {
		indexer, err := meili.New(cfg.Search.MeiliURL, cfg.Search.MeiliKey)
		if err != nil {
			logger.Warn("search indexing disabled: %v", err)
		} else {
			listSvc.SetIndexer(indexer)
		}
	}

	var querySvc *services.QueryService
	if cfg.AI.Configured() {
		aiClient, err := ai.New(ai.Config{
			Endpoint:            cfg.AI.Endpoint,
			APIKey:              cfg.AI.APIKey,
			ChatAPIVersion:      cfg.AI.ChatAPIVersion,
			ReasoningAPIVersion: cfg.AI.ReasoningAPIVersion,
			EmbeddingDeployment: cfg.AI.EmbeddingDeployment,
		})
		if err != nil {
			logger.Warn("language model disabled, fell back to plain diffs: %v", err)
		} else {
			if cfg.AI.EmbeddingDeployment != "" {
				listSvc.SetEmbedder(aiClient)
			}
			historySvc.SetLanguageModel(aiClient, cfg.AI.SummaryDeployment)
			querySvc = services.NewQueryService(aiClient)
		}
	} else {
		logger.Warn("AI is not configured; query translation and change summaries are unavailable")
	}

	var presentationSvc *services.PresentationService
	if files != nil {
		presentationSvc = services.NewPresentationService(files, pptx.Parser{})
	}

	svc := &cli.Services{
		List:      listSvc,
		History:   historySvc,
		Scheduler: services.NewScheduler(listSvc, cfg.Sync.Interval),
	}
	if querySvc != nil {
		svc.Query = querySvc
	}
	if presentationSvc != nil {
		svc.Presentation = presentationSvc
	}
	cli.SetServices(svc)
	cli.SetServerConfig(cli.ServerConfig{Address: cfg.HTTPAddress})

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}
