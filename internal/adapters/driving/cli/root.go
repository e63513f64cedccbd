package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/risklists/internal/core/ports/driving"
	"github.com/custodia-labs/risklists/internal/core/services"
	"github.com/custodia-labs/risklists/internal/logger"
)

var (
	// Version is set by goreleaser ldflags.
	version = "dev"

	// Verbose enables debug logging.
	verbose bool

	// Services holds injected service implementations for CLI commands.
	listService         driving.ListService
	historyService      driving.HistoryService
	queryService        driving.QueryService
	presentationService driving.PresentationService
	syncScheduler       *services.Scheduler

	// serverConfig configures the serve command.
	serverConfig = ServerConfig{Address: "0.0.0.0:8080"}
)

// Services holds configuration for CLI commands.
type Services struct {
	List         driving.ListService
	History      driving.HistoryService
	Query        driving.QueryService
	Presentation driving.PresentationService
	Scheduler    *services.Scheduler
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	Address      string
	AllowOrigins []string
}

// SetServices injects service implementations for CLI commands.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	listService = s.List
	historyService = s.History
	queryService = s.Query
	presentationService = s.Presentation
	syncScheduler = s.Scheduler
}

// SetServerConfig injects the HTTP server settings.
func SetServerConfig(cfg ServerConfig) {
	if cfg.Address != "" {
		serverConfig.Address = cfg.Address
	}
	serverConfig.AllowOrigins = cfg.AllowOrigins
}

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "risklists",
	Short: "Clean, merge and track SharePoint risk lists",
	Long: `Risklists pulls the Risk Register, Risk Mitigations and Follow up lists
from SharePoint, cleans them against their schemas and merges risks with
their mitigations.

It also compares stored item versions, translates questions into version
store queries and extracts tables from presentations.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")

	// Use PersistentPreRunE to set verbose mode before any command executes
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	}
}
