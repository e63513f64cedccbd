package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/risklists/internal/config"
)

// DefaultConfigPath is the config file read at startup and written by
// config init.
const DefaultConfigPath = "risklists.toml"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a commented configuration template",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := DefaultConfigPath
	if len(args) == 1 {
		path = args[0]
	}
	if err := config.WriteTemplate(path); err != nil {
		return err
	}
	cmd.Printf("Wrote %s\n", path)
	return nil
}
