package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/risklists/internal/core/domain"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Sync, read, clean and merge SharePoint lists",
}

var listSyncCmd = &cobra.Command{
	Use:   "sync [list-name...]",
	Short: "Upload lists from SharePoint to blob storage",
	Long: `Fetch lists from SharePoint, clean them and store raw, cleaned and merged
payloads. With no arguments every configured list is synced.

Examples:
  risklists list sync
  risklists list sync riskregister "Follow up"`,
	RunE: runListSync,
}

var listGetCmd = &cobra.Command{
	Use:   "get [list-name]",
	Short: "Print the stored payload of a list",
	Args:  cobra.ExactArgs(1),
	RunE:  runListGet,
}

var listCleanCmd = &cobra.Command{
	Use:   "clean [list-type] [file]",
	Short: "Clean a raw list payload file without storing it",
	Long: `Clean a JSON array of SharePoint list items read from a file, or from
stdin when the file is "-".`,
	Args: cobra.ExactArgs(2),
	RunE: runListClean,
}

var listMergeCmd = &cobra.Command{
	Use:   "merge [risks-file] [mitigations-file]",
	Short: "Clean and merge raw risk and mitigation payload files",
	Args:  cobra.ExactArgs(2),
	RunE:  runListMerge,
}

func init() {
	listCmd.AddCommand(listSyncCmd)
	listCmd.AddCommand(listGetCmd)
	listCmd.AddCommand(listCleanCmd)
	listCmd.AddCommand(listMergeCmd)
	rootCmd.AddCommand(listCmd)
}

func runListSync(cmd *cobra.Command, args []string) error {
	if listService == nil {
		return errors.New("list service not configured")
	}
	ctx := cmdContext(cmd)

	if len(args) == 0 {
		results, err := listService.SyncAll(ctx)
		for i := range results {
			printUpload(cmd, &results[i])
		}
		return err
	}

	var errs []error
	for _, name := range args {
		result, err := listService.Upload(ctx, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		printUpload(cmd, result)
	}
	return errors.Join(errs...)
}

func printUpload(cmd *cobra.Command, r *domain.UploadResult) {
	cmd.Printf("Run %s\n", r.RunID)
	for _, list := range r.Lists {
		cmd.Printf("  %s: %d records\n", list, r.RecordCounts[list])
	}
	for _, blob := range r.Blobs {
		cmd.Printf("  wrote %s\n", blob)
	}
	if r.MergeWarning != "" {
		cmd.Printf("  merge skipped: %s\n", r.MergeWarning)
	}
}

func runListGet(cmd *cobra.Command, args []string) error {
	if listService == nil {
		return errors.New("list service not configured")
	}
	items, err := listService.Get(cmdContext(cmd), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, items)
}

func runListClean(cmd *cobra.Command, args []string) error {
	if listService == nil {
		return errors.New("list service not configured")
	}
	items, err := readArray(cmd, args[1])
	if err != nil {
		return err
	}
	cleaned, err := listService.CleanLocal(items, args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, cleaned)
}

func runListMerge(cmd *cobra.Command, args []string) error {
	if listService == nil {
		return errors.New("list service not configured")
	}
	risks, err := readArray(cmd, args[0])
	if err != nil {
		return err
	}
	mitigations, err := readArray(cmd, args[1])
	if err != nil {
		return err
	}
	merged, err := listService.MergeLocal(risks, mitigations)
	if err != nil {
		return err
	}
	return printJSON(cmd, merged)
}

// cmdContext returns the command context, or a background context when the
// command runs outside Execute.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
