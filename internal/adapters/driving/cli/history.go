package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Compare stored versions of list items",
}

var historyCompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare stored versions of an item",
	Long: `Compare the stored versions of a list item, or of every item of a
category within a date window.

Examples:
  risklists history compare --id 5 --category "Risk Register"
  risklists history compare --category "Risk Register" --start 2025-03-01T00:00:00 --end 2025-03-31T23:59:59`,
	Args: cobra.NoArgs,
	RunE: runHistoryCompare,
}

var historyDiffCmd = &cobra.Command{
	Use:   "diff [file]",
	Short: "Diff version snapshots read from a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDiff,
}

var historyImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Store version snapshots read from a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryImport,
}

// Flags for history compare.
var (
	historyID       string
	historyCategory string
	historyStart    string
	historyEnd      string
)

func init() {
	historyCompareCmd.Flags().StringVar(&historyID, "id", "", "list item ID")
	historyCompareCmd.Flags().StringVar(&historyCategory, "category", "", "version category (list name)")
	historyCompareCmd.Flags().StringVar(&historyStart, "start", "", "ISO-8601 start of the window")
	historyCompareCmd.Flags().StringVar(&historyEnd, "end", "", "ISO-8601 end of the window")

	historyCmd.AddCommand(historyCompareCmd)
	historyCmd.AddCommand(historyDiffCmd)
	historyCmd.AddCommand(historyImportCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryCompare(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	result, err := historyService.Compare(cmdContext(cmd), domain.VersionQuery{
		ID:              historyID,
		VersionCategory: historyCategory,
		StartDate:       historyStart,
		EndDate:         historyEnd,
	})
	if err != nil {
		return err
	}
	if result.Message != "" {
		cmd.Println(result.Message)
		return nil
	}
	return printJSON(cmd, result)
}

func runHistoryDiff(cmd *cobra.Command, args []string) error {
	items, err := readArray(cmd, args[0])
	if err != nil {
		return err
	}
	versions := make([]*domain.Object, 0, len(items))
	for _, item := range items {
		obj, ok := item.Object()
		if !ok {
			return errors.New("every snapshot must be a JSON object")
		}
		versions = append(versions, obj)
	}

	groups, err := history.Diff(versions)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		cmd.Println("No fields have been modified.")
		return nil
	}
	return printJSON(cmd, groups)
}

func runHistoryImport(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	items, err := readArray(cmd, args[0])
	if err != nil {
		return err
	}
	n, err := historyService.Import(cmdContext(cmd), items)
	if err != nil {
		return err
	}
	cmd.Printf("Imported %d snapshots\n", n)
	return nil
}
