package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Translate a question into a version store query",
	Long: `Ask a language model deployment to translate a question about list
history into a SQL query.

Examples:
  risklists query "Which risks were closed last week?"
  risklists query --model o1 "How many mitigations changed owner?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

var queryModel string

func init() {
	queryCmd.Flags().StringVarP(&queryModel, "model", "m", "gpt-4o", "deployment name (gpt-4o or o1)")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}
	translation, err := queryService.Translate(cmdContext(cmd), strings.Join(args, " "), queryModel)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), translation.Response)
	return err
}
