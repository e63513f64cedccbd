package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var pptxCmd = &cobra.Command{
	Use:   "pptx [path]",
	Short: "Extract slide tables from a presentation on SharePoint",
	Long: `Download a presentation from the site document library and print the
title and tables of every slide.

Example:
  risklists pptx "Reports/Q1 risk review.pptx"`,
	Args: cobra.ExactArgs(1),
	RunE: runPPTX,
}

func init() {
	rootCmd.AddCommand(pptxCmd)
}

func runPPTX(cmd *cobra.Command, args []string) error {
	if presentationService == nil {
		return errors.New("presentation service not configured")
	}
	slides, err := presentationService.Extract(cmdContext(cmd), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, slides)
}
