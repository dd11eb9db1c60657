// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [search term]",
	Short: "Export headlines, trend and saved records to YAML or JSON",
	Long: `Export writes a report of the filtered headlines, the trend over the whole
catalog, and the current user's saved records. Without --output the report
goes to stdout; with it the format follows the file extension unless
--format is given.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.session.WaitLoaded(cmd.Context()); err != nil {
		logger.Warn("exporting without saved state", "error", err)
	}

	filter, _ := cmd.Flags().GetString("sentiment")
	report, err := a.session.Report(filter, searchTerm(cmd, args))
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		return report.Write(cmd.OutOrStdout(), format)
	}

	if err := report.WriteFile(output, format); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
	return nil
}

func init() {
	addQueryFlags(exportCmd)
	exportCmd.Flags().String("format", "", "export format: yaml or json (default yaml, or from --output extension)")
	exportCmd.Flags().StringP("output", "o", "", "write the report to this file instead of stdout")

	rootCmd.AddCommand(exportCmd)
}
