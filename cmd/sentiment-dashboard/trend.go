// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show the daily average sentiment across the whole catalog",
	RunE:  runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	points := a.session.Trend()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), points)
	}
	renderTrend(cmd.OutOrStdout(), points)
	return nil
}

func init() {
	trendCmd.Flags().Bool("json", false, "output the trend as JSON")

	rootCmd.AddCommand(trendCmd)
}
