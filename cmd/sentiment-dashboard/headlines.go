// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var headlinesCmd = &cobra.Command{
	Use:   "headlines [search term]",
	Short: "List scored headlines, optionally filtered",
	Long: `Headlines prints the catalog with each headline's sentiment label, score,
and whether the current user has saved it. --sentiment keeps one label;
a search term keeps headlines whose title or source contains it
(case-insensitive). Both filters combine.`,
	RunE: runHeadlines,
}

func runHeadlines(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.session.WaitLoaded(cmd.Context()); err != nil {
		logger.Warn("showing headlines without saved state", "error", err)
	}

	filter, _ := cmd.Flags().GetString("sentiment")
	list, err := a.session.Query(filter, searchTerm(cmd, args))
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), list)
	}
	renderHeadlines(cmd.OutOrStdout(), list)
	return nil
}

// searchTerm prefers --search and falls back to positional arguments.
func searchTerm(cmd *cobra.Command, args []string) string {
	term, _ := cmd.Flags().GetString("search")
	if term == "" && len(args) > 0 {
		term = strings.Join(args, " ")
	}
	return term
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("sentiment", "all", "sentiment filter: all, positive, negative, neutral")
	cmd.Flags().String("search", "", "case-insensitive match on title or source")
}

func init() {
	addQueryFlags(headlinesCmd)
	headlinesCmd.Flags().Bool("json", false, "output headlines as JSON")

	rootCmd.AddCommand(headlinesCmd)
}
