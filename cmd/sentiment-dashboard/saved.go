// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List the current user's saved headlines, newest first",
	RunE:  runSaved,
}

func runSaved(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.requireUser(); err != nil {
		return err
	}
	if err := a.session.WaitLoaded(cmd.Context()); err != nil {
		return err
	}

	records := a.session.SavedRecords()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), records)
	}
	renderSaved(cmd.OutOrStdout(), records)
	return nil
}

func init() {
	savedCmd.Flags().Bool("json", false, "output saved records as JSON")

	rootCmd.AddCommand(savedCmd)
}
