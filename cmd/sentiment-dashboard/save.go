// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sentiment-dashboard/internal/controller"
	"github.com/pdiddy/sentiment-dashboard/internal/dashboard"
)

var saveCmd = &cobra.Command{
	Use:   "save <id>...",
	Short: "Save headlines for the current user",
	Long: `Save stores a copy of each headline (title, source, date, sentiment and
score) under the current user. Saving an already saved headline refreshes
it rather than adding a second copy.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWrite(cmd, args, (*dashboard.Session).Save)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>...",
	Short: "Remove saved headlines for the current user",
	Long: `Remove deletes each headline from the current user's saved set.
Removing a headline that is not saved succeeds.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWrite(cmd, args, (*dashboard.Session).Remove)
	},
}

type writeFunc func(s *dashboard.Session, ctx context.Context, id string) (*controller.Pending, error)

// runWrite issues one call per id, then waits for every outcome.
func runWrite(cmd *cobra.Command, args []string, write writeFunc) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.requireUser(); err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	failed := 0
	var pending []*controller.Pending
	for _, id := range args {
		p, err := write(a.session, cmd.Context(), id)
		if err != nil {
			fmt.Fprintln(errOut, err)
			failed++
			continue
		}
		pending = append(pending, p)
	}

	for _, p := range pending {
		st := p.Wait()
		switch st.Phase {
		case controller.PhaseFailed:
			fmt.Fprintln(errOut, st.Message())
			failed++
		case controller.PhaseSucceeded:
			fmt.Fprintln(out, st.Message())
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d operation(s) failed", failed, len(args))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(removeCmd)
}
