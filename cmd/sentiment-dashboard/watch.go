// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [search term]",
	Short: "Live view that re-renders whenever the saved set changes",
	Long: `Watch prints the filtered headlines and the trend, then prints them again
every time the current user's saved set changes, whether the change came
from this machine or another process sharing the store. Save and remove
outcomes from this session are printed as they settle. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	filter, _ := cmd.Flags().GetString("sentiment")
	term := searchTerm(cmd, args)
	if _, err := a.session.Query(filter, term); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	render := func() {
		list, _ := a.session.Query(filter, term)
		fmt.Fprintf(out, "\n=== %s  user=%q ===\n", time.Now().Format(time.TimeOnly), a.session.UserID())
		renderHeadlines(out, list)
		fmt.Fprintln(out)
		renderTrend(out, a.session.Trend())
		if err := a.session.SubscriptionErr(); err != nil {
			fmt.Fprintf(out, "\nsaved state may be stale: %v\n", err)
		}
	}

	render()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.session.Changes():
			render()
		case st := <-a.session.Statuses():
			fmt.Fprintln(out, st.Message())
		}
	}
}

func init() {
	addQueryFlags(watchCmd)

	rootCmd.AddCommand(watchCmd)
}
