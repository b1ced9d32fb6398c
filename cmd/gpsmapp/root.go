package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds the gpsmapp command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gpsmapp",
		Short: "GPS location logger with a live marker map",
		Long: `gpsmapp stores device locations, keeps a map session whose markers
mirror the newest history and serves it to the browser pages together
with the memory lock API.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newHistoryCmd(), newRecordCmd())

	return root
}
