package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/krople/gpsmapp/internal/mapview"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the newest stored locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := newApp(cmd.Context(), prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer application.Close()

			records, err := application.locations.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			return printHistory(cmd.OutOrStdout(), application.reconciler.Plan(records))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of records to print (default: configured history limit)")

	return cmd
}

// printHistory writes one row per planned marker, newest first, with the
// marker label and detail values shown on the map.
func printHistory(w io.Writer, plan mapview.Plan) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tTIME\tLATITUDE\tLONGITUDE\tACCURACY")
	for _, entry := range plan.Markers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			entry.Label.Text, entry.Detail.Time, entry.Detail.Latitude, entry.Detail.Longitude, entry.Detail.Accuracy)
	}

	return tw.Flush()
}
