package main

import (
	"fmt"

	"github.com/krople/gpsmapp/internal/mapview"
	"github.com/krople/gpsmapp/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newRecordCmd() *cobra.Command {
	var (
		lat, lng                  float64
		accuracy, altitude, speed float64
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Store a location and print the resulting map plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc := models.Location{Latitude: lat, Longitude: lng}
			if cmd.Flags().Changed("accuracy") {
				loc.Accuracy = &accuracy
			}
			if cmd.Flags().Changed("altitude") {
				loc.Altitude = &altitude
			}
			if cmd.Flags().Changed("speed") {
				loc.Speed = &speed
			}

			application, err := newApp(cmd.Context(), prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer application.Close()

			saved, result, err := application.locations.Record(cmd.Context(), loc)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "recorded #%d at %.6f,%.6f (%s); %d markers, zoom %d centered on %.6f,%.6f\n",
				saved.ID, saved.Latitude, saved.Longitude,
				saved.Timestamp.In(application.zone).Format(mapview.DefaultTimeLayout), len(result.Entries),
				result.Viewport.Zoom, result.Viewport.Center.Latitude, result.Viewport.Center.Longitude)

			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude in degrees")
	cmd.Flags().Float64Var(&accuracy, "accuracy", 0, "accuracy radius in meters")
	cmd.Flags().Float64Var(&altitude, "altitude", 0, "altitude in meters")
	cmd.Flags().Float64Var(&speed, "speed", 0, "speed in m/s")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")

	return cmd
}
