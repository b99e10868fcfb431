package main

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/vflor92/REanalyzer/pkg/fema"
)

// floodzoneCmd is a reviewer tool: it looks up the FEMA zone for a
// coordinate but never writes it to a site. Flood fields stay manual.
var floodzoneCmd = &cobra.Command{
	Use:   "floodzone <lat> <lon>",
	Short: "Look up the FEMA flood zone for a coordinate",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return eris.Wrapf(err, "parse latitude %q", args[0])
		}
		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return eris.Wrapf(err, "parse longitude %q", args[1])
		}

		zone, err := fema.NewClient().FloodZone(cmd.Context(), lat, lon)
		if err != nil {
			return err
		}

		cmd.Printf("Zone %s (%s)\n", zone.Code, zone.Source)
		if zone.Fallback {
			cmd.Println("Warning: fallback estimate, verify against the FEMA map")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(floodzoneCmd)
}
