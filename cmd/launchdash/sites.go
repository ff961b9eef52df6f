package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSitesCmd(a *app) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "Launches, successes and payload bounds per launch site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDashboard()
			if err != nil {
				return err
			}
			summary := d.SiteSummary()

			w, done, err := openOutput(cmd, out)
			if err != nil {
				return err
			}
			switch format {
			case "table":
				err = writeTable(w, summary)
			case "json":
				err = writeJSON(w, summary)
			case "csv":
				err = writeTableCSV(w, summary)
			default:
				err = fmt.Errorf("unknown format %q (want table, json or csv)", format)
			}
			if cerr := done(err); err == nil {
				err = cerr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json, csv")
	cmd.Flags().StringVar(&out, "out", "", "write output to file instead of stdout")
	return cmd
}
