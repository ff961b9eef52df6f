package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/spektr-org/launchdash/dashboard"
	"github.com/spektr-org/launchdash/engine"
	"github.com/spektr-org/launchdash/render"
)

type chartFlags struct {
	site   string
	format string
	out    string
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.site, "site", dashboard.AllSites, "launch site, or \"All Sites\"")
	cmd.Flags().StringVar(&f.format, "format", "json", "output format: json, csv, png, svg")
	cmd.Flags().StringVar(&f.out, "out", "", "write output to file instead of stdout")
	cmd.Flags().Int("width", 0, "image width in pixels (default 800)")
	cmd.Flags().Int("height", 0, "image height in pixels (default 500)")
}

func newPieCmd(a *app) *cobra.Command {
	var f chartFlags
	cmd := &cobra.Command{
		Use:   "pie",
		Short: "Success pie chart for a launch site",
		Example: `  launchdash pie
  launchdash pie --site "KSC LC-39A" --format png --out ksc.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDashboard()
			if err != nil {
				return err
			}
			return a.writeChart(cmd, d.PieChart(f.site), f)
		},
	}
	f.register(cmd)
	return cmd
}

func newScatterCmd(a *app) *cobra.Command {
	var f chartFlags
	var lo, hi float64
	cmd := &cobra.Command{
		Use:   "scatter",
		Short: "Payload mass against launch outcome",
		Long: `Scatter of payload mass against outcome class, one series per booster
version category. Bounds are inclusive; an omitted bound takes the dataset's
payload minimum or maximum.`,
		Example: `  launchdash scatter --min 2500 --max 7500
  launchdash scatter --site "CCAFS SLC-40" --format svg --out slc40.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDashboard()
			if err != nil {
				return err
			}
			payload := engine.Range{Min: math.NaN(), Max: math.NaN()}
			if cmd.Flags().Changed("min") {
				payload.Min = lo
			}
			if cmd.Flags().Changed("max") {
				payload.Max = hi
			}
			return a.writeChart(cmd, d.ScatterChart(f.site, d.ClampPayload(payload)), f)
		},
	}
	f.register(cmd)
	cmd.Flags().Float64Var(&lo, "min", 0, "lowest payload mass in kg (default dataset minimum)")
	cmd.Flags().Float64Var(&hi, "max", 0, "highest payload mass in kg (default dataset maximum)")
	return cmd
}

func (a *app) writeChart(cmd *cobra.Command, chart *engine.ChartConfig, f chartFlags) error {
	w, done, err := openOutput(cmd, f.out)
	if err != nil {
		return err
	}

	switch f.format {
	case "json":
		err = writeJSON(w, chart)
	case "csv":
		err = writeChartCSV(w, chart)
	default:
		var format render.Format
		format, err = render.ParseFormat(f.format)
		if err == nil {
			err = render.Write(w, chart, format, render.WithSize(a.cfg.Render.Width, a.cfg.Render.Height))
		}
		if errors.Is(err, render.ErrEmptyChart) {
			err = fmt.Errorf("%q: no launches match the selection: %w", chart.Title, err)
		}
	}

	if cerr := done(err); err == nil {
		err = cerr
	}
	if err == nil {
		a.logger.Debug().Str("chart", chart.ChartType).Int("points", chart.PointCount()).Str("format", f.format).Msg("chart written")
	}
	return err
}
