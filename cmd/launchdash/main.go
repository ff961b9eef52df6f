package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/spektr-org/launchdash/config"
	"github.com/spektr-org/launchdash/dashboard"
	"github.com/spektr-org/launchdash/logging"
)

// ============================================================================
// LAUNCHDASH CLI — SpaceX launch records dashboard
// ============================================================================

var version = "dev" // set by the linker

func main() {
	a := newApp()
	err := a.rootCmd().Execute() // cobra prints err
	if cerr := a.close(); cerr != nil {
		fmt.Fprintln(os.Stderr, "Error:", cerr)
		err = cerr
	}
	if err != nil {
		os.Exit(1)
	}
}

// app carries the resolved configuration and logger between cobra hooks
// and subcommands. Whoever executes its root command calls close afterwards,
// whether or not the command failed.
type app struct {
	cfgFile  string
	cfg      config.Config
	logger   zerolog.Logger
	closeLog io.Closer
}

func newApp() *app {
	return &app{logger: zerolog.Nop()}
}

// newRootCmd builds the command tree on a fresh app.
func newRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launchdash",
		Short: "Interactive dashboard over SpaceX launch records",
		Long: `launchdash loads a SpaceX launch records CSV and serves a dashboard
with a launch-site selector, a success pie chart, a payload range selector
and a payload/outcome scatter chart.

Running without a subcommand starts the web server.

Configuration is read from launchdash.yaml (working directory or user
config directory), LAUNCHDASH_* environment variables, a .env file and
flags, in increasing order of precedence.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd.Context())
		},
	}
	cmd.Version = version

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./launchdash.yaml or <user config dir>/launchdash/launchdash.yaml)")
	pf.String("data", "", "launch records CSV (default spacex_launch_dash.csv)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console or json")
	addServeFlags(cmd)

	cmd.AddCommand(
		newServeCmd(a),
		newPieCmd(a),
		newScatterCmd(a),
		newSitesCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

// setup loads .env, resolves configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load(cmd, a.cfgFile)
	if err != nil {
		return err
	}
	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.closeLog = closer
	logging.SetGlobal(logger)

	a.logger.Debug().
		Str("command", cmd.Name()).
		Str("data", cfg.Data.Path).
		Msg("configuration loaded")
	return nil
}

// close releases the log output opened by setup. It is safe to call more
// than once.
func (a *app) close() error {
	if a.closeLog == nil {
		return nil
	}
	err := a.closeLog.Close()
	a.closeLog = nil
	return err
}

func (a *app) loadDashboard() (*dashboard.Dashboard, error) {
	d, err := dashboard.Load(a.cfg.Data.Path,
		dashboard.WithSlider(a.cfg.Slider.Min, a.cfg.Slider.Max, a.cfg.Slider.Step),
		dashboard.WithLogger(a.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("load launch records: %w", err)
	}
	return d, nil
}
