// Command sfreport slices Salesforce matrix reports from the terminal.
//
// Usage:
//
//	sfreport --file report.json series down --column Sheffield --row CY2015
//	sfreport --report-id 00O... totals --row CY2014 --format csv
//	sfreport --report-id 00O... grid --format xlsx --out grid.xlsx
//	sfreport fetch 00O1 00O2 --out ./reports
//	sfreport serve --addr :8080
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cghall/salesforce-reporting/config"
)

const version = "0.3.0"

// app holds the flag values and the state built from them before a
// subcommand runs.
type app struct {
	verbose    bool
	configPath string
	envFile    string
	file       string
	reportID   string
	filters    []string
	format     string
	out        string

	cfg    config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "sfreport",
		Short: "Slice Salesforce matrix reports into series, totals and grids",
		Long: `sfreport reads a Salesforce report (a saved JSON file or a live report id)
and extracts series, grids, totals and detail records from it.

Credentials come from SF_* environment variables, a .env file or a YAML
config file. Output formats: json, pretty, text, csv, xlsx.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	pf.StringVar(&a.envFile, "env-file", ".env", "Path to a .env file (ignored when missing)")
	pf.StringVarP(&a.file, "file", "f", "", "Read the report from a saved JSON file")
	pf.StringVarP(&a.reportID, "report-id", "r", "", "Fetch the report from Salesforce by id")
	pf.StringArrayVar(&a.filters, "filter", nil, "Report filter column:operator:value (repeatable)")
	pf.StringVar(&a.format, "format", "json", "Output format: json, pretty, text, csv, xlsx")
	pf.StringVarP(&a.out, "out", "o", "", "Write output to a file instead of stdout")

	root.AddCommand(
		a.seriesCmd(),
		a.totalsCmd(),
		a.gridCmd(),
		a.recordsCmd(),
		a.fetchCmd(),
		a.serveCmd(),
	)
	return root
}

// setup loads configuration and builds the logger. --verbose wins over
// LOG_LEVEL.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath, a.envFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	zcfg := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zcfg.Level = level
	if a.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}
