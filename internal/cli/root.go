// Package cli wires the batch and HTTP entry points.
package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"xref-service/internal/config"
)

var (
	cfgPath string
	cfg     config.Config
	logger  zerolog.Logger

	flagCatalog   string
	flagOut       string
	flagHeaderRow int
	flagWorkers   int
	flagEnrich    string
)

var rootCmd = &cobra.Command{
	Use:   "xref [bom-file]",
	Short: "Cross-reference BOM components against a vendor catalog",
	Long: `Reads a competitor bill of materials, classifies each row as resistor,
inductor or capacitor, and reports the closest vendor catalog part for it.
With a BOM file argument it behaves like "xref match".`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runMatch(cmd, args)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "TOML config file")
	pf.StringVar(&flagCatalog, "catalog", "", "vendor catalog dump directory")
	pf.IntVar(&flagHeaderRow, "header-row", 0, "1-based BOM header row")
	pf.IntVarP(&flagWorkers, "workers", "w", 0, "concurrent row workers (0 = GOMAXPROCS)")
	pf.StringVar(&flagEnrich, "enrich", "", "enrichment command, called with the order code")
	rootCmd.Flags().StringVarP(&flagOut, "out", "o", "", `report path (".xlsx" for a workbook, "-" for stdout)`)
}

// Execute runs the root command; ctx is cancelled on SIGINT/SIGTERM.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup: конфиг (дефолты <- файл <- env <- флаги) и логгер в stderr.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("catalog") {
		c.CatalogDir = flagCatalog
	}
	if flags.Changed("header-row") && flagHeaderRow > 0 {
		c.BOMHeaderRow = flagHeaderRow
	}
	if flags.Changed("workers") {
		c.Workers = flagWorkers
	}
	if flags.Changed("enrich") {
		c.EnrichCommand = flagEnrich
	}
	if flags.Lookup("out") != nil && flags.Changed("out") {
		c.ReportFile = flagOut
	}
	cfg = c
	logger = config.SetupLogger(cfg, cmd.ErrOrStderr())
	return nil
}
