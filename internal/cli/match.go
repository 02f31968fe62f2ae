package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"xref-service/internal/fileio"
	"xref-service/internal/xref/enrich"
	"xref-service/internal/xref/model"
	"xref-service/internal/xref/normalize"
	"xref-service/internal/xref/service"
)

var matchCmd = &cobra.Command{
	Use:   "match [bom-file]",
	Short: "Match a BOM file against the catalog and write a report",
	Long: `Loads the vendor catalog dump, reads the BOM (xlsx, xls or csv),
finds the best catalog alternative for every resistor, inductor and
capacitor row and writes competitor/alternative pairs as CSV or xlsx.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&flagOut, "out", "o", "", `report path (".xlsx" for a workbook, "-" for stdout)`)
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := fileio.ReadBOM(path, cfg.BOMHeaderRow)
	if errors.Is(err, model.ErrInputNotFound) {
		cmd.PrintErrf("File not found: %s\n", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read bom: %w", err)
	}

	svc, err := buildService(ctx)
	if errors.Is(err, model.ErrInputNotFound) {
		cmd.PrintErrf("Catalog not found: %s\n", cfg.CatalogDir)
		return nil
	}
	if err != nil {
		return err
	}

	res, err := svc.Run(ctx, rows)
	if err != nil {
		return fmt.Errorf("match: %w", err)
	}

	report := res.ReportRows()
	header := fileio.ReportColumns(cfg.ReportManufacturerColumn)
	if cfg.ReportFile == "-" || cfg.ReportFile == "" {
		return fileio.WriteReportCSV(cmd.OutOrStdout(), header, report)
	}
	if err := fileio.WriteReport(cfg.ReportFile, header, report); err != nil {
		return err
	}
	logger.Info().
		Str("run_id", res.RunID).
		Str("report", cfg.ReportFile).
		Int("rows", len(report)).
		Int("matched", res.Stats.Matched).
		Msg("report written")
	cmd.PrintErrf("Results saved to %s\n", cfg.ReportFile)
	return nil
}

// buildService loads and normalizes the catalog and applies the configured
// enrichment and concurrency.
func buildService(ctx context.Context) (*service.Service, error) {
	catalog, _, err := service.LoadCatalog(ctx, cfg.CatalogDir, normalize.NewCatalog(cfg.CatalogManufacturer), logger.With().Str("dir", cfg.CatalogDir).Logger())
	if err != nil {
		return nil, err
	}

	var enricher enrich.Func = enrich.None
	if cfg.EnrichCommand != "" {
		enricher = enrich.Limit(enrich.ParseCommand(cfg.EnrichCommand), cfg.EnrichRPS)
	}
	return service.New(catalog,
		service.WithEnricher(enricher),
		service.WithWorkers(cfg.Workers),
		service.WithLogger(logger),
	), nil
}
