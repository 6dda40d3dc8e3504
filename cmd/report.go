package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"facturas/internal/cfdi"
	"facturas/internal/config"
	"facturas/internal/logger"
	"facturas/internal/report"
	"facturas/internal/sheets"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report [folder]",
	Short: "Build the monthly CFDI summary workbook",
	Long: `Process every XML file in a folder, keep the documents of the billing period,
and write resumen_<PERIODO>.xlsx with three sheets:

  Detalle  - one row per invoice (UUID, fecha, tipo, RFCs, subtotal, IVA, total, ...)
  Pagos    - one row per related invoice of each payment complement
  Resumen  - income, expense, balance and IVA to pay for the period

Files that cannot be parsed are listed as warnings and skipped. The command
fails when no document belongs to the period; in that case nothing is written.

Optional environment variables for --publish:
  GOOGLE_SHEET_URL - Google Sheets URL to publish the three tables to
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Summary of the current month from ./facturas_xml
  facturas report

  # Summary of March 2024 from another folder
  facturas report ./xml --period 2024-03

  # Print the totals without writing the workbook
  facturas report --dry-run

  # Also publish the tables to Google Sheets
  facturas report --publish`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

// reportOptions are the effective settings of one report run.
type reportOptions struct {
	Dir       string
	Period    cfdi.Period
	RFC       string
	OutputDir string
	SheetURL  string
	Publish   bool
	DryRun    bool
}

func init() {
	rootCmd.AddCommand(reportCmd)
	addReportFlags(reportCmd)
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("period", "", "Periodo YYYY-MM (default: PERIODO or current month)")
	cmd.Flags().String("rfc", "", "RFC propio (default: MI_RFC)")
	cmd.Flags().String("output-dir", "", "Carpeta de salida (default: REPORT_DIR)")
	cmd.Flags().String("sheet-url", "", "Google Sheets URL (default: GOOGLE_SHEET_URL)")
	cmd.Flags().Bool("publish", false, "Publish the tables to Google Sheets")
	cmd.Flags().Bool("dry-run", false, "Print the summary without writing the workbook")
}

func runReport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("report")

	if appConfig == nil {
		return fmt.Errorf("configuration not loaded")
	}

	opts, err := resolveReportOptions(cmd, args, appConfig)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := executeReport(ctx, opts, appConfig, os.Stdout, log); err != nil {
		return handleReportError(err, opts, log)
	}
	return nil
}

// resolveReportOptions applies command flags on top of the loaded configuration.
func resolveReportOptions(cmd *cobra.Command, args []string, cfg *config.Config) (reportOptions, error) {
	opts := reportOptions{
		Dir:       cfg.InvoicesDir,
		Period:    cfg.Period,
		RFC:       cfg.TaxpayerRFC,
		OutputDir: cfg.ReportDir,
		SheetURL:  cfg.GoogleSheetURL,
	}

	if len(args) > 0 {
		opts.Dir = args[0]
	}

	if periodStr, _ := cmd.Flags().GetString("period"); periodStr != "" {
		period, err := cfdi.ParsePeriod(periodStr)
		if err != nil {
			return opts, err
		}
		opts.Period = period
	}
	if rfc, _ := cmd.Flags().GetString("rfc"); rfc != "" {
		opts.RFC = rfc
	}
	if outputDir, _ := cmd.Flags().GetString("output-dir"); outputDir != "" {
		opts.OutputDir = outputDir
	}
	if sheetURL, _ := cmd.Flags().GetString("sheet-url"); sheetURL != "" {
		opts.SheetURL = sheetURL
	}
	opts.Publish, _ = cmd.Flags().GetBool("publish")
	opts.DryRun, _ = cmd.Flags().GetBool("dry-run")

	if opts.Publish && opts.SheetURL == "" {
		return opts, fmt.Errorf("--publish requires GOOGLE_SHEET_URL or --sheet-url")
	}

	return opts, nil
}

// executeReport runs one batch: collect, warn, build, write, publish.
func executeReport(ctx context.Context, opts reportOptions, cfg *config.Config, out io.Writer, log zerolog.Logger) error {
	log.Info().
		Str("dir", opts.Dir).
		Str("period", opts.Period.String()).
		Str("output_dir", opts.OutputDir).
		Bool("publish", opts.Publish).
		Bool("dry_run", opts.DryRun).
		Msg("Starting report generation")

	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out, "           RESUMEN DE FACTURAS CFDI")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "Carpeta: %s\n", opts.Dir)
	fmt.Fprintf(out, "Periodo: %s\n", opts.Period)
	fmt.Fprintf(out, "RFC: %s\n", opts.RFC)
	if !config.IsRealRFC(opts.RFC) {
		fmt.Fprintln(out, "⚠️ MI_RFC no está configurado; todas las facturas se clasificarán como 'otro'")
	}
	fmt.Fprintln(out)

	collector := cfdi.NewCollector(cfdi.NewParser(opts.RFC), opts.Period)
	result, err := collector.Collect(opts.Dir)
	if err != nil {
		return err
	}

	if len(result.Errors) > 0 {
		fmt.Fprintln(out, "⚠️ Errores al procesar algunos XML:")
		for _, parseErr := range result.Errors {
			fmt.Fprintf(out, "  %s: %v\n", parseErr.File, parseErr.Err)
		}
		fmt.Fprintln(out)
	}

	rep, err := report.Build(opts.Period, result.Records)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Facturas leídas: %d, del periodo: %d, fuera del periodo: %d\n",
		result.Scanned, len(rep.Records), result.OutOfPeriod)
	report.WriteSummary(out, rep.Summary)

	if opts.DryRun {
		fmt.Fprintln(out, "Modo: Dry Run (no se escribió ningún archivo)")
		return nil
	}

	path := filepath.Join(opts.OutputDir, report.FileName(opts.Period))
	if err := report.WriteExcel(path, rep.Tables()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Archivo: %s\n", path)

	if opts.Publish {
		if err := publishReport(ctx, rep, opts.SheetURL, cfg, log); err != nil {
			return err
		}
		fmt.Fprintf(out, "Google Sheet: %s\n", opts.SheetURL)
	}

	log.Info().
		Str("file", path).
		Int("records", len(rep.Records)).
		Int("errors", len(result.Errors)).
		Msg("Report generation completed")

	fmt.Fprintln(out, "✅ Reporte generado correctamente")
	return nil
}

func publishReport(ctx context.Context, rep *report.Report, sheetURL string, cfg *config.Config, log zerolog.Logger) error {
	creds, err := cfg.GoogleCredentials()
	if err != nil {
		return fmt.Errorf("missing Google credentials: %w", err)
	}

	sheetsService, err := sheets.NewSheetsService(ctx, sheetURL, creds)
	if err != nil {
		return fmt.Errorf("failed to create Google Sheets service: %w", err)
	}

	log.Debug().Str("sheet_url", sheetURL).Msg("Publishing report tables")

	if err := sheetsService.PublishTables(ctx, rep.Tables()); err != nil {
		return fmt.Errorf("failed to write to Google Sheet: %w", err)
	}
	return nil
}

// handleReportError provides user-friendly messages for report failures
func handleReportError(err error, opts reportOptions, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Report generation failed")

	switch {
	case errors.Is(err, report.ErrNoData):
		return fmt.Errorf("no se encontraron facturas para %s en %s: %w", opts.Period, opts.Dir, err)
	case errors.Is(err, cfdi.ErrSourceDir):
		return fmt.Errorf("no se pudo leer la carpeta de facturas %s. Revisa FACTURAS_DIR: %w", opts.Dir, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("report generation timed out")
	default:
		return fmt.Errorf("report generation failed: %w", err)
	}
}
