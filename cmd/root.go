package cmd

import (
	"fmt"
	"os"

	"facturas/internal/config"
	"facturas/internal/logger"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

// appConfig is set once by Execute before any command runs.
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "facturas",
	Short: "Facturas CLI - monthly summaries of Mexican CFDI invoices",
	Long: `Facturas CLI reads a folder of CFDI 3.3/4.0 XML invoices, classifies each
document as income (ingreso), expense (egreso) or other (otro) relative to your
RFC, and builds a monthly summary with the IVA balance.

Configuration is read once from the environment (or a .env file):
  MI_RFC        - Your RFC (required for meaningful classification)
  PERIODO       - Billing period YYYY-MM (default: current month)
  FACTURAS_DIR  - Folder with the XML files (default: facturas_xml)
  REPORT_DIR    - Folder for resumen_<PERIODO>.xlsx (default: .)`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Facturas CLI executed")

		fmt.Println("Bienvenido a Facturas CLI")
		fmt.Println("Usa --help para ver los comandos disponibles.")
	},
}

// Execute runs the root command with the configuration loaded at startup.
func Execute(cfg *config.Config) {
	log := logger.WithComponent("cmd")

	appConfig = cfg
	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
