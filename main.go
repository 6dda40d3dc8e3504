package main

import (
	"log"
	"os"

	"facturas/cmd"
	"facturas/internal/config"
	"facturas/internal/logger"
	"github.com/joho/godotenv"
)

func main() {
	cfg, err := initConfig()
	if err != nil {
		startupLog := logger.WithComponent("main")
		startupLog.Fatal().Err(err).Msg("Could not load configuration")
	}

	log := logger.WithComponent("main")
	log.Info().
		Str("period", cfg.Period.String()).
		Str("invoices_dir", cfg.InvoicesDir).
		Bool("rfc_configured", cfg.TaxpayerConfigured()).
		Msg("Starting Facturas CLI application")

	// Execute CLI commands
	cmd.Execute(cfg)

	log.Info().Msg("Facturas CLI application shutdown")
	os.Exit(0)
}

// initConfig loads .env and the configuration, and sets up the global
// logger. On a configuration error the default logger is installed so the
// caller can still report it.
func initConfig() (*config.Config, error) {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		if setupErr := logger.Setup(logger.DefaultConfig()); setupErr != nil {
			log.Fatalf("Failed to initialize logger: %v", setupErr)
		}
		return nil, err
	}

	// Initialize logger with configuration
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		return nil, err
	}

	return cfg, nil
}
