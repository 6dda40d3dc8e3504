package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"facturas/internal/cfdi"
	"facturas/internal/logger"
	"github.com/rs/zerolog"
)

// PlaceholderRFC is the MI_RFC default, meaning the taxpayer is not configured.
const PlaceholderRFC = "TU_RFC_AQUI"

type Config struct {
	// Taxpayer whose documents are classified as income or expense
	TaxpayerRFC string

	// Billing period (YYYY-MM), defaults to the current month at startup
	Period cfdi.Period

	// Folder with the CFDI XML files
	InvoicesDir string

	// Folder where resumen_<period>.xlsx is written
	ReportDir string

	// Google Sheets Configuration
	GoogleSheetURL        string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from the environment once. The default
// period is the calendar month of the current time.
func Load() (*Config, error) {
	return load(time.Now())
}

func load(now time.Time) (*Config, error) {
	config := &Config{
		TaxpayerRFC:           getEnv("MI_RFC", PlaceholderRFC),
		InvoicesDir:           getEnv("FACTURAS_DIR", "facturas_xml"),
		ReportDir:             getEnv("REPORT_DIR", "."),
		GoogleSheetURL:        getEnv("GOOGLE_SHEET_URL", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS", ""),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stderr"),
	}

	period, err := cfdi.ParsePeriod(getEnv("PERIODO", cfdi.PeriodOf(now).String()))
	if err != nil {
		return nil, fmt.Errorf("config validation failed: PERIODO: %w", err)
	}
	config.Period = period

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.TaxpayerRFC) == "" {
		return fmt.Errorf("MI_RFC must not be blank")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.LogLevel)
	}
	return nil
}

// TaxpayerConfigured reports whether MI_RFC was set to a real RFC.
func (c *Config) TaxpayerConfigured() bool {
	return IsRealRFC(c.TaxpayerRFC)
}

// IsRealRFC reports whether rfc is set and not the MI_RFC placeholder.
func IsRealRFC(rfc string) bool {
	return strings.TrimSpace(rfc) != "" && rfc != PlaceholderRFC
}

// GoogleCredentials returns the service account JSON from the credentials
// file, or the inline JSON when no file is configured.
func (c *Config) GoogleCredentials() ([]byte, error) {
	if c.GoogleCredentialsFile != "" {
		creds, err := os.ReadFile(c.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		return creds, nil
	}
	if c.GoogleCredentialsJSON != "" {
		return []byte(c.GoogleCredentialsJSON), nil
	}
	return nil, fmt.Errorf("neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set")
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
