package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"facturas/internal/cfdi"
	"facturas/internal/logger"
	"facturas/internal/report"
	"facturas/pkg/models"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [xml-file]",
	Short: "Parse and classify a single CFDI XML file",
	Long: `Parse one CFDI 3.3/4.0 XML file, recompute subtotal, IVA and total, and
classify it against your RFC. The output is JSON with the extracted fields,
including the related invoices of payment complements.

Amounts are printed with two decimals.`,
	Example: `  # Print the parsed invoice
  facturas parse factura.xml

  # Classify against another RFC and save to a file
  facturas parse factura.xml --rfc AAA010101AAA -o factura.json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

// ParseOutput is the JSON document printed by the parse command
type ParseOutput struct {
	Invoice  InvoiceData   `json:"invoice"`
	Metadata ParseMetadata `json:"metadata"`
}

// InvoiceData is an InvoiceRecord with amounts rendered for display
type InvoiceData struct {
	UUID            string                  `json:"uuid"`
	Date            string                  `json:"fecha"`
	Kind            string                  `json:"tipo_cfdi"`
	Classification  string                  `json:"tipo"`
	CreditNote      bool                    `json:"nota_credito"`
	IssuerRFC       string                  `json:"emisor_rfc"`
	ReceiverRFC     string                  `json:"receptor_rfc"`
	Subtotal        string                  `json:"subtotal"`
	Tax             string                  `json:"iva"`
	Total           string                  `json:"total"`
	PaymentMethod   string                  `json:"metodo_pago"`
	Series          string                  `json:"serie"`
	Folio           string                  `json:"folio"`
	RelatedInvoices []models.RelatedInvoice `json:"facturas_relacionadas,omitempty"`
}

// ParseMetadata contains information about the parse operation
type ParseMetadata struct {
	FileName           string        `json:"file_name"`
	FileSize           int64         `json:"file_size_bytes"`
	TaxpayerRFC        string        `json:"rfc"`
	ProcessedAt        time.Time     `json:"processed_at"`
	ProcessingDuration time.Duration `json:"processing_duration"`
}

func init() {
	rootCmd.AddCommand(parseCmd)
	addParseFlags(parseCmd)
}

func addParseFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().String("rfc", "", "RFC propio (default: MI_RFC)")
}

func runParse(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("parse")

	if appConfig == nil {
		return fmt.Errorf("configuration not loaded")
	}

	outputPath, _ := cmd.Flags().GetString("output")
	rfc, _ := cmd.Flags().GetString("rfc")
	if rfc == "" {
		rfc = appConfig.TaxpayerRFC
	}

	xmlPath := args[0]

	log.Info().
		Str("file", xmlPath).
		Str("output", outputPath).
		Msg("Starting CFDI parsing")

	fileInfo, err := validateXMLFile(xmlPath, log)
	if err != nil {
		return err
	}

	startTime := time.Now()
	record, err := cfdi.NewParser(rfc).ParseFile(xmlPath)
	if err != nil {
		return handleParseError(err, log)
	}

	output := ParseOutput{
		Invoice: convertToInvoiceData(record),
		Metadata: ParseMetadata{
			FileName:           filepath.Base(xmlPath),
			FileSize:           fileInfo.Size(),
			TaxpayerRFC:        rfc,
			ProcessedAt:        time.Now(),
			ProcessingDuration: time.Since(startTime),
		},
	}

	if outputPath == "" {
		return writeParseOutput(os.Stdout, output, log)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		log.Error().
			Err(err).
			Str("output_file", outputPath).
			Msg("Failed to create output file")
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close output file")
		}
	}()

	return writeParseOutput(file, output, log)
}

// validateXMLFile checks that the path is a readable, non-empty regular file
func validateXMLFile(xmlPath string, log zerolog.Logger) (os.FileInfo, error) {
	fileInfo, err := os.Stat(xmlPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().
				Str("file", xmlPath).
				Msg("XML file not found")
			return nil, fmt.Errorf("XML file not found: %s", xmlPath)
		}
		if os.IsPermission(err) {
			log.Error().
				Str("file", xmlPath).
				Msg("Permission denied accessing XML file")
			return nil, fmt.Errorf("permission denied accessing XML file: %s", xmlPath)
		}
		return nil, fmt.Errorf("error accessing XML file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("path is not a regular file: %s", xmlPath)
	}

	if !strings.HasSuffix(strings.ToLower(xmlPath), ".xml") {
		log.Warn().
			Str("file", xmlPath).
			Msg("File does not have .xml extension")
	}

	if fileInfo.Size() == 0 {
		return nil, fmt.Errorf("XML file is empty: %s", xmlPath)
	}

	return fileInfo, nil
}

// handleParseError provides user-friendly messages for parsing failures
func handleParseError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("CFDI parsing failed")

	switch {
	case errors.Is(err, cfdi.ErrMalformedXML):
		return fmt.Errorf("the file is not well-formed XML: %w", err)
	case errors.Is(err, cfdi.ErrMissingRoot):
		return fmt.Errorf("the file contains no XML element")
	default:
		return fmt.Errorf("CFDI parsing failed: %w", err)
	}
}

// convertToInvoiceData renders a record for JSON output
func convertToInvoiceData(record *models.InvoiceRecord) InvoiceData {
	return InvoiceData{
		UUID:            record.UUID,
		Date:            record.Date,
		Kind:            string(record.Kind),
		Classification:  string(record.Classification),
		CreditNote:      record.IsCreditNote(),
		IssuerRFC:       record.IssuerRFC,
		ReceiverRFC:     record.ReceiverRFC,
		Subtotal:        report.FormatAmount(record.Subtotal),
		Tax:             report.FormatAmount(record.Tax),
		Total:           report.FormatAmount(record.Total),
		PaymentMethod:   record.PaymentMethod,
		Series:          record.Series,
		Folio:           record.Folio,
		RelatedInvoices: record.RelatedInvoices,
	}
}

func writeParseOutput(w io.Writer, output ParseOutput, log zerolog.Logger) error {
	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal invoice data to JSON")
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	if _, err := w.Write(append(jsonData, '\n')); err != nil {
		log.Error().Err(err).Msg("Failed to write output")
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}
