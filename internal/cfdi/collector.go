package cfdi

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"facturas/internal/logger"
	"facturas/pkg/models"
	"github.com/rs/zerolog"
)

// CollectResult holds the outcome of one batch run.
type CollectResult struct {
	// Records are the documents of the target period in directory order.
	Records []*models.InvoiceRecord

	// Errors lists every file that could not be parsed or dated.
	Errors []ParseError

	// Scanned counts the XML files considered.
	Scanned int

	// OutOfPeriod counts parsed documents dated outside the target period.
	OutOfPeriod int
}

// Collector runs the parser over a directory and keeps one period.
type Collector struct {
	parser *Parser
	period Period
	log    zerolog.Logger
}

// NewCollector creates a collector for the given period.
func NewCollector(parser *Parser, period Period) *Collector {
	return &Collector{
		parser: parser,
		period: period,
		log:    logger.WithComponent("collector"),
	}
}

// XMLFiles yields the path of every regular entry in dir whose name ends in
// .xml, case-insensitively, in directory listing order. The directory is
// listed once; a listing failure is yielded as the only element.
func XMLFiles(dir string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			yield("", fmt.Errorf("%w: %s: %v", ErrSourceDir, dir, err))
			return
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".xml") {
				continue
			}
			if !yield(filepath.Join(dir, entry.Name()), nil) {
				return
			}
		}
	}
}

// Collect parses every XML file in dir. Files that fail to parse, or whose
// date cannot be read back, are recorded in Errors and the batch continues.
// The returned error is non-nil only when dir cannot be listed.
func (c *Collector) Collect(dir string) (*CollectResult, error) {
	const op = "Collect"

	c.log.Info().
		Str("dir", dir).
		Str("period", c.period.String()).
		Str("rfc", c.parser.TaxpayerRFC()).
		Msg("Collecting CFDI documents")

	result := &CollectResult{}
	for path, err := range XMLFiles(dir) {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.Scanned++

		record, err := c.collectFile(path)
		if err != nil {
			name := filepath.Base(path)
			c.log.Warn().
				Err(err).
				Str("file", name).
				Msg("Skipping document")
			result.Errors = append(result.Errors, ParseError{File: name, Err: err})
			continue
		}
		if record == nil {
			result.OutOfPeriod++
			continue
		}
		result.Records = append(result.Records, record)
	}

	c.log.Info().
		Int("scanned", result.Scanned).
		Int("kept", len(result.Records)).
		Int("out_of_period", result.OutOfPeriod).
		Int("errors", len(result.Errors)).
		Msg("Collection completed")

	return result, nil
}

// collectFile returns the record when it belongs to the period, nil when it
// does not.
func (c *Collector) collectFile(path string) (*models.InvoiceRecord, error) {
	record, err := c.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}

	issued, err := ParseDisplayDate(record.Date)
	if err != nil {
		return nil, err
	}
	if !c.period.Contains(issued) {
		return nil, nil
	}

	return record, nil
}
