package report

import (
	"fmt"
	"os"
	"path/filepath"

	"facturas/internal/logger"
	"github.com/xuri/excelize/v2"
)

// amountNumFmt is the built-in "#,##0.00" format. Values are stored unrounded.
const amountNumFmt = 4

const columnWidth = 18

// WriteExcel writes the tables as sheets of a new workbook at path,
// replacing any existing file.
func WriteExcel(path string, tables []Table) error {
	const op = "WriteExcel"

	log := logger.WithComponent("excel")

	if len(tables) == 0 {
		return fmt.Errorf("%s: no tables to write", op)
	}

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close workbook")
		}
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return fmt.Errorf("%s: failed to create header style: %w", op, err)
	}

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: amountNumFmt})
	if err != nil {
		return fmt.Errorf("%s: failed to create amount style: %w", op, err)
	}

	defaultSheet := f.GetSheetName(0)
	for i, table := range tables {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, table.Name); err != nil {
				return fmt.Errorf("%s: failed to rename sheet: %w", op, err)
			}
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return fmt.Errorf("%s: failed to create sheet %s: %w", op, table.Name, err)
		}

		if err := writeTable(f, table, headerStyle, amountStyle); err != nil {
			return fmt.Errorf("%s: sheet %s: %w", op, table.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%s: failed to create output directory: %w", op, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%s: failed to save workbook: %w", op, err)
	}

	log.Info().
		Str("file", path).
		Int("sheets", len(tables)).
		Msg("Workbook written")

	return nil
}

func writeTable(f *excelize.File, table Table, headerStyle, amountStyle int) error {
	header := make([]any, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(table.Name, "A1", &header); err != nil {
		return err
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(table.Name, cell, &row); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(table.Headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(table.Name, "A", lastCol, columnWidth); err != nil {
		return err
	}

	for _, idx := range table.AmountColumns {
		col, err := excelize.ColumnNumberToName(idx + 1)
		if err != nil {
			return err
		}
		if err := f.SetColStyle(table.Name, col, amountStyle); err != nil {
			return err
		}
	}

	return f.SetRowStyle(table.Name, 1, 1, headerStyle)
}
