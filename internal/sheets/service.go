package sheets

import (
	"context"
	"fmt"
	"regexp"

	"facturas/internal/logger"
	"facturas/internal/report"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// Service handles Google Sheets operations
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	log           zerolog.Logger
}

// NewSheetsService creates a new Google Sheets service from service account
// credentials JSON.
func NewSheetsService(ctx context.Context, sheetURL string, credentials []byte) (*Service, error) {
	const op = "NewSheetsService"

	log := logger.WithComponent("sheets")

	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to extract spreadsheet ID: %w", op, err)
	}

	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Extracted spreadsheet ID")

	config, err := google.JWTConfigFromJSON(credentials, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	client := config.Client(ctx)
	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return &Service{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		log:           log,
	}, nil
}

// extractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func extractSpreadsheetID(url string) (string, error) {
	matches := spreadsheetIDPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}
	return matches[1], nil
}

// PublishTables replaces the content of one tab per table, creating missing
// tabs, and formats each header row.
func (s *Service) PublishTables(ctx context.Context, tables []report.Table) error {
	const op = "PublishTables"

	sheetIDs, err := s.existingSheets(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, table := range tables {
		sheetID, ok := sheetIDs[table.Name]
		if !ok {
			sheetID, err = s.addSheet(ctx, table.Name)
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}

		if err := s.writeTable(ctx, table); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := s.formatHeaders(ctx, sheetID, len(table.Headers)); err != nil {
			s.log.Warn().Err(err).Str("sheet", table.Name).Msg("Failed to format headers, continuing anyway")
		}

		s.log.Info().
			Str("sheet", table.Name).
			Int("rows", len(table.Rows)).
			Msg("Table published to Google Sheet")
	}

	return nil
}

// existingSheets maps tab titles to sheet IDs.
func (s *Service) existingSheets(ctx context.Context) (map[string]int64, error) {
	spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	ids := make(map[string]int64, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		ids[sheet.Properties.Title] = sheet.Properties.SheetId
	}
	return ids, nil
}

func (s *Service) addSheet(ctx context.Context, title string) (int64, error) {
	s.log.Info().Str("sheet", title).Msg("Creating new sheet")

	batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: title}}},
		},
	}

	resp, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet %s: %w", title, err)
	}

	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

func (s *Service) writeTable(ctx context.Context, table report.Table) error {
	sheetRange := quoteSheet(table.Name)

	_, err := s.sheetsService.Spreadsheets.Values.Clear(
		s.spreadsheetID,
		sheetRange,
		&sheets.ClearValuesRequest{},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear sheet %s: %w", table.Name, err)
	}

	_, err = s.sheetsService.Spreadsheets.Values.Update(
		s.spreadsheetID,
		sheetRange+"!A1",
		&sheets.ValueRange{Values: tableValues(table)},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write sheet %s: %w", table.Name, err)
	}

	return nil
}

// tableValues converts a table to the header row followed by data rows.
func tableValues(table report.Table) [][]interface{} {
	values := make([][]interface{}, 0, len(table.Rows)+1)

	header := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	values = append(values, header)

	for _, row := range table.Rows {
		values = append(values, append([]interface{}(nil), row...))
	}

	return values
}

func quoteSheet(name string) string {
	return "'" + name + "'"
}

// formatHeaders makes the header row bold and auto-resizes the columns
func (s *Service) formatHeaders(ctx context.Context, sheetID int64, columns int) error {
	const op = "formatHeaders"

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(columns),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold: true,
						},
						BackgroundColor: &sheets.Color{
							Red:   0.9,
							Green: 0.9,
							Blue:  0.9,
						},
					},
				},
				Fields: "userEnteredFormat(textFormat,backgroundColor)",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   int64(columns),
				},
			},
		},
	}

	batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}
	_, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to format headers: %w", op, err)
	}

	return nil
}
