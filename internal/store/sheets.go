package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheets stores each table as a tab of a Google Sheets spreadsheet.
// The first row of every tab is its header.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheets builds a Sheets API client authorized with service-account credentials
func NewSheets(ctx context.Context, creds *google.Credentials, spreadsheetID string) (*Sheets, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return NewSheetsWithService(svc, spreadsheetID), nil
}

// NewSheetsWithService wraps an existing client
func NewSheetsWithService(svc *sheets.Service, spreadsheetID string) *Sheets {
	return &Sheets{svc: svc, spreadsheetID: spreadsheetID}
}

func (s *Sheets) ListRecords(ctx context.Context, table string) ([]Record, error) {
	header, rows, err := s.readTable(ctx, table)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		records = append(records, zipRecord(header, row))
	}
	return records, nil
}

func (s *Sheets) AppendRecord(ctx context.Context, table string, values []string) error {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}

	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, quoteSheet(table), &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row to %s: %w", table, err)
	}
	return nil
}

func (s *Sheets) UpdateCell(ctx context.Context, table, keyColumn, key, column, value string) error {
	header, rows, err := s.readTable(ctx, table)
	if err != nil {
		return err
	}

	keyIdx := columnIndex(header, keyColumn)
	if keyIdx < 0 {
		return fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, keyColumn)
	}
	colIdx := columnIndex(header, column)
	if colIdx < 0 {
		return fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, column)
	}

	for i, row := range rows {
		if keyIdx < len(row) && keyMatches(row[keyIdx], key) {
			// data rows start on sheet row 2
			cell := cellA1(table, colIdx, i+2)
			_, err := s.svc.Spreadsheets.Values.
				Update(s.spreadsheetID, cell, &sheets.ValueRange{Values: [][]interface{}{{value}}}).
				ValueInputOption("USER_ENTERED").
				Context(ctx).
				Do()
			if err != nil {
				return fmt.Errorf("failed to update %s: %w", cell, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s where %s=%s", ErrRowNotFound, table, keyColumn, key)
}

func (s *Sheets) Ping(ctx context.Context) error {
	_, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	return err
}

// readTable returns the header row and the data rows of a tab, all cells as strings
func (s *Sheets) readTable(ctx context.Context, table string) ([]string, [][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, quoteSheet(table)).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", table, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, nil
	}

	header := cellsToStrings(resp.Values[0])
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		rows = append(rows, cellsToStrings(raw))
	}
	return header, rows, nil
}

func cellsToStrings(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		if c == nil {
			continue
		}
		out[i] = fmt.Sprint(c)
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// quoteSheet returns the A1 range covering a whole tab
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// cellA1 formats a single-cell A1 reference; col is zero-based, row one-based
func cellA1(sheet string, col, row int) string {
	return quoteSheet(sheet) + "!" + columnLetter(col) + strconv.Itoa(row)
}

// columnLetter converts a zero-based column index to A, B, ... Z, AA, AB ...
func columnLetter(col int) string {
	var b []byte
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}
