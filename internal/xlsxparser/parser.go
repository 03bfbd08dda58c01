// =============================================================================
// Register Validator - XLSX Register Parser
// =============================================================================
//
// This module reads a submission workbook and turns one sheet into the
// normalized row model consumed by the validation engine. The sheet is the
// first one unless config.XLSXSettings names another.
//
// SHEET STRUCTURE (Expected Layout):
//
//   | Record ID | Entity Name | Reference Date | LEI                  | ... |
//   |-----------|-------------|----------------|----------------------|-----|
//   | R-001     | Acme Bank   | 2024-12-31     | 5493001KJTIIGC8Y1R12 | ... |
//
//   - The first non-blank row is the header row
//   - Fully blank rows are skipped anywhere in the sheet
//   - Header cells and data cells are trimmed
//   - Columns with an empty header are ignored
//   - Missing trailing cells read as empty strings
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/register-validator/internal/types"
)

var (
	// ErrNoSheet is returned for a workbook without sheets.
	ErrNoSheet = errors.New("the uploaded workbook does not contain any sheet")

	// ErrEmptySheet is returned when the selected sheet has no non-blank rows.
	ErrEmptySheet = errors.New("the sheet is empty")

	// ErrSheetNotFound is returned when Options.Sheet names a missing sheet.
	ErrSheetNotFound = errors.New("sheet not found")
)

// Options controls which sheet is read.
type Options struct {
	// Sheet is the sheet to read. Empty means the first sheet.
	Sheet string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseWorkbook opens an XLSX file and extracts the selected sheet.
//
// PARAMETERS:
//   - path: The path to the workbook.
//   - opts: Sheet selection. The zero value reads the first sheet.
//
// RETURNS:
//   - The Upload with columns and data rows.
//   - An error if the file cannot be opened, the requested sheet is
//     missing, or the sheet holds no data.
func ParseWorkbook(path string, opts Options) (*types.Upload, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseFile(f, filepath.Base(path), opts)
}

// parseFile extracts the selected sheet from an open workbook.
func parseFile(f *excelize.File, name string, opts Options) (*types.Upload, error) {
	sheetName, err := selectSheet(f, opts.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheetName, err)
	}

	// Drop blank rows up front so the header is the first row with content.
	nonBlank := make([][]string, 0, len(rows))
	for _, row := range rows {
		if !isRowEmpty(row) {
			nonBlank = append(nonBlank, row)
		}
	}

	if len(nonBlank) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySheet, sheetName)
	}

	columns := cleanHeaders(nonBlank[0])

	data := make([]types.Row, 0, len(nonBlank)-1)
	for _, cells := range nonBlank[1:] {
		data = append(data, types.NewRow(columns, cells))
	}

	return &types.Upload{
		FileName:  name,
		SheetName: sheetName,
		Columns:   columns,
		Rows:      data,
	}, nil
}

// selectSheet resolves the sheet to read.
func selectSheet(f *excelize.File, requested string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrNoSheet
	}

	if requested == "" {
		return sheets[0], nil
	}

	for _, name := range sheets {
		if strings.EqualFold(name, requested) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrSheetNotFound, requested)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cleanHeaders trims header cells. Empty names are kept so column
// positions stay aligned with the data cells.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		cleaned[i] = strings.TrimSpace(header)
	}
	return cleaned
}
