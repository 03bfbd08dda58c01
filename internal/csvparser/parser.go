// =============================================================================
// Register Validator - CSV Register Parser
// =============================================================================
//
// This module reads a register exported as CSV. It produces exactly the
// same Upload shape as the XLSX parser:
//   - The first non-blank record is the header
//   - Blank records are skipped
//   - Cells are trimmed; missing cells read as empty strings
//   - Columns with an empty header are ignored
//
// The delimiter comes from config.CSVSettings.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/register-validator/internal/config"
	"github.com/ginjaninja78/register-validator/internal/types"
)

// ErrEmptyFile is returned when the file has no non-blank records.
var ErrEmptyFile = errors.New("the CSV file is empty")

// utf8BOM is stripped from the first header cell; spreadsheet tools like
// to write it.
const utf8BOM = "\ufeff"

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns its rows.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings from the configuration.
//
// RETURNS:
//   - The Upload; SheetName is the file's base name.
//   - An error if the file cannot be read or holds no data.
func Parse(filePath string, settings config.CSVSettings) (*types.Upload, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(filepath.Base(filePath), file, settings)
}

// ParseReader reads CSV data from r.
func ParseReader(name string, r io.Reader, settings config.CSVSettings) (*types.Upload, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))
	if err := configureReader(csvReader, settings); err != nil {
		return nil, err
	}

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	records := make([][]string, 0, len(allRows))
	for _, row := range allRows {
		if !isRowEmpty(row) {
			records = append(records, row)
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, name)
	}

	columns := cleanHeaders(records[0])

	rows := make([]types.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, types.NewRow(columns, record))
	}

	return &types.Upload{
		FileName:  name,
		SheetName: strings.TrimSuffix(name, filepath.Ext(name)),
		Columns:   columns,
		Rows:      rows,
	}, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) error {
	comma, err := settings.Comma()
	if err != nil {
		return err
	}
	reader.Comma = comma

	// Registers exported by hand often have ragged rows.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cleanHeaders trims header cells and strips a leading byte order mark.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, utf8BOM)
		}
		cleaned[i] = strings.TrimSpace(header)
	}
	return cleaned
}
