// =============================================================================
// Register Validator - Report Writers
// =============================================================================
//
// This module renders validation results for consumers outside the engine.
// Every format carries the same information:
//   - file identification (file name, sheet, row count, run id)
//   - the overall summary (issues, passed, total, errors, warnings)
//   - one block per evaluated category, in catalog order, with its findings
//
// SUPPORTED FORMATS:
//   - json : machine-readable, the consumer shape {category, issues, ...}
//   - xml  : the same content as an XML document
//   - xlsx : a workbook with a Summary sheet and a Findings sheet
//   - txt  : the human-readable panel rendering
//
// =============================================================================

package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/register-validator/internal/types"
	"github.com/ginjaninja78/register-validator/internal/validation"
)

// ErrReportExists is returned by WriteFile when the target path is taken.
var ErrReportExists = errors.New("report file already exists")

// =============================================================================
// FORMATS
// =============================================================================

// Format is a report file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatXLSX Format = "xlsx"
	FormatText Format = "txt"
)

// AllFormats lists the supported formats.
func AllFormats() []Format {
	return []Format{FormatJSON, FormatXML, FormatXLSX, FormatText}
}

// ParseFormat parses a format name. "text" is accepted for txt.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "xml":
		return FormatXML, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "txt", "text":
		return FormatText, nil
	}

	names := make([]string, 0, len(AllFormats()))
	for _, f := range AllFormats() {
		names = append(names, string(f))
	}
	return "", fmt.Errorf("unsupported report format %q (expected one of %s)", s, strings.Join(names, ", "))
}

// Extension is the file extension for the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// =============================================================================
// REPORT
// =============================================================================

// Report is everything a consumer needs about one validated file.
type Report struct {
	RunID       string
	FileName    string
	SheetName   string
	RowCount    int
	GeneratedAt time.Time
	Results     []types.Result
	Summary     types.Summary
}

// New builds a Report for an upload. Results are placed in category
// display order.
func New(upload *types.Upload, results map[types.Category]types.Result) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		FileName:    upload.FileName,
		SheetName:   upload.SheetName,
		RowCount:    len(upload.Rows),
		GeneratedAt: time.Now().UTC(),
		Results:     validation.Ordered(results),
		Summary:     validation.Summarize(results),
	}
}

// WriteFile writes the report to path in the given format. The file is
// created exclusively; an existing file is never replaced.
//
// RETURNS:
//   - ErrReportExists when path already exists.
//   - Any rendering or I/O error. A partially written file is removed.
func WriteFile(path string, format Format, r *Report) (err error) {
	var render func(io.Writer, *Report) error
	switch format {
	case FormatJSON:
		render = WriteJSON
	case FormatXML:
		render = WriteXML
	case FormatXLSX:
		render = WriteXLSX
	case FormatText:
		render = WriteText
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrReportExists, path)
		}
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close report file: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := render(file, r); err != nil {
		return err
	}
	return file.Sync()
}
