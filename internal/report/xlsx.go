// =============================================================================
// Register Validator - XLSX Report
// =============================================================================
//
// WORKBOOK LAYOUT:
//
//   Summary sheet
//   | Category         | Passed Rules | Total Rules | Findings |
//   | Technical checks | 2            | 3           | 1        |
//   | ...              |              |             |          |
//   | Total            | 11           | 12          | 1        |
//
//   Findings sheet
//   | Category | Rule ID | Rule Name | Severity | Message | Row Count | Rows |
//
// The file header (file name, sheet, rows, run id) sits above the summary
// table so the workbook can be read on its own.
//
// =============================================================================

package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/register-validator/internal/validation"
)

const (
	summarySheet  = "Summary"
	findingsSheet = "Findings"
)

// WriteXLSX streams the report workbook to w.
func WriteXLSX(w io.Writer, r *Report) error {
	f, err := buildWorkbook(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write XLSX report: %w", err)
	}
	return nil
}

// buildWorkbook lays out both sheets.
func buildWorkbook(r *Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if _, err := f.NewSheet(findingsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create findings sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummarySheet(f, r, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeFindingsSheet(f, r, bold); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func writeSummarySheet(f *excelize.File, r *Report, bold int) error {
	rows := [][]interface{}{
		{"File", r.FileName},
		{"Sheet", r.SheetName},
		{"Data Rows", r.RowCount},
		{"Generated", r.GeneratedAt.Format(time.RFC3339)},
		{"Run ID", r.RunID},
		{},
		{"Category", "Passed Rules", "Total Rules", "Findings"},
	}
	tableHeader := len(rows)

	for _, result := range r.Results {
		rows = append(rows, []interface{}{
			string(result.Category), result.PassedRules, result.TotalRules, len(result.Issues),
		})
	}
	rows = append(rows, []interface{}{"Total", r.Summary.Passed, r.Summary.Total, r.Summary.Issues})

	if err := setRows(f, summarySheet, rows); err != nil {
		return err
	}

	if err := f.SetCellStyle(summarySheet, "A1", "A5", bold); err != nil {
		return fmt.Errorf("failed to style summary sheet: %w", err)
	}
	first, _ := excelize.CoordinatesToCellName(1, tableHeader)
	last, _ := excelize.CoordinatesToCellName(4, tableHeader)
	if err := f.SetCellStyle(summarySheet, first, last, bold); err != nil {
		return fmt.Errorf("failed to style summary sheet: %w", err)
	}

	return f.SetColWidth(summarySheet, "A", "A", 32)
}

func writeFindingsSheet(f *excelize.File, r *Report, bold int) error {
	rows := [][]interface{}{
		{"Category", "Rule ID", "Rule Name", "Severity", "Message", "Row Count", "Rows"},
	}

	for _, result := range r.Results {
		for _, issue := range result.Issues {
			rows = append(rows, []interface{}{
				string(result.Category),
				issue.RuleID,
				issue.RuleName,
				strings.ToUpper(string(issue.Severity)),
				issue.Message,
				len(issue.RowIndexes),
				validation.JoinRows(issue.RowIndexes),
			})
		}
	}

	if err := setRows(f, findingsSheet, rows); err != nil {
		return err
	}

	if err := f.SetCellStyle(findingsSheet, "A1", "G1", bold); err != nil {
		return fmt.Errorf("failed to style findings sheet: %w", err)
	}
	if err := f.SetColWidth(findingsSheet, "A", "A", 32); err != nil {
		return fmt.Errorf("failed to size findings sheet: %w", err)
	}
	return f.SetColWidth(findingsSheet, "C", "E", 45)
}

// setRows writes rows starting at A1.
func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
