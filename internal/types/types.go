// =============================================================================
// Register Validator - Shared Types
// =============================================================================
//
// This package contains the data model shared by the ingestion, rule,
// validation and report packages. Keeping it here avoids import cycles:
//   - xlsxparser / csvparser produce Upload values
//   - rules consume Rows
//   - validation produces Results and Summaries
//   - report renders them
//
// =============================================================================

package types

import (
	"fmt"
	"strings"
)

// =============================================================================
// ROW MODEL
// =============================================================================

// Field is a single header -> value pair within a Row.
type Field struct {
	Name  string
	Value string
}

// Row is one normalized submission record: an ordered mapping from column
// name to trimmed cell value. An absent value is the empty string.
type Row []Field

// NewRow zips column names to raw cell values.
//
// Cells beyond the end of the slice become empty strings, every value is
// trimmed, and a column with an empty name contributes no field. When a
// column name repeats, the field keeps its first position and takes the
// later value.
func NewRow(columns []string, cells []string) Row {
	row := make(Row, 0, len(columns))
	for i, column := range columns {
		if column == "" {
			continue
		}

		value := ""
		if i < len(cells) {
			value = strings.TrimSpace(cells[i])
		}

		if pos := row.index(column); pos >= 0 {
			row[pos].Value = value
			continue
		}
		row = append(row, Field{Name: column, Value: value})
	}
	return row
}

func (r Row) index(name string) int {
	for i, f := range r {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// =============================================================================
// UPLOAD (INGESTION CONTRACT)
// =============================================================================

// Upload is what ingestion hands to the engine for one file.
type Upload struct {
	// FileName is the display name of the ingested file.
	FileName string

	// SheetName is the sheet (or section) the rows were read from.
	SheetName string

	// Columns is the trimmed header row, including empty names.
	Columns []string

	// Rows are the data rows, header excluded.
	Rows []Row
}

// =============================================================================
// SEVERITY AND CATEGORY
// =============================================================================

// Severity classifies a rule.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Category is one of the fixed validation groupings.
type Category string

const (
	CategoryTechnical    Category = "Technical checks"
	CategoryDPMTechnical Category = "DPM Technical checks"
	CategoryDPMBusiness  Category = "DPM Business validation rules"
	CategoryLEIEUID      Category = "LEI-EUID checks"
)

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{
		CategoryTechnical,
		CategoryDPMTechnical,
		CategoryDPMBusiness,
		CategoryLEIEUID,
	}
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if c := Category(s); c.Valid() {
		return c, nil
	}
	for _, known := range AllCategories() {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// =============================================================================
// FINDINGS AND RESULTS
// =============================================================================

// HeaderOffset converts a 0-based data row index into the line number a
// user sees in the spreadsheet: one for 1-based counting, one for the
// header row.
const HeaderOffset = 2

// ReportIndex maps an internal row index to report space.
func ReportIndex(i int) int {
	return i + HeaderOffset
}

// Issue is the finding produced by a rule that failed for at least one row.
type Issue struct {
	RuleID     string   `json:"ruleId" xml:"ruleId,attr"`
	RuleName   string   `json:"ruleName" xml:"ruleName"`
	Severity   Severity `json:"severity" xml:"severity,attr"`
	Message    string   `json:"message" xml:"message"`
	RowIndexes []int    `json:"rowIndexes" xml:"rows>row"`
}

// Result is the outcome of evaluating one category.
type Result struct {
	Category    Category `json:"category" xml:"name,attr"`
	Issues      []Issue  `json:"issues" xml:"issue"`
	PassedRules int      `json:"passedRules" xml:"passedRules,attr"`
	TotalRules  int      `json:"totalRules" xml:"totalRules,attr"`
}

// Summary aggregates Results across categories.
type Summary struct {
	Issues   int `json:"issues"`
	Passed   int `json:"passed"`
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Failed reports whether the summary should be treated as a failed
// submission. Warnings only count when treatWarningsAsErrors is set.
func (s Summary) Failed(treatWarningsAsErrors bool) bool {
	if s.Errors > 0 {
		return true
	}
	return treatWarningsAsErrors && s.Warnings > 0
}
