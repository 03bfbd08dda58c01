// =============================================================================
// Register Validator - XML Report
// =============================================================================
//
// XML STRUCTURE:
//
//   <validationReport runId="..." fileName="register.xlsx" sheetName="B_01.01" rowCount="3">
//     <summary issues="1" passed="11" total="12" errors="1" warnings="0"/>
//     <category name="Technical checks" passedRules="2" totalRules="3">
//       <issue ruleId="TECH-1" severity="error">
//         <ruleName>Unique identifier is mandatory</ruleName>
//         <message>1 row(s) are missing Record ID.</message>
//         <rows>
//           <row>2</row>
//         </rows>
//       </issue>
//     </category>
//   </validationReport>
//
// =============================================================================

package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/ginjaninja78/register-validator/internal/types"
)

type xmlSummary struct {
	Issues   int `xml:"issues,attr"`
	Passed   int `xml:"passed,attr"`
	Total    int `xml:"total,attr"`
	Errors   int `xml:"errors,attr"`
	Warnings int `xml:"warnings,attr"`
}

type xmlReport struct {
	XMLName     xml.Name       `xml:"validationReport"`
	RunID       string         `xml:"runId,attr"`
	FileName    string         `xml:"fileName,attr"`
	SheetName   string         `xml:"sheetName,attr"`
	RowCount    int            `xml:"rowCount,attr"`
	GeneratedAt string         `xml:"generatedAt,attr"`
	Summary     xmlSummary     `xml:"summary"`
	Categories  []types.Result `xml:"category"`
}

// WriteXML writes the report as an indented XML document.
func WriteXML(w io.Writer, r *Report) error {
	doc := xmlReport{
		RunID:       r.RunID,
		FileName:    r.FileName,
		SheetName:   r.SheetName,
		RowCount:    r.RowCount,
		GeneratedAt: r.GeneratedAt.Format(time.RFC3339),
		Summary: xmlSummary{
			Issues:   r.Summary.Issues,
			Passed:   r.Summary.Passed,
			Total:    r.Summary.Total,
			Errors:   r.Summary.Errors,
			Warnings: r.Summary.Warnings,
		},
		Categories: r.Results,
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode XML report: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("failed to flush XML report: %w", err)
	}

	_, err := io.WriteString(w, "\n")
	return err
}
