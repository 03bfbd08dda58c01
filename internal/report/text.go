package report

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/ginjaninja78/register-validator/internal/validation"
)

const rule = "================================================================================\n"

// WriteText writes the human-readable report.
func WriteText(w io.Writer, r *Report) error {
	writer := bufio.NewWriter(w)

	fmt.Fprintf(writer, "Register Validator - Validation Report\n"+
		"Generated: %s\n"+
		"File:      %s\n"+
		"Sheet:     %s\n"+
		"Data rows: %d\n"+
		"Run ID:    %s\n"+
		rule+"\n",
		r.GeneratedAt.Format(time.RFC3339),
		r.FileName,
		r.SheetName,
		r.RowCount,
		r.RunID)

	for _, result := range r.Results {
		writer.WriteString(validation.FormatResult(result))
		writer.WriteString("\n")
	}

	fmt.Fprintf(writer, rule+
		"Rules passed: %d/%d\n"+
		"Findings:     %d (%d error, %d warning)\n",
		r.Summary.Passed, r.Summary.Total,
		r.Summary.Issues, r.Summary.Errors, r.Summary.Warnings)

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush text report: %w", err)
	}
	return nil
}
