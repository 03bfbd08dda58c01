// =============================================================================
// Register Validator - Result Aggregation and Formatting
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/register-validator/internal/types"
)

// Summarize adds up the Results that are present. Categories that were not
// evaluated simply do not contribute; a nil map yields a zero Summary.
func Summarize(results map[types.Category]types.Result) types.Summary {
	var s types.Summary
	for _, r := range results {
		s.Issues += len(r.Issues)
		s.Passed += r.PassedRules
		s.Total += r.TotalRules

		for _, issue := range r.Issues {
			if issue.Severity == types.SeverityWarning {
				s.Warnings++
			} else {
				s.Errors++
			}
		}
	}
	return s
}

// Ordered returns the Results in category display order, skipping
// categories that are absent from the map.
func Ordered(results map[types.Category]types.Result) []types.Result {
	out := make([]types.Result, 0, len(results))
	for _, category := range types.AllCategories() {
		if r, ok := results[category]; ok {
			out = append(out, r)
		}
	}
	return out
}

// =============================================================================
// RESULT FORMATTING
// =============================================================================

// FormatResult renders one category Result for display or logging.
//
// EXAMPLE:
//
//	Technical checks
//	Rules passed: 2/3
//	  TECH-1 — Unique identifier is mandatory
//	    1 row(s) are missing Record ID.
//	    Severity: ERROR | Rows: 2
func FormatResult(r types.Result) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("%s\n", r.Category))
	builder.WriteString(fmt.Sprintf("Rules passed: %d/%d\n", r.PassedRules, r.TotalRules))

	if len(r.Issues) == 0 {
		builder.WriteString("  No findings detected for this category.\n")
		return builder.String()
	}

	for _, issue := range r.Issues {
		builder.WriteString(fmt.Sprintf("  %s — %s\n", issue.RuleID, issue.RuleName))
		builder.WriteString(fmt.Sprintf("    %s\n", issue.Message))
		builder.WriteString(fmt.Sprintf("    Severity: %s | Rows: %s\n",
			strings.ToUpper(string(issue.Severity)), JoinRows(issue.RowIndexes)))
	}

	return builder.String()
}

// FormatResults renders all present Results in category order, followed by
// the overall summary line.
func FormatResults(results map[types.Category]types.Result) string {
	if len(results) == 0 {
		return "No validation results."
	}

	var builder strings.Builder
	for _, r := range Ordered(results) {
		builder.WriteString(FormatResult(r))
		builder.WriteString("\n")
	}

	s := Summarize(results)
	builder.WriteString(fmt.Sprintf("Summary: %d/%d rules passed, %d finding(s) (%d error, %d warning)\n",
		s.Passed, s.Total, s.Issues, s.Errors, s.Warnings))

	return builder.String()
}

// JoinRows renders report-space row indexes as "2, 5, 9".
func JoinRows(indexes []int) string {
	parts := make([]string, len(indexes))
	for i, idx := range indexes {
		parts[i] = fmt.Sprintf("%d", idx)
	}
	return strings.Join(parts, ", ")
}
