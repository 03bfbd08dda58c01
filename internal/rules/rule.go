// =============================================================================
// Register Validator - Rule Shapes
// =============================================================================
//
// A Rule is a fixed-shape record: identity, severity, a pure predicate over
// the full row set, and a message formatter. Three constructors build the
// shapes used by the catalog:
//
//   - RequiredField : flags rows where the resolved value is empty
//   - Pattern       : flags rows where a non-empty value fails a regexp
//   - Custom        : flags rows for which an arbitrary predicate holds
//
// Presence and format are deliberately independent: a Pattern rule never
// flags an empty value, that is the job of a RequiredField rule.
//
// =============================================================================

package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ginjaninja78/register-validator/internal/types"
)

// Rule is a single named check over a row set.
type Rule struct {
	// ID is the stable, human-referenceable identifier (e.g. "TECH-1").
	ID string

	// Name is the human-readable description.
	Name string

	// Severity is reported on every Issue the rule produces.
	Severity types.Severity

	// Check returns the 0-based indexes of failing rows, ascending and
	// without duplicates. It must not retain or mutate rows.
	Check func(rows []types.Row) []int

	// Message renders the finding message for a failure count.
	Message func(count int) string
}

// RowPredicate reports whether a single row fails a check.
type RowPredicate func(row types.Row) bool

// failing runs pred over every row and collects the failing indexes.
// Walking rows in order keeps the result ascending and duplicate free.
func failing(rows []types.Row, pred RowPredicate) []int {
	var out []int
	for i, row := range rows {
		if pred(row) {
			out = append(out, i)
		}
	}
	return out
}

// RequiredField builds a rule that fails every row whose value for fields
// (resolved with Resolve) is empty.
func RequiredField(id, name string, fields []string, severity types.Severity) Rule {
	return Rule{
		ID:       id,
		Name:     name,
		Severity: severity,
		Check: func(rows []types.Row) []int {
			return failing(rows, func(row types.Row) bool {
				return Resolve(row, fields) == ""
			})
		},
		Message: func(count int) string {
			return fmt.Sprintf("%d row(s) are missing %s.", count, strings.Join(fields, " / "))
		},
	}
}

// Pattern builds a rule that fails rows whose value is present but does
// not match re. Pattern rules are always error severity.
func Pattern(id, name string, fields []string, re *regexp.Regexp, description string) Rule {
	return Rule{
		ID:       id,
		Name:     name,
		Severity: types.SeverityError,
		Check: func(rows []types.Row) []int {
			return failing(rows, func(row types.Row) bool {
				value := Resolve(row, fields)
				if value == "" {
					return false
				}
				return !re.MatchString(value)
			})
		},
		Message: func(count int) string {
			return fmt.Sprintf("%d row(s) failed rule: %s", count, description)
		},
	}
}

// Custom builds a rule from an arbitrary row predicate.
func Custom(id, name string, severity types.Severity, pred RowPredicate, message func(int) string) Rule {
	return Rule{
		ID:       id,
		Name:     name,
		Severity: severity,
		Check: func(rows []types.Row) []int {
			return failing(rows, pred)
		},
		Message: message,
	}
}
