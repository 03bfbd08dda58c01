package validation_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/register-validator/internal/rules"
	"github.com/ginjaninja78/register-validator/internal/types"
	"github.com/ginjaninja78/register-validator/internal/validation"
)

func row(pairs ...string) types.Row {
	var columns, cells []string
	for i := 0; i+1 < len(pairs); i += 2 {
		columns = append(columns, pairs[i])
		cells = append(cells, pairs[i+1])
	}
	return types.NewRow(columns, cells)
}

func findIssue(t *testing.T, r types.Result, id string) (types.Issue, bool) {
	t.Helper()
	for _, issue := range r.Issues {
		if issue.RuleID == id {
			return issue, true
		}
	}
	return types.Issue{}, false
}

func newEngine() *validation.Engine {
	return validation.NewEngine(rules.DefaultCatalog())
}

func TestEvaluateMissingRecordID(t *testing.T) {
	t.Parallel()

	rows := []types.Row{
		row("Record ID", "", "Entity Name", "Acme", "Reference Date", "2024-01-01"),
	}

	result, err := newEngine().Evaluate(types.CategoryTechnical, rows)
	require.NoError(t, err)

	assert.Equal(t, types.CategoryTechnical, result.Category)
	assert.Equal(t, 3, result.TotalRules)
	assert.Equal(t, 2, result.PassedRules)
	require.Len(t, result.Issues, 1)

	issue := result.Issues[0]
	assert.Equal(t, "TECH-1", issue.RuleID)
	assert.Equal(t, "Unique identifier is mandatory", issue.RuleName)
	assert.Equal(t, types.SeverityError, issue.Severity)
	assert.Equal(t, "1 row(s) are missing Record ID.", issue.Message)
	assert.Equal(t, []int{2}, issue.RowIndexes)
}

func TestEvaluateMissingIdentifiers(t *testing.T) {
	t.Parallel()

	result, err := newEngine().Evaluate(types.CategoryLEIEUID, []types.Row{row("LEI", "", "EUID", "")})
	require.NoError(t, err)

	_, ok := findIssue(t, result, "LEI-3")
	assert.True(t, ok)
	_, ok = findIssue(t, result, "LEI-1")
	assert.False(t, ok)
	_, ok = findIssue(t, result, "LEI-2")
	assert.False(t, ok)
	assert.Equal(t, 2, result.PassedRules)
}

func TestEvaluateTerminationBeforeStart(t *testing.T) {
	t.Parallel()

	rows := []types.Row{
		row("Start Date", "2024-01-01", "Termination Date", "2024-06-01"),
		row("Start Date", "2024-01-10", "Termination Date", "2024-01-01"),
		row("Start Date", "2024-02-01", "Termination Date", "2024-02-01"),
	}

	result, err := newEngine().Evaluate(types.CategoryDPMBusiness, rows)
	require.NoError(t, err)

	issue, ok := findIssue(t, result, "DPM-B-3")
	require.True(t, ok)
	assert.Equal(t, []int{3}, issue.RowIndexes)
	assert.Equal(t, types.SeverityWarning, issue.Severity)
}

func TestEvaluateEmptyRows(t *testing.T) {
	t.Parallel()

	engine := newEngine()
	for _, category := range types.AllCategories() {
		for _, rows := range [][]types.Row{nil, {}} {
			result, err := engine.Evaluate(category, rows)
			require.NoError(t, err)

			assert.Equal(t, result.TotalRules, result.PassedRules, category)
			assert.NotNil(t, result.Issues)
			assert.Empty(t, result.Issues)
		}
	}
}

func TestEvaluateCriticalityCase(t *testing.T) {
	t.Parallel()

	engine := newEngine()

	result, err := engine.Evaluate(types.CategoryDPMBusiness, []types.Row{
		row("Service Type", "ICT", "Criticality", "HIGH"),
	})
	require.NoError(t, err)
	_, ok := findIssue(t, result, "DPM-B-2")
	assert.False(t, ok)

	result, err = engine.Evaluate(types.CategoryDPMBusiness, []types.Row{
		row("Service Type", "ICT", "Criticality", "urgent"),
	})
	require.NoError(t, err)
	issue, ok := findIssue(t, result, "DPM-B-2")
	require.True(t, ok)
	assert.Equal(t, []int{2}, issue.RowIndexes)
}

func TestEvaluateUnknownCategory(t *testing.T) {
	t.Parallel()

	_, err := newEngine().Evaluate(types.Category("Style checks"), nil)
	require.ErrorIs(t, err, validation.ErrUnknownCategory)

	results, err := newEngine().EvaluateCategories(
		[]types.Category{types.CategoryTechnical, "Style checks"}, nil)
	require.ErrorIs(t, err, validation.ErrUnknownCategory)
	assert.Contains(t, results, types.CategoryTechnical)
}

func TestEvaluateInvariants(t *testing.T) {
	t.Parallel()

	rows := []types.Row{
		row("Record ID", "R1", "Entity Name", "", "Reference Date", "2024/01/01",
			"Template Code", "B_01.01", "DPM Version", "4.0", "Data Point Code", "",
			"Service Type", "", "Criticality", "urgent",
			"Start Date", "2024-03-01", "Termination Date", "2024-02-01",
			"LEI", "short", "EUID", "bad"),
		row("Record ID", "", "Entity Name", "Beta", "Reference Date", "2024-01-01",
			"LEI", "529900T8BM49AURSDO55"),
		row(),
	}

	engine := newEngine()
	first := engine.EvaluateAll(rows)
	second := engine.EvaluateAll(rows)

	require.Len(t, first, 4)
	assert.Equal(t, first, second, "evaluation is deterministic")

	for category, result := range first {
		assert.Equal(t, result.TotalRules, result.PassedRules+len(result.Issues), category)

		for _, issue := range result.Issues {
			require.NotEmpty(t, issue.RowIndexes)
			assert.Contains(t, issue.Message, "row(s)")
			for i, idx := range issue.RowIndexes {
				assert.GreaterOrEqual(t, idx, 2)
				assert.Less(t, idx, len(rows)+2)
				if i > 0 {
					assert.Greater(t, idx, issue.RowIndexes[i-1])
				}
			}
		}
	}

	summary := validation.Summarize(first)
	assert.Equal(t, 12, summary.Total)
	assert.Equal(t, summary.Total, summary.Passed+summary.Issues)
	assert.Equal(t, summary.Issues, summary.Errors+summary.Warnings)
	assert.Equal(t, 1, summary.Warnings)
}

func TestEngineWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	engine := validation.NewEngine(rules.DefaultCatalog(), validation.WithLogger(logger))
	_, err := engine.Evaluate(types.CategoryTechnical, nil)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "evaluated category")
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, types.Summary{}, validation.Summarize(nil))

	results := map[types.Category]types.Result{
		types.CategoryTechnical: {
			Category:    types.CategoryTechnical,
			Issues:      []types.Issue{{RuleID: "TECH-1", Severity: types.SeverityError}},
			PassedRules: 2,
			TotalRules:  3,
		},
		types.CategoryDPMBusiness: {
			Category:    types.CategoryDPMBusiness,
			Issues:      []types.Issue{{RuleID: "DPM-B-3", Severity: types.SeverityWarning}},
			PassedRules: 2,
			TotalRules:  3,
		},
	}

	assert.Equal(t, types.Summary{Issues: 2, Passed: 4, Total: 6, Errors: 1, Warnings: 1},
		validation.Summarize(results))
}

func TestOrdered(t *testing.T) {
	t.Parallel()

	results := map[types.Category]types.Result{
		types.CategoryLEIEUID:   {Category: types.CategoryLEIEUID},
		types.CategoryTechnical: {Category: types.CategoryTechnical},
	}

	ordered := validation.Ordered(results)
	require.Len(t, ordered, 2)
	assert.Equal(t, types.CategoryTechnical, ordered[0].Category)
	assert.Equal(t, types.CategoryLEIEUID, ordered[1].Category)
}

func TestFormatResult(t *testing.T) {
	t.Parallel()

	clean := validation.FormatResult(types.Result{
		Category:    types.CategoryDPMTechnical,
		Issues:      []types.Issue{},
		PassedRules: 3,
		TotalRules:  3,
	})
	assert.Equal(t, "DPM Technical checks\nRules passed: 3/3\n  No findings detected for this category.\n", clean)

	out := validation.FormatResult(types.Result{
		Category: types.CategoryTechnical,
		Issues: []types.Issue{{
			RuleID:     "TECH-1",
			RuleName:   "Unique identifier is mandatory",
			Severity:   types.SeverityError,
			Message:    "2 row(s) are missing Record ID.",
			RowIndexes: []int{2, 5},
		}},
		PassedRules: 2,
		TotalRules:  3,
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Technical checks", lines[0])
	assert.Equal(t, "Rules passed: 2/3", lines[1])
	assert.Contains(t, lines[2], "TECH-1")
	assert.Contains(t, lines[2], "Unique identifier is mandatory")
	assert.Equal(t, "    2 row(s) are missing Record ID.", lines[3])
	assert.Equal(t, "    Severity: ERROR | Rows: 2, 5", lines[4])
}

func TestFormatResults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "No validation results.", validation.FormatResults(nil))

	out := validation.FormatResults(newEngine().EvaluateAll(nil))
	assert.True(t, strings.HasPrefix(out, "Technical checks\n"))
	assert.Contains(t, out, "Summary: 12/12 rules passed, 0 finding(s) (0 error, 0 warning)")
}

func TestJoinRows(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", validation.JoinRows(nil))
	assert.Equal(t, "2", validation.JoinRows([]int{2}))
	assert.Equal(t, "2, 5, 9", validation.JoinRows([]int{2, 5, 9}))
}
