package report_test

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/register-validator/internal/report"
	"github.com/ginjaninja78/register-validator/internal/rules"
	"github.com/ginjaninja78/register-validator/internal/types"
	"github.com/ginjaninja78/register-validator/internal/validation"
)

func sampleReport(t *testing.T) *report.Report {
	t.Helper()

	upload := &types.Upload{
		FileName:  "register.xlsx",
		SheetName: "B_01.01",
		Columns:   []string{"Record ID", "Entity Name", "Reference Date", "LEI", "EUID"},
		Rows: []types.Row{
			types.NewRow(
				[]string{"Record ID", "Entity Name", "Reference Date", "LEI", "EUID"},
				[]string{"", "Acme", "2024-01-01", "", ""},
			),
		},
	}

	engine := validation.NewEngine(rules.DefaultCatalog())
	results, err := engine.EvaluateCategories(
		[]types.Category{types.CategoryLEIEUID, types.CategoryTechnical}, upload.Rows)
	require.NoError(t, err)

	return report.New(upload, results)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]report.Format{
		"json":  report.FormatJSON,
		" XML ": report.FormatXML,
		"xlsx":  report.FormatXLSX,
		"excel": report.FormatXLSX,
		"txt":   report.FormatText,
		"text":  report.FormatText,
	}
	for input, want := range tcs {
		got, err := report.ParseFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := report.ParseFormat("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json, xml, xlsx, txt")

	assert.Equal(t, "txt", report.FormatText.Extension())
}

func TestNew(t *testing.T) {
	t.Parallel()

	r := sampleReport(t)

	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, 1, r.RowCount)
	require.Len(t, r.Results, 2)
	assert.Equal(t, types.CategoryTechnical, r.Results[0].Category)
	assert.Equal(t, types.CategoryLEIEUID, r.Results[1].Category)
	assert.Equal(t, types.Summary{Issues: 2, Passed: 4, Total: 6, Errors: 2}, r.Summary)
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, sampleReport(t)))

	var doc struct {
		FileName string        `json:"fileName"`
		RowCount int           `json:"rowCount"`
		Summary  types.Summary `json:"summary"`
		Results  []struct {
			Category    string `json:"category"`
			PassedRules int    `json:"passedRules"`
			TotalRules  int    `json:"totalRules"`
			Issues      []struct {
				RuleID     string `json:"ruleId"`
				Severity   string `json:"severity"`
				Message    string `json:"message"`
				RowIndexes []int  `json:"rowIndexes"`
			} `json:"issues"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "register.xlsx", doc.FileName)
	assert.Equal(t, 1, doc.RowCount)
	assert.Equal(t, 2, doc.Summary.Issues)
	require.Len(t, doc.Results, 2)

	tech := doc.Results[0]
	assert.Equal(t, "Technical checks", tech.Category)
	assert.Equal(t, 2, tech.PassedRules)
	assert.Equal(t, 3, tech.TotalRules)
	require.Len(t, tech.Issues, 1)
	assert.Equal(t, "TECH-1", tech.Issues[0].RuleID)
	assert.Equal(t, "error", tech.Issues[0].Severity)
	assert.Equal(t, []int{2}, tech.Issues[0].RowIndexes)
}

func TestWriteJSONEmptyIssues(t *testing.T) {
	t.Parallel()

	upload := &types.Upload{FileName: "empty.csv"}
	results := validation.NewEngine(rules.DefaultCatalog()).EvaluateAll(nil)

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, report.New(upload, results)))
	assert.Contains(t, buf.String(), `"issues": []`)
	assert.NotContains(t, buf.String(), `"issues": null`)
}

func TestWriteXML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.WriteXML(&buf, sampleReport(t)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(xml.Header)))

	var doc struct {
		XMLName  xml.Name `xml:"validationReport"`
		FileName string   `xml:"fileName,attr"`
		Summary  struct {
			Issues int `xml:"issues,attr"`
			Total  int `xml:"total,attr"`
		} `xml:"summary"`
		Categories []struct {
			Name   string `xml:"name,attr"`
			Issues []struct {
				RuleID string `xml:"ruleId,attr"`
				Rows   []int  `xml:"rows>row"`
			} `xml:"issue"`
		} `xml:"category"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "register.xlsx", doc.FileName)
	assert.Equal(t, 2, doc.Summary.Issues)
	assert.Equal(t, 6, doc.Summary.Total)
	require.Len(t, doc.Categories, 2)
	assert.Equal(t, "LEI-EUID checks", doc.Categories[1].Name)
	require.Len(t, doc.Categories[1].Issues, 1)
	assert.Equal(t, "LEI-3", doc.Categories[1].Issues[0].RuleID)
	assert.Equal(t, []int{2}, doc.Categories[1].Issues[0].Rows)
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf, sampleReport(t)))

	out := buf.String()
	assert.Contains(t, out, "File:      register.xlsx")
	assert.Contains(t, out, "Technical checks\nRules passed: 2/3")
	assert.Contains(t, out, "1 row(s) are missing both LEI and EUID values.")
	assert.Contains(t, out, "Rules passed: 4/6")
	assert.Contains(t, out, "Findings:     2 (2 error, 0 warning)")
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.WriteXLSX(&buf, sampleReport(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Findings"}, f.GetSheetList())

	name, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "register.xlsx", name)

	findings, err := f.GetRows("Findings")
	require.NoError(t, err)
	require.Len(t, findings, 3)
	assert.Equal(t, "Rule ID", findings[0][1])
	assert.Equal(t, []string{
		"Technical checks", "TECH-1", "Unique identifier is mandatory", "ERROR",
		"1 row(s) are missing Record ID.", "1", "2",
	}, findings[1])
	assert.Equal(t, "LEI-3", findings[2][1])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	last := summary[len(summary)-1]
	assert.Equal(t, []string{"Total", "4", "6", "2"}, last)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := sampleReport(t)

	for _, format := range report.AllFormats() {
		path := filepath.Join(dir, "report."+format.Extension())
		require.NoError(t, report.WriteFile(path, format, r), format)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), format)
	}

	require.Error(t, report.WriteFile(filepath.Join(dir, "report.pdf"), report.Format("pdf"), r))
	assert.NoFileExists(t, filepath.Join(dir, "report.pdf"))
}

func TestWriteFileExclusive(t *testing.T) {
	t.Parallel()

	tcs := map[string]report.Format{
		"json": report.FormatJSON,
		"xlsx": report.FormatXLSX,
		"txt":  report.FormatText,
	}

	for name, format := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "register_csv."+format.Extension())
			require.NoError(t, os.WriteFile(path, []byte("earlier report"), 0o644))

			err := report.WriteFile(path, format, sampleReport(t))
			require.ErrorIs(t, err, report.ErrReportExists)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "earlier report", string(data), "existing report must be left alone")
		})
	}
}
