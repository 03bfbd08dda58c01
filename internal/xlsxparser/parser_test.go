package xlsxparser_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/register-validator/internal/types"
	"github.com/ginjaninja78/register-validator/internal/xlsxparser"
)

// writeWorkbook saves sheets (name -> rows) to a temp file. Sheets are
// created in the given order, starting with the default sheet.
func writeWorkbook(t *testing.T, order []string, sheets map[string][][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}

		for r, row := range sheets[name] {
			if len(row) == 0 {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(name, cell, &values))
		}
	}

	path := filepath.Join(t.TempDir(), "register.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseWorkbook(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, []string{"B_01.01"}, map[string][][]interface{}{
		"B_01.01": {
			{},
			{" Record ID ", "Entity Name", "", "LEI"},
			{"R-001", " Acme Bank ", "ignored", "5493001KJTIIGC8Y1R12"},
			{},
			{"R-002", "Beta"},
		},
	})

	upload, err := xlsxparser.ParseWorkbook(path, xlsxparser.Options{})
	require.NoError(t, err)

	assert.Equal(t, "register.xlsx", upload.FileName)
	assert.Equal(t, "B_01.01", upload.SheetName)
	assert.Equal(t, []string{"Record ID", "Entity Name", "", "LEI"}, upload.Columns)
	require.Len(t, upload.Rows, 2)

	assert.Equal(t, types.Row{
		{Name: "Record ID", Value: "R-001"},
		{Name: "Entity Name", Value: "Acme Bank"},
		{Name: "LEI", Value: "5493001KJTIIGC8Y1R12"},
	}, upload.Rows[0])

	assert.Equal(t, types.Row{
		{Name: "Record ID", Value: "R-002"},
		{Name: "Entity Name", Value: "Beta"},
		{Name: "LEI", Value: ""},
	}, upload.Rows[1])
}

func TestParseWorkbookSheetSelection(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, []string{"Cover", "Data"}, map[string][][]interface{}{
		"Cover": {{"Title"}, {"Register of information"}},
		"Data":  {{"Record ID"}, {"R-001"}},
	})

	upload, err := xlsxparser.ParseWorkbook(path, xlsxparser.Options{Sheet: "data"})
	require.NoError(t, err)
	assert.Equal(t, "Data", upload.SheetName)
	require.Len(t, upload.Rows, 1)

	_, err = xlsxparser.ParseWorkbook(path, xlsxparser.Options{Sheet: "Missing"})
	require.ErrorIs(t, err, xlsxparser.ErrSheetNotFound)

	upload, err = xlsxparser.ParseWorkbook(path, xlsxparser.Options{})
	require.NoError(t, err)
	assert.Equal(t, "Cover", upload.SheetName)
}

func TestParseWorkbookEmptySheet(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, []string{"Sheet1"}, map[string][][]interface{}{})

	_, err := xlsxparser.ParseWorkbook(path, xlsxparser.Options{})
	require.ErrorIs(t, err, xlsxparser.ErrEmptySheet)
}

func TestParseWorkbookHeaderOnly(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, []string{"Sheet1"}, map[string][][]interface{}{
		"Sheet1": {{"Record ID", "LEI"}},
	})

	upload, err := xlsxparser.ParseWorkbook(path, xlsxparser.Options{})
	require.NoError(t, err)
	assert.Empty(t, upload.Rows)
	assert.NotNil(t, upload.Rows)
}

func TestParseWorkbookNotAWorkbook(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "junk.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := xlsxparser.ParseWorkbook(path, xlsxparser.Options{})
	require.Error(t, err)

	_, err = xlsxparser.ParseWorkbook(path+".missing", xlsxparser.Options{})
	require.Error(t, err)
}
