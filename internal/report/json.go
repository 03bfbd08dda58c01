package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ginjaninja78/register-validator/internal/types"
)

type jsonReport struct {
	RunID       string         `json:"runId"`
	FileName    string         `json:"fileName"`
	SheetName   string         `json:"sheetName"`
	RowCount    int            `json:"rowCount"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Summary     types.Summary  `json:"summary"`
	Results     []types.Result `json:"results"`
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	doc := jsonReport{
		RunID:       r.RunID,
		FileName:    r.FileName,
		SheetName:   r.SheetName,
		RowCount:    r.RowCount,
		GeneratedAt: r.GeneratedAt,
		Summary:     r.Summary,
		Results:     r.Results,
	}
	if doc.Results == nil {
		doc.Results = []types.Result{}
	}

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}
