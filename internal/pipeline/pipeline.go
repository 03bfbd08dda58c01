// =============================================================================
// Register Validator - Validation Pipeline
// =============================================================================
//
// This module orchestrates the work for one register file, from ingestion
// to report files.
//
// PIPELINE:
//   1. Ingest the file (XLSX or CSV) into rows
//   2. Evaluate the configured categories
//   3. Summarize the results
//   4. Write one report per configured format. Report files are created
//      exclusively: a name that is already taken fails the file rather
//      than overwriting another report.
//   5. Archive the input file (optional)
//
// CONCURRENCY:
//   RunAll validates several files at once. Every file gets its own row
//   snapshot; the engine and its catalog are shared read-only.
//
// =============================================================================

package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/register-validator/internal/config"
	"github.com/ginjaninja78/register-validator/internal/ingest"
	"github.com/ginjaninja78/register-validator/internal/logging"
	"github.com/ginjaninja78/register-validator/internal/report"
	"github.com/ginjaninja78/register-validator/internal/types"
	"github.com/ginjaninja78/register-validator/internal/validation"
	"github.com/ginjaninja78/register-validator/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of validating a single file.
type Result struct {
	// FilePath is the path to the input file.
	FilePath string

	// Outputs are the report files written, in format order.
	Outputs []string

	// ArchivePath is where the input was moved, if archival ran.
	ArchivePath string

	// Results holds one entry per evaluated category.
	Results map[types.Category]types.Result

	// Summary aggregates Results.
	Summary types.Summary

	// Success is false when the file could not be ingested or a report
	// could not be written. Findings do not affect it.
	Success bool

	// Passed is true when Success holds and the summary has no failing
	// findings under the configured strictness.
	Passed bool

	// Error is the reason Success is false.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	Rows           int
	Columns        int
	SheetName      string
	ProcessingTime time.Duration
}

// =============================================================================
// RUNNER
// =============================================================================

// Options controls a Runner.
type Options struct {
	// Categories to evaluate. Empty means all.
	Categories []types.Category

	// Formats of the report files to write.
	Formats []report.Format

	// OutputNameFormat is passed to utils.GenerateOutputFileName.
	OutputNameFormat string

	// DryRun skips report writing and archival.
	DryRun bool

	// Archive moves inputs to the archive directory after success.
	Archive bool

	// TreatWarningsAsErrors makes warning findings fail a file.
	TreatWarningsAsErrors bool

	// Ingest carries the CSV and XLSX parser settings.
	Ingest ingest.Settings

	// MaxConcurrency bounds RunAll. Values below 1 mean 1.
	MaxConcurrency int
}

// Runner validates register files.
type Runner struct {
	engine *validation.Engine
	files  *utils.FileManager
	opts   Options
	logger *log.Logger
}

// New creates a Runner.
func New(engine *validation.Engine, files *utils.FileManager, opts Options, logger *log.Logger) *Runner {
	if opts.OutputNameFormat == "" {
		opts.OutputNameFormat = config.DefaultOutputNameFormat
	}
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &Runner{
		engine: engine,
		files:  files,
		opts:   opts,
		logger: logger,
	}
}

// RunAll validates every path and returns results in input order. Once ctx
// is cancelled, files that have not started are reported with ctx's error.
func (r *Runner) RunAll(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.MaxConcurrency)

	for i, path := range paths {
		g.Go(func() error {
			results[i] = r.Run(gctx, path)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// Run executes the pipeline for one file.
func (r *Runner) Run(ctx context.Context, path string) (result Result) {
	startTime := time.Now()
	result.FilePath = path

	defer func() {
		result.Stats.ProcessingTime = time.Since(startTime)
	}()

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	logger := r.logger.With("file", filepath.Base(path))

	// =========================================================================
	// STEP 1: INGEST
	// =========================================================================

	upload, err := ingest.Load(path, r.opts.Ingest)
	if err != nil {
		result.Error = fmt.Errorf("failed to read register: %w", err)
		logger.Error("ingestion failed", "err", err)
		return result
	}

	result.Stats.Rows = len(upload.Rows)
	result.Stats.Columns = len(upload.Columns)
	result.Stats.SheetName = upload.SheetName
	logger.Debug("ingested register", "sheet", upload.SheetName, "rows", len(upload.Rows))

	// =========================================================================
	// STEP 2-3: EVALUATE AND SUMMARIZE
	// =========================================================================

	var results map[types.Category]types.Result
	if len(r.opts.Categories) == 0 {
		results = r.engine.EvaluateAll(upload.Rows)
	} else {
		results, err = r.engine.EvaluateCategories(r.opts.Categories, upload.Rows)
		if err != nil {
			result.Error = fmt.Errorf("failed to evaluate register: %w", err)
			return result
		}
	}

	result.Results = results
	result.Summary = validation.Summarize(results)

	// =========================================================================
	// STEP 4: WRITE REPORTS
	// =========================================================================

	if !r.opts.DryRun {
		outputs, err := r.writeReports(upload, results)
		result.Outputs = outputs
		if err != nil {
			result.Error = err
			logger.Error("report writing failed", "err", err)
			return result
		}
	}

	// =========================================================================
	// STEP 5: ARCHIVE
	// =========================================================================

	if r.opts.Archive && !r.opts.DryRun {
		archived, err := r.files.ArchiveInputFile(path)
		if err != nil {
			// The reports exist; a failed move is worth a warning only.
			logger.Warn("archival failed", "err", err)
		} else {
			result.ArchivePath = archived
		}
	}

	result.Success = true
	result.Passed = !result.Summary.Failed(r.opts.TreatWarningsAsErrors)

	logger.Info("validated register",
		"rows", result.Stats.Rows,
		"passed", result.Summary.Passed,
		"total", result.Summary.Total,
		"findings", result.Summary.Issues,
	)

	return result
}

// writeReports writes one file per configured format into the output dir.
func (r *Runner) writeReports(upload *types.Upload, results map[types.Category]types.Result) ([]string, error) {
	if len(r.opts.Formats) == 0 {
		return nil, nil
	}

	doc := report.New(upload, results)
	sourceExt := filepath.Ext(upload.FileName)
	original := strings.TrimSuffix(upload.FileName, sourceExt)

	outputs := make([]string, 0, len(r.opts.Formats))
	for _, format := range r.opts.Formats {
		name := utils.GenerateOutputFileName(r.opts.OutputNameFormat, map[string]string{
			"original":   original,
			"source_ext": strings.ToLower(strings.TrimPrefix(sourceExt, ".")),
			"ext":        format.Extension(),
		})
		path := filepath.Join(r.files.OutputDir, name)

		if err := report.WriteFile(path, format, doc); err != nil {
			return outputs, fmt.Errorf("failed to write %s report: %w", format, err)
		}
		outputs = append(outputs, path)
	}

	return outputs, nil
}
