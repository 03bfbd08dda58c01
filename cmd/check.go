// =============================================================================
// Register Validator - Check Command
// =============================================================================
//
// This file defines the 'check' command, the main command of the tool. It
// validates register files and writes one report per configured format.
//
// COMMAND USAGE:
//   validator check [files...] [flags]
//
// FLAGS:
//   --category : Evaluate only this category (repeatable)
//   --format   : Report format: json, xml, xlsx, txt (repeatable)
//   --dry-run  : Validate and print every category panel without writing
//                reports
//   --strict   : Treat warning findings as failures
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Resolve the input files (arguments, or the input directory)
//   3. Build the rule catalog and engine
//   4. Validate the files concurrently
//   5. Print findings and the summary table
//
// EXIT STATUS:
//   Non-zero when any file could not be ingested or reported, or when a
//   file has failing findings.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/register-validator/internal/config"
	"github.com/ginjaninja78/register-validator/internal/ingest"
	"github.com/ginjaninja78/register-validator/internal/pipeline"
	"github.com/ginjaninja78/register-validator/internal/report"
	"github.com/ginjaninja78/register-validator/internal/rules"
	"github.com/ginjaninja78/register-validator/internal/types"
	"github.com/ginjaninja78/register-validator/internal/validation"
	"github.com/ginjaninja78/register-validator/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	checkCategories []string
	checkFormats    []string
	checkDryRun     bool
	checkStrict     bool
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Validate register files",
	Long: `The check command validates register files (.xlsx, .xlsm, .csv, .txt)
against the rule catalog.

Without arguments, every supported file in the configured input directory
is checked. Files are validated concurrently and independently: a file that
cannot be read does not stop the others.

For each file:
  - The findings are printed per category
  - A report is written to the output directory in every configured format
  - The input is moved to the archive directory when archive_inputs is set`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringArrayVar(
		&checkCategories,
		"category",
		nil,
		"Evaluate only this category (repeatable)",
	)

	checkCmd.Flags().StringSliceVar(
		&checkFormats,
		"format",
		nil,
		"Report format: json, xml, xlsx, txt (repeatable, overrides the config file)",
	)

	checkCmd.Flags().BoolVar(
		&checkDryRun,
		"dry-run",
		false,
		"Validate without writing reports or archiving inputs",
	)

	checkCmd.Flags().BoolVar(
		&checkStrict,
		"strict",
		false,
		"Treat warning findings as failures",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runCheck(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, logger, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	opts, err := checkOptions(cfg)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: RESOLVE INPUT FILES
	// =========================================================================

	files := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir)
	files.UseTimestampSubdirs = cfg.ArchiveDateSubdirs

	paths := args
	if len(paths) == 0 {
		paths, err = files.DiscoverInputFiles(ingest.Supported)
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if len(paths) == 0 {
		fmt.Fprintf(out, "No register files found in %s\n", cfg.InputDir)
		return nil
	}

	logger.Info("discovered registers", "count", len(paths))

	if !opts.DryRun {
		if err := files.EnsureDirectories(); err != nil {
			return err
		}
	}

	// Sizes are taken up front: archival moves the inputs.
	sizes := make([]int64, len(paths))
	for i, path := range paths {
		if size, err := utils.GetFileSize(path); err == nil {
			sizes[i] = size
		}
	}

	// =========================================================================
	// STEP 3: BUILD ENGINE
	// =========================================================================

	catalog := rules.NewCatalog(rules.Aliases(cfg.FieldAliases))
	engine := validation.NewEngine(catalog, validation.WithLogger(logger))
	logger.Debug("rule catalog ready", "rules", engine.Catalog().Len(), "aliases", len(cfg.FieldAliases))

	// =========================================================================
	// STEP 4: VALIDATE
	// =========================================================================

	runner := pipeline.New(engine, files, opts, logger)
	results := runner.RunAll(cmd.Context(), paths)

	// =========================================================================
	// STEP 5: PRINT RESULTS
	// =========================================================================

	failed := printCheckResults(out, results, sizes, opts.DryRun, logger)

	fmt.Fprintf(out, "\n%d file(s) checked in %s\n",
		len(results), time.Since(startTime).Round(time.Millisecond))

	if failed > 0 {
		fmt.Fprintln(out, failStyle.Render(fmt.Sprintf("%d file(s) failed", failed)))
		return errChecksFailed
	}

	fmt.Fprintln(out, passStyle.Render("All files passed"))
	return nil
}

// checkOptions merges command flags over the configuration.
func checkOptions(cfg *config.MainConfig) (pipeline.Options, error) {
	opts := pipeline.Options{
		OutputNameFormat:      cfg.OutputNameFormat,
		DryRun:                checkDryRun,
		Archive:               cfg.ArchiveInputs,
		TreatWarningsAsErrors: cfg.TreatWarningsAsErrors || checkStrict,
		Ingest: ingest.Settings{
			CSV:  cfg.CSVSettings,
			XLSX: cfg.XLSXSettings,
		},
		MaxConcurrency: cfg.MaxConcurrency,
	}

	if len(checkCategories) > 0 {
		for _, name := range checkCategories {
			category, err := types.ParseCategory(name)
			if err != nil {
				return opts, err
			}
			opts.Categories = append(opts.Categories, category)
		}
	} else {
		categories, err := cfg.ParsedCategories()
		if err != nil {
			return opts, err
		}
		opts.Categories = categories
	}

	formats := cfg.ReportFormats
	if len(checkFormats) > 0 {
		formats = checkFormats
	}
	for _, name := range formats {
		format, err := report.ParseFormat(name)
		if err != nil {
			return opts, err
		}
		opts.Formats = append(opts.Formats, format)
	}

	return opts, nil
}

// printCheckResults writes the per-file findings and the summary table and
// returns the number of failed files. A dry run writes no report, so every
// category panel and the overall summary line are printed instead of the
// failing categories only.
func printCheckResults(w io.Writer, results []pipeline.Result, sizes []int64, full bool, logger *log.Logger) int {
	failed := 0

	t := newTable("File", "Sheet", "Rows", "Size", "Rules Passed", "Findings", "Time", "Status")

	for i, result := range results {
		name := filepath.Base(result.FilePath)

		if !result.Success {
			failed++
			t.Row(name, "-", "-", humanize.Bytes(uint64(max(0, sizes[i]))), "-", "-",
				result.Stats.ProcessingTime.Round(time.Millisecond).String(),
				failStyle.Render("ERROR"))
			fmt.Fprintln(w, titleStyle.Render(name))
			fmt.Fprintln(w, detailStyle.Render(result.Error.Error()))
			continue
		}

		status := passStyle.Render("PASS")
		switch {
		case !result.Passed:
			failed++
			status = failStyle.Render("FAIL")
		case result.Summary.Warnings > 0:
			status = warnStyle.Render("WARN")
		}

		t.Row(
			name,
			result.Stats.SheetName,
			humanize.Comma(int64(result.Stats.Rows)),
			humanize.Bytes(uint64(max(0, sizes[i]))),
			fmt.Sprintf("%d/%d", result.Summary.Passed, result.Summary.Total),
			strconv.Itoa(result.Summary.Issues),
			result.Stats.ProcessingTime.Round(time.Millisecond).String(),
			status,
		)

		switch {
		case full:
			fmt.Fprintln(w, titleStyle.Render(name))
			fmt.Fprintln(w, detailStyle.Render(validation.FormatResults(result.Results)))
		case result.Summary.Issues > 0:
			fmt.Fprintln(w, titleStyle.Render(name))
			for _, r := range validation.Ordered(result.Results) {
				if len(r.Issues) > 0 {
					fmt.Fprint(w, detailStyle.Render(validation.FormatResult(r)))
					fmt.Fprintln(w)
				}
			}
		}

		for _, output := range result.Outputs {
			logger.Info("report written", "file", name, "report", output)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, t.Render())

	return failed
}
