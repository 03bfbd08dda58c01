// =============================================================================
// Register Validator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (validator)
//   ├── checkCmd   (validator check)
//   ├── rulesCmd   (validator rules)
//   └── versionCmd (validator version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose,
//   --log-format). Commands call loadRuntime to get the merged
//   configuration and a logger built from it.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/register-validator/internal/config"
	"github.com/ginjaninja78/register-validator/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// logFormat overrides the configured log format when set.
var logFormat string

// errChecksFailed is returned when at least one file failed. The details
// have already been printed, so Execute only sets the exit code.
var errChecksFailed = errors.New("validation failed")

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "validator",
	Short: "Register Validator - Check regulatory register submissions",
	Long: `Register Validator checks register submissions (XLSX or CSV exports)
against a fixed catalog of regulatory rules, grouped in four categories:

  - Technical checks
  - DPM Technical checks
  - DPM Business validation rules
  - LEI-EUID checks

Every rule reports the spreadsheet rows that fail it, and every file gets a
report in the configured formats (json, xml, xlsx, txt).

Example Usage:
  validator check                          # Check every register in the input directory
  validator check register.xlsx            # Check one file
  validator check --category "LEI-EUID checks" register.csv
  validator rules                          # List the rule catalog`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errChecksFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().StringVar(
		&logFormat,
		"log-format",
		"",
		"Log format: text, json or logfmt (overrides the config file)",
	)
}

// loadRuntime loads the configuration and builds the logger.
//
// The default config path may be absent, in which case built-in defaults
// apply. A path given explicitly with --config must exist.
func loadRuntime(cmd *cobra.Command) (*config.MainConfig, *log.Logger, error) {
	explicit := cmd.Flags().Changed("config")

	cfg, err := config.LoadMainConfig(cfgFile, !explicit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load main config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Debug("configuration loaded", "path", cfgFile, "explicit", explicit)
	return cfg, logger, nil
}
