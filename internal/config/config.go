// =============================================================================
// Register Validator - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file.
//
// CONFIGURATION FILE (config.yaml):
//
//   input_dir: ./input
//   output_dir: ./reports
//   report_formats: [json, xlsx]
//   categories: ["Technical checks", "LEI-EUID checks"]
//   field_aliases:
//     Record ID: ["Unique ID", "RecordID"]
//   csv_settings:
//     delimiter: ";"
//   xlsx_settings:
//     sheet: B_01.01
//
// Every field is optional; unset values fall back to the defaults below.
// A handful of settings can also be overridden from the environment.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/register-validator/internal/types"
)

// Environment variables that override file settings.
const (
	EnvLogLevel       = "VALIDATOR_LOG_LEVEL"
	EnvLogFormat      = "VALIDATOR_LOG_FORMAT"
	EnvOutputDir      = "VALIDATOR_OUTPUT_DIR"
	EnvMaxConcurrency = "VALIDATOR_MAX_CONCURRENCY"
)

// DefaultOutputNameFormat keeps the source extension in report names so that
// register.csv and register.xlsx never share a report path.
const DefaultOutputNameFormat = "{original}_{source_ext}_{timestamp}.{ext}"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for .xlsx and .csv files when no files are given
	// on the command line.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the generated reports.
	// Default: "./reports"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives input files after a successful run, when
	// ArchiveInputs is set.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// ArchiveInputs moves validated input files to InputArchiveDir.
	// Default: false
	ArchiveInputs bool `yaml:"archive_inputs"`

	// ArchiveDateSubdirs files archived inputs under YYYY/MM/DD.
	// Default: false
	ArchiveDateSubdirs bool `yaml:"archive_date_subdirs"`

	// =========================================================================
	// REPORT SETTINGS
	// =========================================================================

	// OutputNameFormat is the report file name pattern.
	// Placeholders: {uuid}, {timestamp}, {date}, {time}, {original},
	// {source_ext}, {ext}
	// Default: "{original}_{source_ext}_{timestamp}.{ext}"
	//
	// A report is never overwritten: a file whose report path is already
	// taken fails instead.
	OutputNameFormat string `yaml:"output_name_format"`

	// ReportFormats lists the report files written per input.
	// Valid values: "json", "xml", "xlsx", "txt"
	// Default: ["json"]
	ReportFormats []string `yaml:"report_formats"`

	// =========================================================================
	// VALIDATION SETTINGS
	// =========================================================================

	// Categories restricts evaluation to the listed categories.
	// Empty means all categories.
	Categories []string `yaml:"categories"`

	// TreatWarningsAsErrors makes warning findings fail a file.
	// Default: false
	TreatWarningsAsErrors bool `yaml:"treat_warnings_as_errors"`

	// FieldAliases adds accepted header synonyms per canonical field name.
	// Example:
	//   field_aliases:
	//     Record ID: ["Unique ID"]
	FieldAliases map[string][]string `yaml:"field_aliases"`

	// CSVSettings controls parsing of .csv inputs.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// XLSXSettings controls parsing of .xlsx and .xlsm inputs.
	XLSXSettings XLSXSettings `yaml:"xlsx_settings"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log encoding.
	// Valid values: "text", "json", "logfmt"
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files validated at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter separates fields. Accepts a single character or one of
	// "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter"`
}

// Comma resolves Delimiter to the rune the CSV reader splits on.
func (s CSVSettings) Comma() (rune, error) {
	switch s.Delimiter {
	case "":
		return ',', nil
	case "\\t", "\t", "tab", "TAB":
		return '\t', nil
	case "|", "pipe", "PIPE":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	}

	r, size := utf8.DecodeRuneInString(s.Delimiter)
	if r == utf8.RuneError || size != len(s.Delimiter) {
		return 0, fmt.Errorf("csv delimiter %q must be a single character", s.Delimiter)
	}
	return r, nil
}

// XLSXSettings contains settings for reading workbooks.
type XLSXSettings struct {
	// Sheet names the worksheet to validate, matched case-insensitively.
	// Empty means the first sheet.
	Sheet string `yaml:"sheet"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// DefaultMainConfig returns a configuration with every default applied.
func DefaultMainConfig() *MainConfig {
	config := &MainConfig{}
	applyMainConfigDefaults(config)
	return config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. A missing file is
//     not an error when allowMissing is true; defaults are used instead.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string, allowMissing bool) (*MainConfig, error) {
	config := DefaultMainConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case allowMissing && errors.Is(err, os.ErrNotExist):
		// Fall through to defaults.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnvOverrides(config)
	applyMainConfigDefaults(config)

	if err := validateMainConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides copies environment settings over file settings.
func applyEnvOverrides(config *MainConfig) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		config.LogFormat = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		config.OutputDir = v
	}
	if v := os.Getenv(EnvMaxConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.MaxConcurrency = n
		}
	}
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./reports"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = DefaultOutputNameFormat
	}
	if len(config.ReportFormats) == 0 {
		config.ReportFormats = []string{"json"}
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}
}

// validateMainConfig checks settings that defaults cannot repair.
func validateMainConfig(config *MainConfig) error {
	for _, format := range config.ReportFormats {
		switch strings.ToLower(strings.TrimSpace(format)) {
		case "json", "xml", "xlsx", "txt":
		default:
			return fmt.Errorf("unsupported report format %q", format)
		}
	}

	switch strings.ToLower(config.LogFormat) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("unsupported log format %q", config.LogFormat)
	}

	if _, err := config.ParsedCategories(); err != nil {
		return err
	}

	if _, err := config.CSVSettings.Comma(); err != nil {
		return err
	}

	// Field names match case-insensitively, so two keys that differ only
	// by case would compete for the same field.
	seen := make(map[string]string, len(config.FieldAliases))
	for field, synonyms := range config.FieldAliases {
		if strings.TrimSpace(field) == "" {
			return fmt.Errorf("field_aliases contains an empty field name")
		}
		folded := strings.ToLower(strings.TrimSpace(field))
		if other, ok := seen[folded]; ok {
			return fmt.Errorf("field_aliases keys %q and %q differ only by case", other, field)
		}
		seen[folded] = field
		for _, s := range synonyms {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("field_aliases[%q] contains an empty alias", field)
			}
		}
	}

	return nil
}

// ParsedCategories returns the configured categories, or every category
// when none are configured.
func (c *MainConfig) ParsedCategories() ([]types.Category, error) {
	if len(c.Categories) == 0 {
		return types.AllCategories(), nil
	}

	out := make([]types.Category, 0, len(c.Categories))
	for _, name := range c.Categories {
		category, err := types.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		out = append(out, category)
	}
	return out, nil
}
