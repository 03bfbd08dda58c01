// Package ingest picks the parser for a register file by its extension.
package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/register-validator/internal/config"
	"github.com/ginjaninja78/register-validator/internal/csvparser"
	"github.com/ginjaninja78/register-validator/internal/types"
	"github.com/ginjaninja78/register-validator/internal/xlsxparser"
)

// ErrUnsupportedFormat is returned for files no parser handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Extensions lists the file extensions Load accepts.
var Extensions = []string{".xlsx", ".xlsm", ".csv", ".txt"}

// Supported reports whether path has an extension Load accepts.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Settings carries the per-format parser configuration.
type Settings struct {
	CSV  config.CSVSettings
	XLSX config.XLSXSettings
}

// Load reads path into an Upload.
func Load(path string, settings Settings) (*types.Upload, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return xlsxparser.ParseWorkbook(path, xlsxparser.Options{Sheet: settings.XLSX.Sheet})
	case ".csv", ".txt":
		return csvparser.Parse(path, settings.CSV)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
}
