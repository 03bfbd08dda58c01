// =============================================================================
// Register Validator - Main Entry Point
// =============================================================================
//
// USAGE:
//   validator check [files...] - Validate register files
//   validator rules            - List the rule catalog
//   validator version          - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Ingestion, rules, engine, reports, pipeline
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/register-validator/cmd"
)

func main() {
	cmd.Execute()
}
