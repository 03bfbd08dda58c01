// =============================================================================
// Register Validator - Evaluation Engine
// =============================================================================
//
// This module runs the rule catalog against a row set and produces one
// Result per category.
//
// EVALUATION STRATEGY:
//   For each rule of a category, in catalog order:
//   1. Run the rule's Check over the complete row set
//   2. No failing rows -> the rule counts towards PassedRules
//   3. Otherwise an Issue is appended, with row indexes in report space
//
// GUARANTEES:
//   - PassedRules + len(Issues) == TotalRules for every Result
//   - Re-running with the same rows yields an identical Result
//   - The engine keeps no state between calls and may be shared across
//     goroutines; each call must be given its own row snapshot
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ginjaninja78/register-validator/internal/logging"
	"github.com/ginjaninja78/register-validator/internal/rules"
	"github.com/ginjaninja78/register-validator/internal/types"
)

// ErrUnknownCategory is returned when a category is not in the catalog.
var ErrUnknownCategory = errors.New("unknown validation category")

// =============================================================================
// ENGINE
// =============================================================================

// Engine evaluates rule categories against row sets.
type Engine struct {
	catalog *rules.Catalog
	logger  *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an Engine over the given catalog.
func NewEngine(catalog *rules.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the engine evaluates.
func (e *Engine) Catalog() *rules.Catalog {
	return e.catalog
}

// =============================================================================
// EVALUATION
// =============================================================================

// Evaluate runs every rule of one category against rows.
//
// PARAMETERS:
//   - category: The category to evaluate. Must be part of the catalog.
//   - rows: The complete, immutable row set of one ingested file.
//
// RETURNS:
//   - The category Result.
//   - ErrUnknownCategory if the category is not in the catalog.
func (e *Engine) Evaluate(category types.Category, rows []types.Row) (types.Result, error) {
	ruleSet, ok := e.catalog.Rules(category)
	if !ok {
		return types.Result{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	result := types.Result{
		Category:   category,
		Issues:     make([]types.Issue, 0),
		TotalRules: len(ruleSet),
	}

	for _, rule := range ruleSet {
		failed := rule.Check(rows)
		if len(failed) == 0 {
			result.PassedRules++
			continue
		}

		result.Issues = append(result.Issues, newIssue(rule, failed))
	}

	e.logger.Debug("evaluated category",
		"category", category,
		"rows", len(rows),
		"passed", result.PassedRules,
		"total", result.TotalRules,
	)

	return result, nil
}

// EvaluateAll evaluates every catalog category against rows.
func (e *Engine) EvaluateAll(rows []types.Row) map[types.Category]types.Result {
	results, _ := e.EvaluateCategories(e.catalog.Categories(), rows)
	return results
}

// EvaluateCategories evaluates a subset of categories. It stops at the
// first unknown category.
func (e *Engine) EvaluateCategories(categories []types.Category, rows []types.Row) (map[types.Category]types.Result, error) {
	results := make(map[types.Category]types.Result, len(categories))
	for _, category := range categories {
		result, err := e.Evaluate(category, rows)
		if err != nil {
			return results, err
		}
		results[category] = result
	}
	return results, nil
}

// newIssue builds the finding for a rule with at least one failing row.
func newIssue(rule rules.Rule, failed []int) types.Issue {
	indexes := make([]int, len(failed))
	for i, idx := range failed {
		indexes[i] = types.ReportIndex(idx)
	}

	return types.Issue{
		RuleID:     rule.ID,
		RuleName:   rule.Name,
		Severity:   rule.Severity,
		Message:    rule.Message(len(failed)),
		RowIndexes: indexes,
	}
}
