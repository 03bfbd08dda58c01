// =============================================================================
// Register Validator - Rules Command
// =============================================================================
//
// COMMAND USAGE:
//   validator rules [RULE_ID...] [--category NAME]
//
// Lists the rule catalog, with any configured header aliases applied, in
// category order. Rule IDs restrict the listing to those rules, in the
// order given.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/register-validator/internal/rules"
	"github.com/ginjaninja78/register-validator/internal/types"
)

var rulesCategory string

var rulesCmd = &cobra.Command{
	Use:   "rules [RULE_ID...]",
	Short: "List the validation rules",
	Long: `List every rule in the catalog with its category and severity.

With rule IDs, only those rules are listed, in the order given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRuntime(cmd)
		if err != nil {
			return err
		}

		categories := types.AllCategories()
		if rulesCategory != "" {
			category, err := types.ParseCategory(rulesCategory)
			if err != nil {
				return err
			}
			categories = []types.Category{category}
		}

		catalog := rules.NewCatalog(rules.Aliases(cfg.FieldAliases))
		out := cmd.OutOrStdout()

		if len(args) > 0 {
			t := newTable("Category", "Rule ID", "Name", "Severity")
			for _, id := range args {
				rule, category, ok := catalog.Rule(strings.ToUpper(strings.TrimSpace(id)))
				if !ok {
					return fmt.Errorf("unknown rule %q", id)
				}
				t.Row(string(category), rule.ID, rule.Name, strings.ToUpper(string(rule.Severity)))
			}
			fmt.Fprintln(out, t.Render())
			return nil
		}

		t := newTable("Category", "Rule ID", "Name", "Severity")
		count := 0
		for _, category := range categories {
			list, _ := catalog.Rules(category)
			for _, rule := range list {
				t.Row(string(category), rule.ID, rule.Name, strings.ToUpper(string(rule.Severity)))
				count++
			}
		}

		fmt.Fprintln(out, t.Render())
		fmt.Fprintf(out, "%d rule(s)\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVar(
		&rulesCategory,
		"category",
		"",
		"Only list rules of this category",
	)
}
