// =============================================================================
// Register Validator - Rule Catalog
// =============================================================================
//
// The catalog is the fixed category -> ordered rules mapping. It is built
// once at startup and never changes afterwards, so a single *Catalog can be
// shared by any number of concurrent evaluations.
//
// CATEGORIES AND RULES:
//   Technical checks              : TECH-1, TECH-2, TECH-3
//   DPM Technical checks          : DPM-T-1, DPM-T-2, DPM-T-3
//   DPM Business validation rules : DPM-B-1, DPM-B-2, DPM-B-3
//   LEI-EUID checks               : LEI-1, LEI-2, LEI-3
//
// Rule order within a category is the order findings are reported in.
//
// HEADER ALIASES:
//   Submitters do not always use the canonical column headers. Extra
//   synonyms can be supplied per logical field (see config.FieldAliases);
//   they are tried after the canonical name.
//
// =============================================================================

package rules

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/ginjaninja78/register-validator/internal/types"
)

// =============================================================================
// LOGICAL FIELDS
// =============================================================================

// Canonical column headers used by the catalog.
const (
	FieldRecordID        = "Record ID"
	FieldEntityName      = "Entity Name"
	FieldReferenceDate   = "Reference Date"
	FieldTemplateCode    = "Template Code"
	FieldDPMVersion      = "DPM Version"
	FieldDataPointCode   = "Data Point Code"
	FieldServiceType     = "Service Type"
	FieldCriticality     = "Criticality"
	FieldStartDate       = "Start Date"
	FieldTerminationDate = "Termination Date"
	FieldLEI             = "LEI"
	FieldEUID            = "EUID"
)

var (
	referenceDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dpmVersionPattern    = regexp.MustCompile(`^\d{4}\.\d+$`)
	leiPattern           = regexp.MustCompile(`^[A-Z0-9]{20}$`)
	euidPattern          = regexp.MustCompile(`^[A-Z]{2}-[A-Z0-9]{2,32}$`)

	criticalityLevels = []string{"low", "medium", "high"}
)

// Aliases maps a canonical field name to additional accepted headers.
type Aliases map[string][]string

// candidates returns the lookup list for a logical field: the canonical
// name first, then any configured synonyms. Keys matching the field are
// visited in sorted order so the list does not depend on map iteration.
func (a Aliases) candidates(field string) []string {
	keys := make([]string, 0, 1)
	for key := range a {
		if strings.EqualFold(key, field) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	out := []string{field}
	for _, key := range keys {
		for _, s := range a[key] {
			s = strings.TrimSpace(s)
			if s != "" && !slices.ContainsFunc(out, func(o string) bool { return strings.EqualFold(o, s) }) {
				out = append(out, s)
			}
		}
	}
	return out
}

// =============================================================================
// CATALOG
// =============================================================================

// Catalog is an immutable category -> rules mapping.
type Catalog struct {
	categories []types.Category
	rules      map[types.Category][]Rule
}

// DefaultCatalog returns the catalog with canonical headers only.
func DefaultCatalog() *Catalog {
	return NewCatalog(nil)
}

// NewCatalog builds the catalog, resolving each logical field through the
// given aliases. The aliases are copied; later changes to the map do not
// affect the catalog.
func NewCatalog(aliases Aliases) *Catalog {
	f := func(field string) []string { return aliases.candidates(field) }

	c := &Catalog{
		categories: types.AllCategories(),
		rules:      make(map[types.Category][]Rule, 4),
	}

	c.rules[types.CategoryTechnical] = []Rule{
		RequiredField("TECH-1", "Unique identifier is mandatory", f(FieldRecordID), types.SeverityError),
		RequiredField("TECH-2", "Entity name is mandatory", f(FieldEntityName), types.SeverityError),
		Pattern("TECH-3", "Reference date format", f(FieldReferenceDate), referenceDatePattern,
			"Reference Date must be formatted as YYYY-MM-DD"),
	}

	c.rules[types.CategoryDPMTechnical] = []Rule{
		RequiredField("DPM-T-1", "Template code is mandatory", f(FieldTemplateCode), types.SeverityError),
		Pattern("DPM-T-2", "Data point model version check", f(FieldDPMVersion), dpmVersionPattern,
			"DPM Version must follow YYYY.N format"),
		RequiredField("DPM-T-3", "Data point code is mandatory", f(FieldDataPointCode), types.SeverityError),
	}

	c.rules[types.CategoryDPMBusiness] = []Rule{
		RequiredField("DPM-B-1", "Service type is mandatory", f(FieldServiceType), types.SeverityError),
		criticalityRule(f(FieldCriticality)),
		terminationRule(f(FieldStartDate), f(FieldTerminationDate)),
	}

	c.rules[types.CategoryLEIEUID] = []Rule{
		Pattern("LEI-1", "LEI structure check", f(FieldLEI), leiPattern,
			"LEI must be a 20-character alphanumeric code"),
		Pattern("LEI-2", "EUID structure check", f(FieldEUID), euidPattern,
			"EUID must follow CC-IDENTIFIER format"),
		identifierRule(f(FieldLEI), f(FieldEUID)),
	}

	return c
}

// Categories returns the catalog's categories in display order.
func (c *Catalog) Categories() []types.Category {
	return slices.Clone(c.categories)
}

// Rules returns a copy of the ordered rule list for a category.
func (c *Catalog) Rules(category types.Category) ([]Rule, bool) {
	rs, ok := c.rules[category]
	if !ok {
		return nil, false
	}
	return slices.Clone(rs), true
}

// Rule looks a rule up by ID (case-insensitive) and reports its category.
func (c *Catalog) Rule(id string) (Rule, types.Category, bool) {
	id = strings.TrimSpace(id)
	for _, category := range c.categories {
		for _, r := range c.rules[category] {
			if strings.EqualFold(r.ID, id) {
				return r, category, true
			}
		}
	}
	return Rule{}, "", false
}

// Len is the total number of rules across all categories.
func (c *Catalog) Len() int {
	n := 0
	for _, rs := range c.rules {
		n += len(rs)
	}
	return n
}

// =============================================================================
// CUSTOM RULES
// =============================================================================

func criticalityRule(fields []string) Rule {
	return Custom(
		"DPM-B-2",
		"Criticality rating must be Low/Medium/High",
		types.SeverityError,
		func(row types.Row) bool {
			value := Resolve(row, fields)
			if value == "" {
				return false
			}
			return !slices.Contains(criticalityLevels, strings.ToLower(value))
		},
		func(count int) string {
			return formatCount(count, "have an invalid Criticality value (expected Low/Medium/High).")
		},
	)
}

// terminationRule flags rows whose termination date precedes the start
// date. Rows missing either date, or with a date that does not parse, are
// not flagged: those are presence and format problems, not ordering ones.
func terminationRule(startFields, endFields []string) Rule {
	return Custom(
		"DPM-B-3",
		"Termination date cannot be before start date",
		types.SeverityWarning,
		func(row types.Row) bool {
			start, ok := ParseDate(Resolve(row, startFields))
			if !ok {
				return false
			}
			end, ok := ParseDate(Resolve(row, endFields))
			if !ok {
				return false
			}
			return end.Before(start)
		},
		func(count int) string {
			return formatCount(count, "have Termination Date earlier than Start Date.")
		},
	)
}

func identifierRule(leiFields, euidFields []string) Rule {
	return Custom(
		"LEI-3",
		"At least one of LEI or EUID must be present",
		types.SeverityError,
		func(row types.Row) bool {
			return Resolve(row, leiFields) == "" && Resolve(row, euidFields) == ""
		},
		func(count int) string {
			return formatCount(count, "are missing both LEI and EUID values.")
		},
	)
}

func formatCount(count int, tail string) string {
	return fmt.Sprintf("%d row(s) %s", count, tail)
}
