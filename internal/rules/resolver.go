package rules

import (
	"strings"

	"github.com/ginjaninja78/register-validator/internal/types"
)

// Resolve returns the value of the first candidate field name present in
// the row. Names are compared case-insensitively but otherwise exactly; no
// partial or fuzzy matching is done. When several row keys match the same
// candidate, the first one in row order wins.
//
// An unmatched candidate list and a matched-but-empty value both resolve to
// the empty string.
func Resolve(row types.Row, candidates []string) string {
	for _, candidate := range candidates {
		for _, f := range row {
			if strings.EqualFold(f.Name, candidate) {
				return f.Value
			}
		}
	}
	return ""
}
