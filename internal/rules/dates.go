package rules

import (
	"strings"
	"time"
)

// dateLayouts are the only accepted date spellings. Anything else is
// treated as unparseable rather than guessed at.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

// ParseDate parses a calendar date strictly. The second return value is
// false for empty or malformed input.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
