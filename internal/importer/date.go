package importer

import (
	"strings"
	"time"
)

// invalidDate is what a browser renders for an unset date.
const invalidDate = "Invalid Date"

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// parseDate reads a date in any known layout. An empty or explicitly invalid
// value returns the zero time with ok true so it is replaced by today without
// being reported; an unknown layout returns ok false.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, invalidDate) {
		return time.Time{}, true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
