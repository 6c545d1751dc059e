package query

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// FromValues reads a Query from URL parameters: search, type, category,
// start_date, end_date, sort and order. Without sort the default order applies.
func FromValues(v url.Values) (Query, error) {
	q := Query{
		Search: strings.TrimSpace(v.Get("search")),
		Filters: Filters{
			Type:      strings.ToLower(strings.TrimSpace(v.Get("type"))),
			Category:  strings.TrimSpace(v.Get("category")),
			StartDate: strings.TrimSpace(v.Get("start_date")),
			EndDate:   strings.TrimSpace(v.Get("end_date")),
		},
		Sort: DefaultSort,
	}

	for _, d := range []string{q.Filters.StartDate, q.Filters.EndDate} {
		if d == "" {
			continue
		}

		if _, err := time.Parse(time.DateOnly, d); err != nil {
			return Query{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", d)
		}
	}

	if key := v.Get("sort"); key != "" {
		s, err := ParseSort(key, v.Get("order"))
		if err != nil {
			return Query{}, err
		}

		q.Sort = s
	}

	return q, nil
}
