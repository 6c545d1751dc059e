package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type Period string

const (
	PeriodThisMonth Period = "this_month"
	PeriodLastMonth Period = "last_month"
	PeriodAll       Period = "all"
)

// Periods lists the dashboard periods in display order.
var Periods = []Period{PeriodThisMonth, PeriodLastMonth, PeriodAll}

// ParsePeriod accepts a period name; empty means this month.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "":
		return PeriodThisMonth, nil
	case PeriodThisMonth, PeriodLastMonth, PeriodAll:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

func (p Period) Label() string {
	switch p {
	case PeriodLastMonth:
		return "Last Month"
	case PeriodAll:
		return "All Time"
	default:
		return "This Month"
	}
}

// FilterPeriod keeps the transactions dated inside p relative to now.
func FilterPeriod(txs []*transaction.Transaction, p Period, now time.Time) []*transaction.Transaction {
	if p == PeriodAll {
		out := make([]*transaction.Transaction, len(txs))
		copy(out, txs)

		return out
	}

	start := monthStart(now)
	if p == PeriodLastMonth {
		start = start.AddDate(0, -1, 0)
	}

	end := start.AddDate(0, 1, 0)

	var out []*transaction.Transaction

	for _, tx := range txs {
		d := transaction.DateOf(tx.Date)
		if !d.Before(start) && d.Before(end) {
			out = append(out, tx)
		}
	}

	return out
}

// monthStart is the first day of t's month at UTC midnight, matching transaction dates.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
