// Package goal projects when a savings target will be reached from the
// historical average monthly savings.
package goal

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/analytics"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

var (
	// ErrUnavailable means the history shows no positive savings to project from.
	ErrUnavailable      = errors.New("projection unavailable: average monthly savings is not positive")
	ErrInvalidTarget    = errors.New("target amount must be greater than zero")
	// ErrTargetOutOfRange means the target is too far away to express as a month count.
	ErrTargetOutOfRange = errors.New("target is out of reach at the current savings rate")
)

var maxMonths = decimal.NewFromInt(math.MaxInt32)

type Projection struct {
	AverageSavings decimal.Decimal
	MonthsNeeded   int
	// TargetMonth is the first day of the month the target is reached in.
	TargetMonth time.Time
}

// AverageMonthlySavings averages income minus expense over the months that
// have at least one transaction. ok is false when there is no history.
func AverageMonthlySavings(txs []*transaction.Transaction) (avg decimal.Decimal, ok bool) {
	total, months := totalSavings(txs)
	if months == 0 {
		return decimal.Zero, false
	}

	return total.Div(decimal.NewFromInt(int64(months))), true
}

// Project computes how many months of average savings cover target and the
// calendar month that lands on, counting from now's month.
func Project(txs []*transaction.Transaction, target decimal.Decimal, now time.Time) (*Projection, error) {
	if !target.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTarget, target)
	}

	total, months := totalSavings(txs)
	if months == 0 || !total.IsPositive() {
		return nil, ErrUnavailable
	}

	// ceil(target / (total / months)) computed as ceil(target * months / total)
	// so the division is exact.
	q, r := target.Mul(decimal.NewFromInt(int64(months))).QuoRem(total, 0)

	if r.IsPositive() {
		q = q.Add(decimal.NewFromInt(1))
	}

	if q.GreaterThan(maxMonths) {
		return nil, fmt.Errorf("%w: %s months", ErrTargetOutOfRange, q)
	}

	needed := q.IntPart()

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	return &Projection{
		AverageSavings: total.Div(decimal.NewFromInt(int64(months))),
		MonthsNeeded:   int(needed),
		TargetMonth:    start.AddDate(0, int(needed), 0),
	}, nil
}

// Label renders the target month as e.g. "March 2026".
func (p *Projection) Label() string {
	return p.TargetMonth.Format("January 2006")
}

func totalSavings(txs []*transaction.Transaction) (decimal.Decimal, int) {
	stats := analytics.MonthlyStats(txs)

	total := decimal.Zero
	for _, m := range stats {
		total = total.Add(m.Savings())
	}

	return total, len(stats)
}
