package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/settings"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

const (
	RolloverTitle    = "Previous Month Rollover"
	RolloverCategory = "Other"
)

// RolloverDecision is the outcome of checking for a month rollover.
type RolloverDecision struct {
	// Offer is set when the previous month ended with a positive balance
	// that has not been settled yet.
	Offer bool
	// Month is the YYYY-MM month whose balance is offered.
	Month  string
	Amount decimal.Decimal
	// Marker, when non-empty, is the value LastAcknowledgedMonth should be
	// advanced to right away without asking.
	Marker string
}

// CheckRollover decides whether to offer carrying last month's balance into
// the current month. Only the calendar month immediately before now is
// examined, even when the marker is several months old.
func CheckRollover(txs []*transaction.Transaction, marker string, now time.Time) RolloverDecision {
	if len(txs) == 0 {
		return RolloverDecision{}
	}

	current := settings.MonthKey(now)

	switch marker {
	case "":
		return RolloverDecision{Marker: current}
	case current:
		return RolloverDecision{}
	}

	previous := monthStart(now).AddDate(0, -1, 0)
	balance := Summarize(FilterPeriod(txs, PeriodLastMonth, now)).Balance

	if !balance.IsPositive() {
		return RolloverDecision{Marker: current}
	}

	return RolloverDecision{
		Offer:  true,
		Month:  settings.MonthKey(previous),
		Amount: balance,
	}
}
