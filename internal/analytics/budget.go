package analytics

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

type BudgetState struct {
	Limit          decimal.Decimal
	Spent          decimal.Decimal
	PercentageUsed decimal.Decimal
}

// Remaining is what is left of the limit, never below zero.
func (b BudgetState) Remaining() decimal.Decimal {
	return decimal.Max(b.Limit.Sub(b.Spent), decimal.Zero)
}

// Exceeded reports whether spending has gone past the limit.
func (b BudgetState) Exceeded() bool {
	return b.Spent.GreaterThan(b.Limit)
}

// BudgetUtilization computes how much of limit has been spent, capped at 100.
// A zero limit reads as fully used once anything is spent.
func BudgetUtilization(limit, spent decimal.Decimal) BudgetState {
	state := BudgetState{Limit: limit, Spent: spent, PercentageUsed: decimal.Zero}

	if !limit.IsPositive() {
		if spent.IsPositive() {
			state.PercentageUsed = hundred
		}

		return state
	}

	state.PercentageUsed = decimal.Min(hundred, spent.Div(limit).Mul(hundred))

	return state
}
