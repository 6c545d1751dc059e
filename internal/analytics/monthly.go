package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/settings"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// MonthlyStat totals one calendar month. Month is YYYY-MM.
type MonthlyStat struct {
	Month   string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

func (m MonthlyStat) Savings() decimal.Decimal {
	return m.Income.Sub(m.Expense)
}

// MonthlyStats returns one entry per month that has at least one
// transaction, oldest first. Months without activity are absent.
func MonthlyStats(txs []*transaction.Transaction) []MonthlyStat {
	byMonth := make(map[string]*MonthlyStat)

	for _, tx := range txs {
		key := settings.MonthKey(tx.Date)

		stat, ok := byMonth[key]
		if !ok {
			stat = &MonthlyStat{Month: key, Income: decimal.Zero, Expense: decimal.Zero}
			byMonth[key] = stat
		}

		switch tx.Type {
		case transaction.TypeIncome:
			stat.Income = stat.Income.Add(tx.Amount)
		case transaction.TypeExpense:
			stat.Expense = stat.Expense.Add(tx.Amount)
		}
	}

	out := make([]MonthlyStat, 0, len(byMonth))
	for _, stat := range byMonth {
		out = append(out, *stat)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })

	return out
}
