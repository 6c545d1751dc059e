// Package analytics derives summaries, category breakdowns, budget usage and
// month rollover offers from a set of transactions.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// DefaultTopCategories is the number of buckets TopCategories returns for n <= 0.
const DefaultTopCategories = 5

// Summary holds exact totals; round only when rendering.
type Summary struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Balance       decimal.Decimal
}

// CategoryBucket is the total spent in one category.
type CategoryBucket struct {
	Category string
	Amount   decimal.Decimal
}

func Summarize(txs []*transaction.Transaction) Summary {
	income := decimal.Zero
	expenses := decimal.Zero

	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeIncome:
			income = income.Add(tx.Amount)
		case transaction.TypeExpense:
			expenses = expenses.Add(tx.Amount)
		}
	}

	return Summary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income.Sub(expenses),
	}
}

// TopCategories groups expenses by category and returns the n largest,
// biggest first. Equal totals keep the order categories were first seen in.
func TopCategories(txs []*transaction.Transaction, n int) []CategoryBucket {
	if n <= 0 {
		n = DefaultTopCategories
	}

	index := make(map[string]int)

	var buckets []CategoryBucket

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense {
			continue
		}

		i, ok := index[tx.Category]
		if !ok {
			i = len(buckets)
			index[tx.Category] = i
			buckets = append(buckets, CategoryBucket{Category: tx.Category, Amount: decimal.Zero})
		}

		buckets[i].Amount = buckets[i].Amount.Add(tx.Amount)
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Amount.GreaterThan(buckets[j].Amount)
	})

	if len(buckets) > n {
		buckets = buckets[:n]
	}

	return buckets
}
