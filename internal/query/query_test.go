package query_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pennywise/internal/query"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

func tx(title, category string, typ transaction.Type, amount string, date string) *transaction.Transaction {
	d, _ := time.Parse(time.DateOnly, date)

	return &transaction.Transaction{
		Title:    title,
		Category: category,
		Type:     typ,
		Amount:   decimal.RequireFromString(amount),
		Date:     d,
	}
}

func fixture() []*transaction.Transaction {
	return []*transaction.Transaction{
		tx("Salary", "Salary", transaction.TypeIncome, "50000", "2025-11-01"),
		tx("Swiggy", "Food", transaction.TypeExpense, "249", "2025-11-03"),
		tx("Amazon", "Shopping", transaction.TypeExpense, "1299.50", "2025-11-03"),
		tx("Zomato", "Food", transaction.TypeExpense, "249", "2025-10-28"),
		tx("Uber", "Transport", transaction.TypeExpense, "180", "2025-11-10"),
	}
}

func titles(txs []*transaction.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.Title
	}

	return out
}

func TestApply(t *testing.T) {
	type testCase struct {
		name string
		q    query.Query
		want []string
	}

	tests := []testCase{
		{
			name: "NoQueryKeepsInputOrder",
			q:    query.Query{},
			want: []string{"Salary", "Swiggy", "Amazon", "Zomato", "Uber"},
		},
		{
			name: "SearchIsCaseInsensitiveOverTitle",
			q:    query.Query{Search: "SWIG"},
			want: []string{"Swiggy"},
		},
		{
			name: "SearchMatchesCategory",
			q:    query.Query{Search: "food"},
			want: []string{"Swiggy", "Zomato"},
		},
		{
			name: "SearchMatchesAmount",
			q:    query.Query{Search: "1299.5"},
			want: []string{"Amazon"},
		},
		{
			name: "AllSentinelPassesThrough",
			q:    query.Query{Filters: query.Filters{Type: query.All, Category: query.All}},
			want: []string{"Salary", "Swiggy", "Amazon", "Zomato", "Uber"},
		},
		{
			name: "TypeAndCategoryAreCombined",
			q:    query.Query{Filters: query.Filters{Type: "expense", Category: "Food"}},
			want: []string{"Swiggy", "Zomato"},
		},
		{
			name: "InclusiveDateRange",
			q:    query.Query{Filters: query.Filters{StartDate: "2025-11-01", EndDate: "2025-11-03"}},
			want: []string{"Salary", "Swiggy", "Amazon"},
		},
		{
			name: "OpenEndedDateRange",
			q:    query.Query{Filters: query.Filters{StartDate: "2025-11-04"}},
			want: []string{"Uber"},
		},
		{
			name: "SortAmountAscIsNumericAndStable",
			q:    query.Query{Sort: query.Sort{Key: query.SortAmount, Direction: query.Asc}},
			want: []string{"Uber", "Swiggy", "Zomato", "Amazon", "Salary"},
		},
		{
			name: "SortAmountDescKeepsTiesInInputOrder",
			q:    query.Query{Sort: query.Sort{Key: query.SortAmount, Direction: query.Desc}},
			want: []string{"Salary", "Amazon", "Swiggy", "Zomato", "Uber"},
		},
		{
			name: "DefaultSortNewestFirst",
			q:    query.Query{Sort: query.DefaultSort},
			want: []string{"Uber", "Swiggy", "Amazon", "Salary", "Zomato"},
		},
		{
			name: "FilterThenSortByTitle",
			q: query.Query{
				Filters: query.Filters{Type: "expense"},
				Sort:    query.Sort{Key: query.SortTitle, Direction: query.Asc},
			},
			want: []string{"Amazon", "Swiggy", "Uber", "Zomato"},
		},
		{
			name: "NoMatches",
			q:    query.Query{Search: "netflix"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.Apply(fixture(), tt.q)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestApply_IdempotentAndPure(t *testing.T) {
	input := fixture()
	before := titles(input)

	q := query.Query{
		Search:  "o",
		Filters: query.Filters{Type: "expense"},
		Sort:    query.Sort{Key: query.SortDate, Direction: query.Desc},
	}

	first := query.Apply(input, q)
	second := query.Apply(input, q)

	assert.Equal(t, titles(first), titles(second))
	assert.Equal(t, before, titles(input))

	again := query.Apply(first, q)
	assert.Equal(t, titles(first), titles(again))
}

func TestParseSort(t *testing.T) {
	s, err := query.ParseSort("Amount", "DESC")
	require.NoError(t, err)
	assert.Equal(t, query.Sort{Key: query.SortAmount, Direction: query.Desc}, s)

	s, err = query.ParseSort("date", "")
	require.NoError(t, err)
	assert.Equal(t, query.Asc, s.Direction)

	_, err = query.ParseSort("id", "asc")
	assert.Error(t, err)

	_, err = query.ParseSort("date", "sideways")
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"Salary", "Food", "Shopping", "Transport"}, query.Categories(fixture()))
	assert.Empty(t, query.Categories(nil))
}

func TestFromValues(t *testing.T) {
	v := url.Values{}
	v.Set("search", " swig ")
	v.Set("type", "Expense")
	v.Set("category", "all")
	v.Set("start_date", "2025-11-01")
	v.Set("sort", "amount")
	v.Set("order", "desc")

	got, err := query.FromValues(v)
	require.NoError(t, err)
	assert.Equal(t, query.Query{
		Search:  "swig",
		Filters: query.Filters{Type: "expense", Category: "all", StartDate: "2025-11-01"},
		Sort:    query.Sort{Key: query.SortAmount, Direction: query.Desc},
	}, got)

	got, err = query.FromValues(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, query.DefaultSort, got.Sort)

	_, err = query.FromValues(url.Values{"end_date": {"11/05/2025"}})
	assert.Error(t, err)

	_, err = query.FromValues(url.Values{"sort": {"colour"}})
	assert.Error(t, err)
}
