package extractor_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pennywise/internal/extractor"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

var today = time.Date(2025, 12, 1, 15, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return today }

func TestExtractor_Extract(t *testing.T) {
	type testCase struct {
		name         string
		text         string
		wantTitle    string
		wantAmount   string
		wantType     transaction.Type
		wantCategory string
		wantDate     string
	}

	tests := []testCase{
		{
			name:         "DebitWithMerchantAndDate",
			text:         "Rs. 500 debited for Coffee at Starbucks on 05-11-2025",
			wantTitle:    "Starbucks",
			wantAmount:   "500",
			wantType:     transaction.TypeExpense,
			wantCategory: "Other",
			wantDate:     "2025-11-05",
		},
		{
			name:         "CreditWithThousandsSeparator",
			text:         "INR 1,25,000.50 credited to your a/c from ACME Corp NEFT on 01/11/25",
			wantTitle:    "ACME Corp",
			wantAmount:   "125000.5",
			wantType:     transaction.TypeIncome,
			wantCategory: "Salary",
			wantDate:     "2025-11-01",
		},
		{
			name:         "UPIPaymentStripsNoise",
			text:         "You paid ₹249 to Swiggy UPI Ref 4431 using UPI",
			wantTitle:    "Swiggy",
			wantAmount:   "249",
			wantType:     transaction.TypeExpense,
			wantCategory: "Food",
			wantDate:     "2025-12-01",
		},
		{
			name:         "UberEatsIsFood",
			text:         "Rs 320 spent at Uber Eats on 3/11/2025",
			wantTitle:    "Uber Eats",
			wantAmount:   "320",
			wantType:     transaction.TypeExpense,
			wantCategory: "Food",
			wantDate:     "2025-11-03",
		},
		{
			name:         "NoCounterpartyExpense",
			text:         "Rs.99 debited. Avl bal Rs 1000",
			wantTitle:    "Unknown Debit",
			wantAmount:   "99",
			wantType:     transaction.TypeExpense,
			wantCategory: "Other",
			wantDate:     "2025-12-01",
		},
		{
			name:         "NoCounterpartyIncome",
			text:         "$42.10 refunded",
			wantTitle:    "Unknown Credit",
			wantAmount:   "42.1",
			wantType:     transaction.TypeIncome,
			wantCategory: "Salary",
			wantDate:     "2025-12-01",
		},
		{
			name:         "InvalidCalendarDateFallsBackToToday",
			text:         "Rs 150 paid to Airtel recharge on 31-13-2025",
			wantTitle:    "Airtel recharge",
			wantAmount:   "150",
			wantType:     transaction.TypeExpense,
			wantCategory: "Bills",
			wantDate:     "2025-12-01",
		},
	}

	ext := extractor.NewWithClock(fixedClock)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ext.Extract(tt.text)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTitle, got.Title)
			assert.Equal(t, tt.wantAmount, got.Amount.String())
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantDate, got.Date.Format(time.DateOnly))
		})
	}
}

func TestExtractor_Extract_Unparsable(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "Empty", text: ""},
		{name: "Whitespace", text: "   \n\t "},
		{name: "NoCurrency", text: "Your OTP is 500123, do not share"},
		{name: "ZeroAmount", text: "Rs. 0.00 debited at Shop"},
		{name: "MarkerWithoutNumber", text: "INR debited"},
	}

	ext := extractor.New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ext.Extract(tt.text)
			assert.ErrorIs(t, err, extractor.ErrUnparsable)
			assert.True(t, got.Amount.IsZero())
		})
	}
}

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		text string
		want decimal.Decimal
	}{
		{"Rs. 500", decimal.NewFromInt(500)},
		{"rs500", decimal.NewFromInt(500)},
		{"INR 12,345.67", decimal.RequireFromString("12345.67")},
		{"₹ 1,00,000", decimal.NewFromInt(100000)},
		{"EUR 9.5", decimal.RequireFromString("9.5")},
		{"paid £3", decimal.NewFromInt(3)},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := extractor.ExtractAmount(tt.text)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestClassifyType(t *testing.T) {
	assert.Equal(t, transaction.TypeIncome, extractor.ClassifyType("Amount RECEIVED from Bob"))
	assert.Equal(t, transaction.TypeIncome, extractor.ClassifyType("cash deposited"))
	assert.Equal(t, transaction.TypeExpense, extractor.ClassifyType("debited at shop"))
	assert.Equal(t, transaction.TypeExpense, extractor.ClassifyType(""))
}

func TestExtractCounterparty_Priority(t *testing.T) {
	// "at" outranks "for" even though "for" comes first in the text.
	got := extractor.ExtractCounterparty("debited for Lunch at Cafe Mocha via card", transaction.TypeExpense)
	assert.Equal(t, "Cafe Mocha", got)

	got = extractor.ExtractCounterparty("sent VPA merchant99 ref 1", transaction.TypeExpense)
	assert.Equal(t, "merchant99", got)
}

func TestExtractCounterparty_SkipsNumericCaptures(t *testing.T) {
	type testCase struct {
		name string
		text string
		typ  transaction.Type
		want string
	}

	tests := []testCase{
		{name: "TimeAfterAt", text: "Rs 200 paid to Ramesh at 10:30", typ: transaction.TypeExpense, want: "Ramesh"},
		{name: "OnlyNumbers", text: "Rs 200 paid at 10:30", typ: transaction.TypeExpense, want: "Unknown Debit"},
		{name: "SenderBeforeTime", text: "INR 5000 received from Priya at 9 45", typ: transaction.TypeIncome, want: "Priya"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractor.ExtractCounterparty(tt.text, tt.typ))
		})
	}
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"on 05-11-2025", "2025-11-05"},
		{"on 5/1/24", "2024-01-05"},
		{"on 29-02-2024", "2024-02-29"},
		{"on 29-02-2023", "2025-12-01"},
		{"no date here", "2025-12-01"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := extractor.ExtractDate(tt.text, today)
			assert.Equal(t, tt.want, got.Format(time.DateOnly))
		})
	}
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		text string
		typ  transaction.Type
		want string
	}{
		{"order from ZOMATO", transaction.TypeExpense, "Food"},
		{"Amazon Pay", transaction.TypeExpense, "Shopping"},
		{"IRCTC ticket", transaction.TypeExpense, "Transport"},
		{"HPCL fuel station", transaction.TypeExpense, "Transport"},
		{"Jio prepaid", transaction.TypeExpense, "Bills"},
		{"Coca cola", transaction.TypeExpense, "Other"},
		{"salary for November", transaction.TypeIncome, "Salary"},
		{"refund from Flipkart", transaction.TypeIncome, "Shopping"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, extractor.InferCategory(tt.text, tt.typ))
		})
	}
}
