package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/pennywise/internal/analytics"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

func TestCheckRollover(t *testing.T) {
	now := time.Date(2025, 12, 3, 10, 0, 0, 0, time.UTC)

	positiveNovember := []*transaction.Transaction{
		income("5000", "2025-11-01"),
		expense("Food", "1200", "2025-11-10"),
		expense("Food", "999", "2025-12-01"),
	}

	negativeNovember := []*transaction.Transaction{
		income("100", "2025-11-01"),
		expense("Rent", "1200", "2025-11-10"),
	}

	type testCase struct {
		name   string
		txs    []*transaction.Transaction
		marker string
		want   analytics.RolloverDecision
	}

	tests := []testCase{
		{
			name:   "NoTransactionsChangesNothing",
			txs:    nil,
			marker: "",
			want:   analytics.RolloverDecision{},
		},
		{
			name:   "FirstUseSetsMarker",
			txs:    positiveNovember,
			marker: "",
			want:   analytics.RolloverDecision{Marker: "2025-12"},
		},
		{
			name:   "AlreadySettled",
			txs:    positiveNovember,
			marker: "2025-12",
			want:   analytics.RolloverDecision{},
		},
		{
			name:   "NonPositiveBalanceAdvancesSilently",
			txs:    negativeNovember,
			marker: "2025-11",
			want:   analytics.RolloverDecision{Marker: "2025-12"},
		},
		{
			name:   "StaleMarkerOnlyLooksAtPreviousMonth",
			txs:    []*transaction.Transaction{income("900", "2025-09-05")},
			marker: "2025-08",
			want:   analytics.RolloverDecision{Marker: "2025-12"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analytics.CheckRollover(tt.txs, tt.marker, now)
			assert.Equal(t, tt.want.Offer, got.Offer)
			assert.Equal(t, tt.want.Marker, got.Marker)
			assert.Equal(t, tt.want.Month, got.Month)
		})
	}

	t.Run("PositiveBalanceOffers", func(t *testing.T) {
		got := analytics.CheckRollover(positiveNovember, "2025-11", now)
		assert.True(t, got.Offer)
		assert.Equal(t, "2025-11", got.Month)
		assert.Equal(t, "3800", got.Amount.String())
		assert.Empty(t, got.Marker)
	})

	t.Run("JanuaryLooksAtDecemberOfPreviousYear", func(t *testing.T) {
		jan := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
		got := analytics.CheckRollover([]*transaction.Transaction{income("10", "2025-12-31")}, "2025-12", jan)
		assert.True(t, got.Offer)
		assert.Equal(t, "2025-12", got.Month)
	})
}
