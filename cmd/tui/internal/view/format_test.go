package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	type testCase struct {
		in   string
		want string
	}

	tests := []testCase{
		{in: "0", want: "0.00"},
		{in: "5", want: "5.00"},
		{in: "999.9", want: "999.90"},
		{in: "1000", want: "1,000.00"},
		{in: "125000.5", want: "125,000.50"},
		{in: "-20000", want: "-20,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestBudgetBar(t *testing.T) {
	assert.Equal(t, "[          ]", budgetBar(decimal.Zero, 10))
	assert.Equal(t, "[#####     ]", budgetBar(decimal.NewFromInt(50), 10))
	assert.Equal(t, "[##########]", budgetBar(decimal.NewFromInt(100), 10))
}
