package analytics

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/analytics"
	"github.com/MrJamesThe3rd/pennywise/internal/goal"
)

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

type categoryResponse struct {
	Category string      `json:"category"`
	Amount   json.Number `json:"amount"`
}

type limitResponse struct {
	Limit json.Number `json:"limit"`
}

type budgetResponse struct {
	Limit          json.Number `json:"limit"`
	Spent          json.Number `json:"spent"`
	Remaining      json.Number `json:"remaining"`
	PercentageUsed json.Number `json:"percentage_used"`
	Exceeded       bool        `json:"exceeded"`
}

type dashboardResponse struct {
	Period        analytics.Period   `json:"period"`
	Label         string             `json:"label"`
	TotalIncome   json.Number        `json:"total_income"`
	TotalExpenses json.Number        `json:"total_expenses"`
	Balance       json.Number        `json:"balance"`
	TopCategories []categoryResponse `json:"top_categories"`
	Budget        budgetResponse     `json:"budget"`
}

type monthlyResponse struct {
	Month   string      `json:"month"`
	Income  json.Number `json:"income"`
	Expense json.Number `json:"expense"`
	Savings json.Number `json:"savings"`
}

type rolloverResponse struct {
	Pending bool        `json:"pending"`
	Month   string      `json:"month,omitempty"`
	Amount  json.Number `json:"amount,omitempty"`
}

type goalResponse struct {
	Target         json.Number `json:"target"`
	AverageSavings json.Number `json:"average_savings"`
	MonthsNeeded   int         `json:"months_needed"`
	TargetMonth    string      `json:"target_month"`
}

func toDashboardResponse(d *analytics.Dashboard) dashboardResponse {
	resp := dashboardResponse{
		Period:        d.Period,
		Label:         d.Period.Label(),
		TotalIncome:   money(d.Summary.TotalIncome),
		TotalExpenses: money(d.Summary.TotalExpenses),
		Balance:       money(d.Summary.Balance),
		TopCategories: make([]categoryResponse, 0, len(d.TopCategories)),
		Budget:        toBudgetResponse(d.Budget),
	}

	for _, b := range d.TopCategories {
		resp.TopCategories = append(resp.TopCategories, categoryResponse{Category: b.Category, Amount: money(b.Amount)})
	}

	return resp
}

func toBudgetResponse(b analytics.BudgetState) budgetResponse {
	return budgetResponse{
		Limit:          money(b.Limit),
		Spent:          money(b.Spent),
		Remaining:      money(b.Remaining()),
		PercentageUsed: json.Number(b.PercentageUsed.StringFixed(1)),
		Exceeded:       b.Exceeded(),
	}
}

func toMonthlyResponse(stats []analytics.MonthlyStat) []monthlyResponse {
	resp := make([]monthlyResponse, len(stats))
	for i, s := range stats {
		resp[i] = monthlyResponse{
			Month:   s.Month,
			Income:  money(s.Income),
			Expense: money(s.Expense),
			Savings: money(s.Savings()),
		}
	}

	return resp
}

func toGoalResponse(target decimal.Decimal, p *goal.Projection) goalResponse {
	return goalResponse{
		Target:         money(target),
		AverageSavings: money(p.AverageSavings),
		MonthsNeeded:   p.MonthsNeeded,
		TargetMonth:    p.Label(),
	}
}
