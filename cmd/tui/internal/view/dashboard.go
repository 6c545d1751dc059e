package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/analytics"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

const budgetBarWidth = 30

type dashboardState int

const (
	dashboardStateView dashboardState = iota
	dashboardStateRollover
	dashboardStateBudget
)

type DashboardModel struct {
	CommonModel
	analytics *analytics.Service
	txService *transaction.Service

	state     dashboardState
	periodIdx int
	dashboard *analytics.Dashboard
	monthly   []analytics.MonthlyStat
	offer     *analytics.RolloverOffer
	form      *huh.Form

	loading bool
	status  string
	err     error
}

func NewDashboardModel(svc *analytics.Service, txSvc *transaction.Service) DashboardModel {
	return DashboardModel{
		analytics: svc,
		txService: txSvc,
		loading:   true,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	if m.state != dashboardStateView {
		return "Esc: cancel"
	}

	return "Esc: back | p: period | b: budget | r: refresh"
}

// Init checks for a month rollover before showing the numbers.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.rolloverCmd(), m.loadCmd())
}

func (m DashboardModel) period() analytics.Period {
	return analytics.Periods[m.periodIdx]
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.dashboard = msg.dashboard
		m.monthly = msg.monthly

		return m, nil

	case rolloverCheckedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Rollover check failed: %v", msg.err)
			return m, nil
		}

		if msg.offer == nil {
			return m, nil
		}

		m.offer = msg.offer
		m.state = dashboardStateRollover
		m.form = rolloverForm(msg.offer)

		return m, m.form.Init()

	case dashboardActionMsg:
		m.state = dashboardStateView
		m.form = nil
		m.offer = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.status
		}

		m.loading = true

		return m, m.loadCmd()
	}

	if m.state != dashboardStateView {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "p":
			m.periodIdx = (m.periodIdx + 1) % len(analytics.Periods)
			m.loading = true

			return m, m.loadCmd()
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "b":
			current := ""
			if m.dashboard != nil {
				current = m.dashboard.Budget.Limit.String()
			}

			m.state = dashboardStateBudget
			m.form = budgetForm(current)

			return m, m.form.Init()
		}
	}

	return m, nil
}

func (m DashboardModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		// Leaving the rollover prompt unanswered keeps it pending for next time.
		m.state = dashboardStateView
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == dashboardStateRollover {
		return m, m.settleRolloverCmd(m.form.GetBool("confirm"))
	}

	limit, _ := decimal.NewFromString(strings.TrimSpace(m.form.GetString("limit")))

	return m, m.setBudgetCmd(limit)
}

func rolloverForm(offer *analytics.RolloverOffer) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("You saved %s in %s.", FormatAmount(offer.Amount), offer.Month)).
				Description("Carry it over as income for this month?").
				Affirmative("Carry over").
				Negative("Skip"),
		),
	).WithWidth(60).WithShowHelp(false)
}

func budgetForm(current string) *huh.Form {
	input := huh.NewInput().
		Key("limit").
		Title("Monthly budget").
		Validate(func(s string) error {
			d, err := decimal.NewFromString(strings.TrimSpace(s))
			if err != nil {
				return errors.New("budget must be a number")
			}

			if d.IsNegative() {
				return errors.New("budget cannot be negative")
			}

			return nil
		})

	if current != "" {
		input = input.Placeholder(current)
	}

	return huh.NewForm(huh.NewGroup(input)).WithWidth(45).WithShowHelp(false)
}

func (m DashboardModel) View() string {
	switch m.state {
	case dashboardStateRollover, dashboardStateBudget:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	d := m.dashboard
	sections := []string{
		headerStyle.Render(fmt.Sprintf("Dashboard: %s", activeStyle(d.Period.Label()))),
		"",
		fmt.Sprintf("Income:   %s", incomeStyle.Render(FormatAmount(d.Summary.TotalIncome))),
		fmt.Sprintf("Expenses: %s", expenseStyle.Render(FormatAmount(d.Summary.TotalExpenses))),
		fmt.Sprintf("Balance:  %s", FormatAmount(d.Summary.Balance)),
		"",
		m.budgetView(),
		"",
		headerStyle.Render("Top Categories"),
	}

	if len(d.TopCategories) == 0 {
		sections = append(sections, lipgloss.NewStyle().Faint(true).Render("No expenses yet."))
	}

	for _, b := range d.TopCategories {
		sections = append(sections, fmt.Sprintf("%-18s %14s", b.Category, FormatAmount(b.Amount)))
	}

	if len(m.monthly) > 0 {
		sections = append(sections, "", headerStyle.Render("Monthly Savings"))

		for _, s := range m.monthly {
			savings := s.Savings()

			style := incomeStyle
			if savings.IsNegative() {
				style = expenseStyle
			}

			sections = append(sections, fmt.Sprintf("%s  %s", s.Month, style.Render(FormatAmount(savings))))
		}
	}

	content := strings.Join(sections, "\n")
	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m DashboardModel) budgetView() string {
	b := m.dashboard.Budget

	bar := budgetBar(b.PercentageUsed, budgetBarWidth)

	style := incomeStyle
	if b.PercentageUsed.GreaterThanOrEqual(decimal.NewFromInt(80)) {
		style = expenseStyle
	}

	line := fmt.Sprintf("Budget %s %s%%  (%s of %s)",
		style.Render(bar),
		b.PercentageUsed.StringFixed(0),
		FormatAmount(b.Spent),
		FormatAmount(b.Limit),
	)

	if b.Exceeded() {
		line += "\n" + expenseStyle.Render(fmt.Sprintf("Over budget by %s", FormatAmount(b.Spent.Sub(b.Limit))))
	} else {
		line += fmt.Sprintf("\nRemaining: %s", FormatAmount(b.Remaining()))
	}

	return line
}

// budgetBar renders pct (0-100) as a bar of width cells.
func budgetBar(pct decimal.Decimal, width int) string {
	filled := int(pct.Mul(decimal.NewFromInt(int64(width))).Div(decimal.NewFromInt(100)).IntPart())
	filled = min(max(filled, 0), width)

	return "[" + strings.Repeat("#", filled) + strings.Repeat(" ", width-filled) + "]"
}

// Messages

type dashboardLoadedMsg struct {
	dashboard *analytics.Dashboard
	monthly   []analytics.MonthlyStat
	err       error
}

type rolloverCheckedMsg struct {
	offer *analytics.RolloverOffer
	err   error
}

type dashboardActionMsg struct {
	status string
	err    error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	period := m.period()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		d, err := m.analytics.Dashboard(ctx, period)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		txs, err := m.txService.List(ctx)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		return dashboardLoadedMsg{dashboard: d, monthly: analytics.MonthlyStats(txs)}
	}
}

func (m DashboardModel) rolloverCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		offer, err := m.analytics.PendingRollover(ctx)

		return rolloverCheckedMsg{offer: offer, err: err}
	}
}

func (m DashboardModel) settleRolloverCmd(accept bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if !accept {
			return dashboardActionMsg{status: "Rollover skipped.", err: m.analytics.DeclineRollover(ctx)}
		}

		tx, err := m.analytics.AcceptRollover(ctx)
		if err != nil {
			return dashboardActionMsg{err: err}
		}

		return dashboardActionMsg{status: fmt.Sprintf("Carried over %s.", FormatAmount(tx.Amount))}
	}
}

func (m DashboardModel) setBudgetCmd(limit decimal.Decimal) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.analytics.SetBudget(ctx, limit); err != nil {
			return dashboardActionMsg{err: err}
		}

		return dashboardActionMsg{status: fmt.Sprintf("Budget set to %s.", FormatAmount(limit))}
	}
}
