package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/goal"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type GoalModel struct {
	CommonModel
	txService *transaction.Service

	form       *huh.Form
	target     decimal.Decimal
	projection *goal.Projection
	done       bool
	err        error
}

func NewGoalModel(txSvc *transaction.Service) GoalModel {
	return GoalModel{txService: txSvc, form: goalForm()}
}

func goalForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("target").
				Title("Savings target").
				Description("How much do you want to have saved?").
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
					if err != nil {
						return errors.New("target must be a number")
					}

					if !d.IsPositive() {
						return errors.New("target must be greater than zero")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m GoalModel) Title() string { return "Savings Goal" }

func (m GoalModel) ShortHelp() string {
	return "Esc: back | Enter: calculate"
}

func (m GoalModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m GoalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(goalResultMsg); ok {
		m.done = true
		m.projection = result.projection
		m.err = result.err

		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		if !m.done {
			return m, Back
		}

		m.done = false
		m.projection = nil
		m.err = nil
		m.form = goalForm()

		return m, m.form.Init()
	}

	if m.done {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.target, _ = decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(m.form.GetString("target")), ",", ""))

	return m, m.projectCmd(m.target)
}

func (m GoalModel) View() string {
	if !m.done {
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	style := lipgloss.NewStyle().Padding(2)

	if errors.Is(m.err, goal.ErrUnavailable) {
		return style.Render(errorStyle.Render("Not enough savings history to project this goal.") +
			"\n\nRecord some income and expenses first.\n\n(Esc to try another target)")
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to try another target)")
	}

	p := m.projection

	return style.Render(strings.Join([]string{
		headerStyle.Render(fmt.Sprintf("Goal: %s", FormatAmount(m.target))),
		"",
		fmt.Sprintf("Average monthly savings: %s", FormatAmount(p.AverageSavings)),
		fmt.Sprintf("Months needed:           %d", p.MonthsNeeded),
		fmt.Sprintf("Reached by:              %s", successStyle.Render(p.Label())),
		"",
		"(Esc to try another target)",
	}, "\n"))
}

type goalResultMsg struct {
	projection *goal.Projection
	err        error
}

func (m GoalModel) projectCmd(target decimal.Decimal) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx)
		if err != nil {
			return goalResultMsg{err: err}
		}

		p, err := goal.Project(txs, target, time.Now())

		return goalResultMsg{projection: p, err: err}
	}
}
