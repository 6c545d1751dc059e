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

	"github.com/MrJamesThe3rd/pennywise/internal/extractor"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type entryState int

const (
	entryStateMode entryState = iota
	entryStateMessage
	entryStateManual
	entryStatePreview
	entryStateResult
)

const (
	modeMessage = "message"
	modeManual  = "manual"
)

// EntryModel adds a single transaction, either typed in or parsed from a
// pasted bank message.
type EntryModel struct {
	CommonModel
	txService *transaction.Service
	extractor *extractor.Extractor

	state     entryState
	form      *huh.Form
	candidate transaction.CreateParams

	status string
	err    error
}

func NewEntryModel(txSvc *transaction.Service, ext *extractor.Extractor) EntryModel {
	m := EntryModel{txService: txSvc, extractor: ext}
	m.form = modeForm()

	return m
}

func (m EntryModel) Title() string { return "Add Transaction" }

func (m EntryModel) ShortHelp() string {
	return "Esc: back | Enter: next"
}

func (m EntryModel) Init() tea.Cmd {
	return m.form.Init()
}

func modeForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("mode").
				Title("How do you want to add it?").
				Options(
					huh.NewOption("Paste a bank SMS or notification", modeMessage),
					huh.NewOption("Enter the details manually", modeManual),
				),
		),
	).WithWidth(60).WithShowHelp(false)
}

func messageForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Key("message").
				Title("Message").
				Placeholder("Rs. 500 debited for Coffee at Starbucks on 05-11-2025").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("message cannot be empty")
					}

					return nil
				}),
		),
	).WithWidth(60).WithShowHelp(false)
}

func manualForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title cannot be empty")
					}

					return nil
				}),
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Validate(validateAmount),
			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", string(transaction.TypeExpense)),
					huh.NewOption("Income", string(transaction.TypeIncome)),
				),
			huh.NewInput().
				Key("category").
				Title("Category").
				Placeholder(transaction.DefaultCategory),
			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD, empty for today").
				Validate(validateOptionalDate),
		),
	).WithWidth(60).WithShowHelp(false)
}

func confirmForm(title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(title).
				Affirmative("Save").
				Negative("Discard"),
		),
	).WithWidth(60).WithShowHelp(false)
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return errors.New("amount must be a number")
	}

	if d.IsZero() {
		return errors.New("amount must not be zero")
	}

	return nil
}

func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}

	return nil
}

func (m EntryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(entrySavedMsg); ok {
		m.state = entryStateResult
		m.err = result.err

		if result.err != nil {
			m.status = fmt.Sprintf("Error: %v", result.err)
		} else {
			m.status = fmt.Sprintf("Saved %q (%s) on %s.", result.tx.Title, FormatSigned(result.tx), FormatDate(result.tx.Date))
		}

		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		if m.state == entryStateMode {
			return m, Back
		}

		m.state = entryStateMode
		m.form = modeForm()
		m.err = nil
		m.status = ""

		return m, m.form.Init()
	}

	if m.state == entryStateResult {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m.advance()
}

func (m EntryModel) advance() (tea.Model, tea.Cmd) {
	switch m.state {
	case entryStateMode:
		if m.form.GetString("mode") == modeManual {
			m.state = entryStateManual
			m.form = manualForm()
		} else {
			m.state = entryStateMessage
			m.form = messageForm()
		}

		return m, m.form.Init()

	case entryStateMessage:
		params, err := m.extractor.Extract(m.form.GetString("message"))
		if err != nil {
			m.state = entryStateResult
			m.err = err
			m.status = "Could not find an amount in that message."

			return m, nil
		}

		m.candidate = params
		m.state = entryStatePreview
		m.form = confirmForm("Save this transaction?")

		return m, m.form.Init()

	case entryStateManual:
		m.candidate = manualParams(m.form)
		m.state = entryStatePreview
		m.form = confirmForm("Save this transaction?")

		return m, m.form.Init()

	case entryStatePreview:
		if !m.form.GetBool("confirm") {
			m.state = entryStateMode
			m.form = modeForm()

			return m, m.form.Init()
		}

		return m, m.saveCmd(m.candidate)
	}

	return m, nil
}

// manualParams reads the manual form. The sign of the amount is ignored;
// the selected type decides it.
func manualParams(f *huh.Form) transaction.CreateParams {
	amount, _ := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(f.GetString("amount")), ",", ""))

	p := transaction.CreateParams{
		Title:    f.GetString("title"),
		Amount:   amount.Abs(),
		Type:     transaction.Type(f.GetString("type")),
		Category: f.GetString("category"),
	}

	if d, err := time.Parse(time.DateOnly, strings.TrimSpace(f.GetString("date"))); err == nil {
		p.Date = d
	}

	return p
}

func (m EntryModel) View() string {
	switch m.state {
	case entryStatePreview:
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left, m.previewView(), "", m.form.View()),
		)
	case entryStateResult:
		style := successStyle
		if m.err != nil {
			style = errorStyle
		}

		return lipgloss.NewStyle().Padding(2).Render(style.Render(m.status) + "\n\n(Esc to add another)")
	}

	return lipgloss.NewStyle().Padding(1).Render(m.form.View())
}

func (m EntryModel) previewView() string {
	c := m.candidate

	date := "today"
	if !c.Date.IsZero() {
		date = FormatDate(c.Date)
	}

	category := c.Category
	if strings.TrimSpace(category) == "" {
		category = transaction.DefaultCategory
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(56).
		Render(fmt.Sprintf(
			"%s\n\nTitle:    %s\nAmount:   %s\nType:     %s\nCategory: %s\nDate:     %s",
			headerStyle.Render("Transaction"),
			c.Title, FormatAmount(c.Amount), c.Type, category, date,
		))
}

type entrySavedMsg struct {
	tx  *transaction.Transaction
	err error
}

func (m EntryModel) saveCmd(params transaction.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		tx, err := m.txService.Create(ctx, params)

		return entrySavedMsg{tx: tx, err: err}
	}
}
