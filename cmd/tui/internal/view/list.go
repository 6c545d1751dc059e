package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pennywise/internal/query"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateSearch
	listStateConfirmDelete
)

var typeFilters = []string{query.All, string(transaction.TypeIncome), string(transaction.TypeExpense)}

type ListModel struct {
	CommonModel
	txService *transaction.Service

	state  listState
	table  table.Model
	search textinput.Model
	form   *huh.Form

	all  []*transaction.Transaction
	view []*transaction.Transaction

	query       query.Query
	typeIdx     int
	categoryIdx int
	sortIdx     int

	loading bool
	err     error
	status  string
}

func NewListModel(txSvc *transaction.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Title", Width: 30},
		{Title: "Category", Width: 15},
		{Title: "Type", Width: 9},
		{Title: "Amount", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	search := textinput.New()
	search.Placeholder = "title or category"
	search.Prompt = "Search: "
	search.Width = 30

	return ListModel{
		txService: txSvc,
		table:     t,
		search:    search,
		query:     query.Query{Sort: query.DefaultSort},
		loading:   true,
	}
}

func (m ListModel) Title() string { return "Transactions" }

func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateSearch:
		return "Enter: apply | Esc: clear"
	case listStateConfirmDelete:
		return "Confirm deletion"
	}

	return "Esc: back | /: search | t: type | c: category | s: sort | o: order | x: delete | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.all = msg.txs
		m.clampCategory()
		m.refreshTable()

		return m, nil

	case deleteResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Deleted %q", msg.title)
		}

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil
	}

	switch m.state {
	case listStateSearch:
		return m.updateSearch(msg)
	case listStateConfirmDelete:
		return m.updateConfirm(msg)
	}

	return m.updateBrowse(msg)
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "/":
			m.state = listStateSearch
			m.table.Blur()

			return m, m.search.Focus()
		case "t":
			m.typeIdx = (m.typeIdx + 1) % len(typeFilters)
			m.refreshTable()

			return m, nil
		case "c":
			m.categoryIdx = (m.categoryIdx + 1) % (len(query.Categories(m.all)) + 1)
			m.refreshTable()

			return m, nil
		case "s":
			m.sortIdx = (m.sortIdx + 1) % len(query.SortKeys)
			m.query.Sort.Key = query.SortKeys[m.sortIdx]
			m.refreshTable()

			return m, nil
		case "o":
			if m.query.Sort.Direction == query.Desc {
				m.query.Sort.Direction = query.Asc
			} else {
				m.query.Sort.Direction = query.Desc
			}

			m.refreshTable()

			return m, nil
		case "x", "delete":
			return m.enterConfirmDelete()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			fallthrough
		case tea.KeyEnter:
			m.state = listStateBrowse
			m.search.Blur()
			m.table.Focus()
			m.refreshTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refreshTable()

	return m, cmd
}

func (m ListModel) enterConfirmDelete() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.view) {
		return m, nil
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %q?", m.view[idx].Title)).
				Description("This cannot be undone.").
				Affirmative("Delete").
				Negative("Keep"),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = listStateBrowse
	m.table.Focus()

	if !m.form.GetBool("confirm") {
		m.form = nil
		return m, nil
	}

	tx := m.view[m.table.Cursor()]
	m.form = nil

	return m, m.deleteCmd(tx)
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"[t] Type: %s | [c] Category: %s | [s] Sort: %s %s | %d of %d",
		activeStyle(typeFilters[m.typeIdx]),
		activeStyle(m.categoryLabel()),
		activeStyle(string(m.query.Sort.Key)),
		activeStyle(string(m.query.Sort.Direction)),
		len(m.view), len(m.all),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.search.View(),
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateConfirmDelete && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ListModel) categoryLabel() string {
	cats := query.Categories(m.all)
	if m.categoryIdx == 0 || m.categoryIdx > len(cats) {
		return query.All
	}

	return cats[m.categoryIdx-1]
}

func (m *ListModel) clampCategory() {
	if m.categoryIdx > len(query.Categories(m.all)) {
		m.categoryIdx = 0
	}
}

func (m *ListModel) refreshTable() {
	m.query.Search = m.search.Value()
	m.query.Filters.Type = typeFilters[m.typeIdx]
	m.query.Filters.Category = m.categoryLabel()

	m.view = query.Apply(m.all, m.query)

	rows := make([]table.Row, 0, len(m.view))
	for _, tx := range m.view {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			tx.Title,
			tx.Category,
			string(tx.Type),
			FormatAmount(tx.SignedAmount()),
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Messages

type loadListMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx)

		return loadListMsg{txs: txs, err: err}
	}
}

type deleteResultMsg struct {
	title string
	err   error
}

func (m ListModel) deleteCmd(tx *transaction.Transaction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return deleteResultMsg{title: tx.Title, err: m.txService.Delete(ctx, tx.ID)}
	}
}
