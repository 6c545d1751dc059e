package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pennywise/internal/importer"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	txService     *transaction.Service
	importService *importer.Service

	state      importState
	filePicker filepicker.Model

	summary importSummary
	status  string
	err     error
}

// importSummary counts what happened to each input row.
type importSummary struct {
	file     string
	charset  string
	total    int
	skipped  int
	created  int
	failures []string
}

func NewImportModel(txSvc *transaction.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".json"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		txService:     txSvc,
		importService: impSvc,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import Transactions" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.summary = msg.summary
		m.status = fmt.Sprintf("Imported %d of %d rows from %s.", msg.summary.created, msg.summary.total, msg.summary.file)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	if m.state == importStateResult {
		m.state = importStateFilePick
		m.err = nil
		m.status = ""
		m.summary = importSummary{}

		return m, nil
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a CSV or JSON file to import:\n\n%s", m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	s := m.summary
	lines := []string{
		successStyle.Render(m.status),
		"",
		fmt.Sprintf("Encoding: %s", s.charset),
		fmt.Sprintf("Rows read: %d", s.total),
		fmt.Sprintf("Skipped (invalid): %d", s.skipped),
		fmt.Sprintf("Stored: %d", s.created),
	}

	if len(s.failures) > 0 {
		lines = append(lines, "", errorStyle.Render(fmt.Sprintf("Failed to store %d:", len(s.failures))))
		lines = append(lines, s.failures...)
	}

	return style.Render(strings.Join(lines, "\n") + "\n\n(Esc to import another file)")
}

// Messages

type importResultMsg struct {
	summary importSummary
	err     error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		format, err := importer.ParseFormat(filepath.Ext(path))
		if err != nil {
			return importResultMsg{err: err}
		}

		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		result, err := m.importService.Import(format, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		batch := m.txService.CreateBatch(ctx, result.Params)

		summary := importSummary{
			file:    filepath.Base(path),
			charset: string(result.Charset),
			total:   result.Total,
			skipped: result.Skipped,
			created: len(batch.Created),
		}

		for _, fail := range batch.Failed {
			summary.failures = append(summary.failures, fmt.Sprintf("  %s: %v", fail.Params.Title, fail.Err))
		}

		return importResultMsg{summary: summary}
	}
}
