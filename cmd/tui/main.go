package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pennywise/internal/analytics"
	"github.com/MrJamesThe3rd/pennywise/internal/config"
	"github.com/MrJamesThe3rd/pennywise/internal/database"
	"github.com/MrJamesThe3rd/pennywise/internal/export"
	"github.com/MrJamesThe3rd/pennywise/internal/extractor"
	"github.com/MrJamesThe3rd/pennywise/internal/importer"
	"github.com/MrJamesThe3rd/pennywise/internal/settings"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
	txStore "github.com/MrJamesThe3rd/pennywise/internal/transaction/store"
)

type model struct {
	appName          string
	txService        *transaction.Service
	importService    *importer.Service
	exportService    *export.Service
	analyticsService *analytics.Service
	extractor        *extractor.Extractor

	currentView View
	screen      view.Screen
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewList      View = 2
	ViewEntry     View = 3
	ViewImport    View = 4
	ViewExport    View = 5
	ViewGoal      View = 6
)

var menuKeys = map[string]View{
	"1": ViewDashboard,
	"2": ViewList,
	"3": ViewEntry,
	"4": ViewImport,
	"5": ViewExport,
	"6": ViewGoal,
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	defaultBudget, err := decimal.NewFromString(cfg.Settings.DefaultBudget)
	if err != nil {
		slog.Error("invalid default budget", "value", cfg.Settings.DefaultBudget, "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(cfg.ConnectionString()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	txSvc := transaction.NewService(txStore.New(db), cfg.Import.Concurrency)

	return model{
		appName:          cfg.App.Name,
		txService:        txSvc,
		importService:    importer.NewService(),
		exportService:    export.NewService(txSvc),
		analyticsService: analytics.NewService(txSvc, settings.NewFileStore(cfg.Settings.Path, defaultBudget)),
		extractor:        extractor.New(),
		currentView:      ViewMenu,
	}
}

// newScreen builds a fresh screen so every visit reloads its data.
func (m model) newScreen(v View) view.Screen {
	switch v {
	case ViewDashboard:
		return view.NewDashboardModel(m.analyticsService, m.txService)
	case ViewList:
		return view.NewListModel(m.txService)
	case ViewEntry:
		return view.NewEntryModel(m.txService, m.extractor)
	case ViewImport:
		return view.NewImportModel(m.txService, m.importService)
	case ViewExport:
		return view.NewExportModel(m.exportService)
	case ViewGoal:
		return view.NewGoalModel(m.txService)
	}

	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			if msg.String() == "q" {
				return m, tea.Quit
			}

			if v, ok := menuKeys[msg.String()]; ok {
				m.currentView = v
				m.screen = m.newScreen(v)

				return m, m.screen.Init()
			}

			return m, nil
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		m.screen = nil

		return m, nil
	}

	if m.screen == nil {
		return m, nil
	}

	newModel, cmd := m.screen.Update(msg)
	if s, ok := newModel.(view.Screen); ok {
		m.screen = s
	}

	return m, cmd
}

func (m model) View() string {
	if m.currentView == ViewMenu || m.screen == nil {
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s\n\n", lipgloss.NewStyle().Bold(true).Render(m.appName)) +
				"1. Dashboard\n" +
				"2. Transactions\n" +
				"3. Add Transaction\n" +
				"4. Import File\n" +
				"5. Export Report\n" +
				"6. Savings Goal\n\n" +
				"q. Quit",
		)
	}

	footer := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(m.screen.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(m.screen.Title()),
		m.screen.View(),
		footer,
	)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
