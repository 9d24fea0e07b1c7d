package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/bpofin/finsync/cmd/tui/internal/view"
	"github.com/bpofin/finsync/internal/company"
	companyStore "github.com/bpofin/finsync/internal/company/store"
	"github.com/bpofin/finsync/internal/config"
	"github.com/bpofin/finsync/internal/database"
	"github.com/bpofin/finsync/internal/f360"
	"github.com/bpofin/finsync/internal/ingest"
	"github.com/bpofin/finsync/internal/ledger"
	ledgerStore "github.com/bpofin/finsync/internal/ledger/store"
)

type model struct {
	companyService *company.Service
	ledgerService  *ledger.Service
	runner         *ingest.Runner

	currentView View

	importView  view.ImportRunModel
	entriesView view.EntriesModel
}

type View int

const (
	ViewMenu    View = 0
	ViewImport  View = 1
	ViewEntries View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	companySvc := company.NewService(companyStore.New(db))
	ledgerSvc := ledger.NewService(ledgerStore.New(db), cfg.Import.BatchSize, cfg.Import.UpsertRetries)
	erp := f360.NewClient(f360.Config{
		BaseURL:      cfg.F360.BaseURL,
		LoginToken:   cfg.F360.Token,
		TokenTTL:     cfg.F360.TokenTTL,
		TokenMargin:  cfg.F360.TokenMargin,
		PollAttempts: cfg.F360.PollAttempts,
		PollInterval: cfg.F360.PollInterval,
	})
	runner := ingest.NewRunner(erp, ledgerSvc, cfg.Import.CompanyDelay)

	return model{
		companyService: companySvc,
		ledgerService:  ledgerSvc,
		runner:         runner,
		currentView:    ViewMenu,
		importView:     view.NewImportRunModel(companySvc, runner),
		entriesView:    view.NewEntriesModel(ledgerSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportRunModel(m.companyService, m.runner)

				return m, m.importView.Init()
			case "2":
				m.currentView = ViewEntries
				m.entriesView = view.NewEntriesModel(m.ledgerService)

				return m, m.entriesView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportRunModel)
	case ViewEntries:
		var newModel tea.Model
		newModel, cmd = m.entriesView.Update(msg)
		m.entriesView = newModel.(view.EntriesModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"FinSync TUI\n\n" +
				"1. Run Import\n" +
				"2. Browse Ledger Entries\n\n" +
				"q. Quit",
		)
	case ViewImport:
		return m.importView.View()
	case ViewEntries:
		return m.entriesView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
