package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bpofin/finsync/internal/ledger"
)

// EntriesModel browses imported ledger entries. Entries come straight
// from the ERP and are never edited here, only filtered.
type EntriesModel struct {
	CommonModel
	ledgerService *ledger.Service

	table   table.Model
	entries []*ledger.Entry

	// Filter cycling
	natureFilterIdx int
	dateFilterIdx   int

	filter  ledger.ListFilter
	loading bool
	err     error
}

func NewEntriesModel(ledgerSvc *ledger.Service) EntriesModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Account", Width: 32},
		{Title: "Nature", Width: 9},
		{Title: "Amount", Width: 12},
		{Title: "Description", Width: 40},
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

	return EntriesModel{
		ledgerService: ledgerSvc,
		table:         t,
		filter:        ledger.ListFilter{},
	}
}

func (m EntriesModel) Title() string { return "Ledger Entries" }

func (m EntriesModel) ShortHelp() string {
	return "Esc: back | n: nature filter | d: date filter | r: refresh"
}

func (m EntriesModel) Init() tea.Cmd {
	return m.loadEntriesCmd()
}

func (m EntriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadEntriesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.entries = msg.entries
		m.err = nil
		m.refreshTable()
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadEntriesCmd()
		case "n":
			m.natureFilterIdx = (m.natureFilterIdx + 1) % 3
			m.applyFilter()
			return m, m.loadEntriesCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % 3
			m.applyFilter()
			return m, m.loadEntriesCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m EntriesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading entries...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	natureLabels := []string{"All", "Receita", "Despesa"}
	dateLabels := []string{"All Time", "This Month", "Last Month"}

	header := fmt.Sprintf(
		"Filter: [n] Nature: %s | [d] Date: %s",
		activeStyle(natureLabels[m.natureFilterIdx]),
		activeStyle(dateLabels[m.dateFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *EntriesModel) applyFilter() {
	switch m.natureFilterIdx {
	case 1:
		n := ledger.NatureRevenue
		m.filter.Nature = &n
	case 2:
		n := ledger.NatureExpense
		m.filter.Nature = &n
	default:
		m.filter.Nature = nil
	}

	now := time.Now()
	switch m.dateFilterIdx {
	case 1:
		s := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		e := s.AddDate(0, 1, 0).Add(-time.Nanosecond)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	case 2:
		s := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
		e := s.AddDate(0, 1, 0).Add(-time.Nanosecond)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	default:
		m.filter.StartDate = nil
		m.filter.EndDate = nil
	}
}

func (m *EntriesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		rows = append(rows, table.Row{
			FormatDate(e.Date),
			e.Account,
			string(e.Nature),
			FormatAmount(e.AmountCents),
			e.Description,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadEntriesMsg struct {
	entries []*ledger.Entry
	err     error
}

func (m EntriesModel) loadEntriesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		entries, err := m.ledgerService.List(ctx, m.filter)
		return loadEntriesMsg{entries: entries, err: err}
	}
}
