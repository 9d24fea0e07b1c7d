package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/bpofin/finsync/internal/company"
	"github.com/bpofin/finsync/internal/ingest"
)

// A full run polls the ERP for every company, so it can take a while.
const runTimeout = 30 * time.Minute

type runState int

const (
	runStatePeriod runState = iota
	runStateCompanies
	runStateRunning
	runStateResult
)

// ImportRunModel drives an interactive multi-company import: pick a
// period, optionally narrow to a few CNPJs, then watch the run.
type ImportRunModel struct {
	CommonModel
	companyService *company.Service
	runner         *ingest.Runner

	state        runState
	err          error
	periodPicker PeriodPicker

	startDate time.Time
	endDate   time.Time

	form    *huh.Form
	cnpjs   string
	spinner spinner.Model
	summary ingest.Summary
}

func NewImportRunModel(companySvc *company.Service, runner *ingest.Runner) ImportRunModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ImportRunModel{
		companyService: companySvc,
		runner:         runner,
		state:          runStatePeriod,
		periodPicker:   NewPeriodPicker(),
		spinner:        s,
	}
}

func (m ImportRunModel) Title() string { return "Run Import" }

func (m ImportRunModel) ShortHelp() string {
	switch m.state {
	case runStateResult:
		return "Esc: back to menu"
	case runStateRunning:
		return "Importing..."
	}
	return "Esc: back | Enter: confirm"
}

func (m ImportRunModel) Init() tea.Cmd {
	return nil
}

func (m ImportRunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if pMsg, ok := msg.(PeriodSelectedMsg); ok {
		m.startDate = pMsg.Start
		m.endDate = pMsg.End
		m.form = m.buildCompanyForm()
		m.state = runStateCompanies
		return m, m.form.Init()
	}

	switch m.state {
	case runStatePeriod:
		return m.updatePeriod(msg)
	case runStateCompanies:
		return m.updateCompanies(msg)
	case runStateRunning:
		return m.updateRunning(msg)
	case runStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ImportRunModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.periodPicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.periodPicker, cmd = m.periodPicker.Update(msg)
	return m, cmd
}

func (m ImportRunModel) updateCompanies(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = runStatePeriod
			m.periodPicker.Reset()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = runStateRunning
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.runImportCmd(m.startDate, m.endDate, m.cnpjs))
}

func (m ImportRunModel) updateRunning(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(runResultMsg); ok {
		m.state = runStateResult
		m.err = result.err
		m.summary = result.summary
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m ImportRunModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}
	return m, nil
}

func (m ImportRunModel) buildCompanyForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("cnpjs").
				Title("CNPJs").
				Description("Comma separated, empty imports every registered company").
				Placeholder("00.000.000/0001-00, ...").
				Value(&m.cnpjs),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ImportRunModel) View() string {
	switch m.state {
	case runStatePeriod:
		return lipgloss.NewStyle().Padding(1).Render(m.periodPicker.View())

	case runStateCompanies:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case runStateRunning:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Importing %s a %s from F360...",
				m.spinner.View(), FormatDate(m.startDate), FormatDate(m.endDate)),
		)

	case runStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportRunModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	s := m.summary

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Import Complete")

	body := fmt.Sprintf(
		"Companies:  %d/%d processed\nLedger:     %d inserted, %d duplicates skipped\nCash flow:  %d inserted, %d duplicates skipped",
		s.CompaniesProcessed, s.CompaniesTotal,
		s.LedgerInserted, s.LedgerSkipped,
		s.CashFlowInserted, s.CashFlowSkipped,
	)

	if s.RowsDropped > 0 || s.RowsUnknownCompany > 0 || s.RowsDefaultNature > 0 {
		body += fmt.Sprintf("\nRows:       %d dropped, %d unknown company, %d defaulted to expense",
			s.RowsDropped, s.RowsUnknownCompany, s.RowsDefaultNature)
	}

	if len(s.Errors) > 0 {
		errs := make([]string, 0, len(s.Errors))
		for _, e := range s.Errors {
			errs = append(errs, "  - "+e.String())
		}
		body += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).
			Render("Errors:\n"+strings.Join(errs, "\n"))
	}

	return lipgloss.NewStyle().Padding(1).Render(
		header + "\n\n" + body + "\n\n(Esc to go back)",
	)
}

// Messages

type runResultMsg struct {
	summary ingest.Summary
	err     error
}

func (m ImportRunModel) runImportCmd(start, end time.Time, cnpjs string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		companies, err := m.companyService.List(ctx)
		if err != nil {
			return runResultMsg{err: err}
		}

		if strings.TrimSpace(cnpjs) != "" {
			companies = filterByCNPJ(companies, cnpjs)
			if len(companies) == 0 {
				return runResultMsg{err: fmt.Errorf("no registered company matches %q", cnpjs)}
			}
		}

		if len(companies) == 0 {
			return runResultMsg{err: fmt.Errorf("no companies registered")}
		}

		return runResultMsg{summary: m.runner.Run(ctx, companies, ingest.DateRange{Start: start, End: end})}
	}
}

func filterByCNPJ(companies []*company.Company, cnpjs string) []*company.Company {
	wanted := make(map[string]bool)
	for _, c := range strings.Split(cnpjs, ",") {
		if n := company.NormalizeCNPJ(c); n != "" {
			wanted[n] = true
		}
	}

	var out []*company.Company
	for _, c := range companies {
		if wanted[company.NormalizeCNPJ(c.CNPJ)] {
			out = append(out, c)
		}
	}

	return out
}
