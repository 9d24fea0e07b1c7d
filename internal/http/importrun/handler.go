package importrun

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bpofin/finsync/internal/company"
	"github.com/bpofin/finsync/internal/importer"
	"github.com/bpofin/finsync/internal/ingest"
	"github.com/bpofin/finsync/internal/ledger"
)

type Handler struct {
	runner    *ingest.Runner
	companies *company.Service
	importSvc *importer.Service
	ledgerSvc *ledger.Service
}

func NewHandler(runner *ingest.Runner, companies *company.Service, importSvc *importer.Service, ledgerSvc *ledger.Service) *Handler {
	return &Handler{
		runner:    runner,
		companies: companies,
		importSvc: importSvc,
		ledgerSvc: ledgerSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.run)
	r.Post("/backfill", h.backfill)
}

type runRequest struct {
	Start string   `json:"start"`
	End   string   `json:"end"`
	CNPJs []string `json:"cnpjs,omitempty"`
}

type summaryResponse struct {
	CompaniesTotal     int      `json:"companies_total"`
	CompaniesProcessed int      `json:"companies_processed"`
	LedgerInserted     int      `json:"ledger_inserted"`
	LedgerSkipped      int      `json:"ledger_skipped"`
	CashFlowInserted   int      `json:"cashflow_inserted"`
	CashFlowSkipped    int      `json:"cashflow_skipped"`
	RowsDropped        int      `json:"rows_dropped"`
	RowsUnknownCompany int      `json:"rows_unknown_company"`
	RowsDefaultNature  int      `json:"rows_default_nature"`
	Errors             []string `json:"errors"`
}

func toSummaryResponse(s ingest.Summary) summaryResponse {
	resp := summaryResponse{
		CompaniesTotal:     s.CompaniesTotal,
		CompaniesProcessed: s.CompaniesProcessed,
		LedgerInserted:     s.LedgerInserted,
		LedgerSkipped:      s.LedgerSkipped,
		CashFlowInserted:   s.CashFlowInserted,
		CashFlowSkipped:    s.CashFlowSkipped,
		RowsDropped:        s.RowsDropped,
		RowsUnknownCompany: s.RowsUnknownCompany,
		RowsDefaultNature:  s.RowsDefaultNature,
		Errors:             []string{},
	}

	for _, e := range s.Errors {
		resp.Errors = append(resp.Errors, e.String())
	}

	return resp
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	start, err := time.Parse(time.DateOnly, req.Start)
	if err != nil {
		http.Error(w, "invalid start date", http.StatusBadRequest)
		return
	}

	end, err := time.Parse(time.DateOnly, req.End)
	if err != nil {
		http.Error(w, "invalid end date", http.StatusBadRequest)
		return
	}

	companies, err := h.companies.List(r.Context())
	if err != nil {
		slog.Error("failed to list companies", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if len(req.CNPJs) > 0 {
		companies = filterCompanies(companies, req.CNPJs)
	}

	summary := h.runner.Run(r.Context(), companies, ingest.DateRange{Start: start, End: end})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toSummaryResponse(summary))
}

func filterCompanies(companies []*company.Company, cnpjs []string) []*company.Company {
	wanted := make(map[string]bool, len(cnpjs))
	for _, c := range cnpjs {
		wanted[company.NormalizeCNPJ(c)] = true
	}

	var out []*company.Company

	for _, c := range companies {
		if wanted[company.NormalizeCNPJ(c.CNPJ)] {
			out = append(out, c)
		}
	}

	return out
}

type backfillResponse struct {
	LedgerInserted     int      `json:"ledger_inserted"`
	LedgerSkipped      int      `json:"ledger_skipped"`
	CashFlowInserted   int      `json:"cashflow_inserted"`
	CashFlowSkipped    int      `json:"cashflow_skipped"`
	RowsDropped        int      `json:"rows_dropped"`
	RowsUnknownCompany int      `json:"rows_unknown_company"`
	Warnings           []string `json:"warnings"`
}

// backfill ingests a manually exported report file through the same
// normalization and upsert path as the API import.
func (h *Handler) backfill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatF360CSV
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := h.importSvc.Import(format, file)
	if err != nil {
		http.Error(w, "failed to parse file: "+err.Error(), http.StatusBadRequest)
		return
	}

	companies, err := h.companies.List(r.Context())
	if err != nil {
		slog.Error("failed to list companies", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	// Exported files carry a CNPJ per row; there is no current company
	// to fall back to.
	batch := ingest.NormalizeRows(rows, ingest.BuildRegistry(companies), nil)

	ledgerStats, err := h.ledgerSvc.ImportEntries(r.Context(), batch.Entries)
	if err != nil {
		slog.Error("backfill aborted", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	cashStats, err := h.ledgerSvc.ImportCashFlows(r.Context(), batch.CashFlows)
	if err != nil {
		slog.Error("backfill aborted", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := backfillResponse{
		LedgerInserted:     ledgerStats.Inserted,
		LedgerSkipped:      ledgerStats.Skipped,
		CashFlowInserted:   cashStats.Inserted,
		CashFlowSkipped:    cashStats.Skipped,
		RowsDropped:        batch.Dropped,
		RowsUnknownCompany: batch.Unknown,
		Warnings:           []string{},
	}

	for _, werr := range append(ledgerStats.Errors, cashStats.Errors...) {
		resp.Warnings = append(resp.Warnings, werr.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
