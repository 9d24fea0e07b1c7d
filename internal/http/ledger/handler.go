package ledger

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bpofin/finsync/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/summary", h.summary)
}

type entryResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyID   uuid.UUID `json:"company_id"`
	Date        string    `json:"date"`
	Account     string    `json:"account"`
	Nature      string    `json:"nature"`
	AmountCents int64     `json:"amount_cents"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source"`
}

type summaryLineResponse struct {
	Month        string `json:"month"`
	RevenueCents int64  `json:"revenue_cents"`
	ExpenseCents int64  `json:"expense_cents"`
	NetCents     int64  `json:"net_cents"`
}

// parseFilter reads the shared query params: company_id, from, to.
func parseFilter(r *http.Request) (ledger.ListFilter, error) {
	var filter ledger.ListFilter

	if v := r.URL.Query().Get("company_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, err
		}

		filter.CompanyID = &id
	}

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return filter, err
		}

		filter.StartDate = &t
	}

	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return filter, err
		}

		filter.EndDate = &t
	}

	if v := r.URL.Query().Get("nature"); v != "" {
		n := ledger.Nature(v)
		filter.Nature = &n
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, "invalid filter: "+err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := h.svc.List(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list ledger entries", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, entryResponse{
			ID:          e.ID,
			CompanyID:   e.CompanyID,
			Date:        e.Date.Format(time.DateOnly),
			Account:     e.Account,
			Nature:      string(e.Nature),
			AmountCents: e.AmountCents,
			Description: e.Description,
			Source:      e.Source,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, "invalid filter: "+err.Error(), http.StatusBadRequest)
		return
	}

	lines, err := h.svc.DRESummary(r.Context(), filter)
	if err != nil {
		slog.Error("failed to summarize ledger", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := make([]summaryLineResponse, 0, len(lines))
	for _, l := range lines {
		resp = append(resp, summaryLineResponse{
			Month:        l.Month.Format("2006-01"),
			RevenueCents: l.RevenueCents,
			ExpenseCents: l.ExpenseCents,
			NetCents:     l.NetCents,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
