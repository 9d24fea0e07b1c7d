// Package f360 is a client for the F360 Finanças public API: login,
// report generation and report download. Report readiness is not exposed
// through a status endpoint; it is inferred from the download response
// (see poller.go).
package f360

import (
	"encoding/json"
	"time"
)

// Report generation parameters fixed by this integration.
const (
	accountingModel = "Competencia"
	reportModel     = "Gerencial"
	outputFormat    = "Json"
)

// ReportRequest describes one report generation call.
// An empty CNPJs list asks for every company visible to the credential.
type ReportRequest struct {
	Start time.Time
	End   time.Time
	CNPJs []string
}

// ReportHandle identifies a generated report for later download.
// The zero value means the ERP had nothing to generate.
type ReportHandle struct {
	ID string
}

func (h ReportHandle) IsZero() bool { return h.ID == "" }

// RawRow is a single report line as returned by the ERP. Every field may
// be absent, empty or malformed; normalization lives in internal/ingest.
type RawRow struct {
	DataLcto          string          `json:"DataLcto"`
	DataCompetencia   string          `json:"DataCompetencia"`
	DataLiquidacao    string          `json:"DataLiquidacao"`
	ContaDebito       string          `json:"ContaDebito"`
	ContaCredito      string          `json:"ContaCredito"`
	NomePlanoDeContas string          `json:"NomePlanoDeContas"`
	IDPlanoDeContas   json.Number     `json:"IdPlanoDeContas"`
	TipoPlanoDeContas string          `json:"TipoPlanoDeContas"`
	ValorLcto         json.RawMessage `json:"ValorLcto"`
	CNPJEmpresa       string          `json:"CNPJEmpresa"`
	Historico         string          `json:"Historico"`
	NumeroTitulo      string          `json:"NumeroTitulo"`
	Tipo              json.RawMessage `json:"Tipo"`
}
