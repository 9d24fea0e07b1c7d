package f360csv

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	enc "github.com/bpofin/finsync/internal/encoding"
	"github.com/bpofin/finsync/internal/f360"
)

// Column headers of the F360 managerial report export. The export
// prepends a title block before the header row, so the header is
// located by scanning for the required columns.
const (
	colCompetencia = "Data de Competência"
	colLancamento  = "Data de Lançamento"
	colLiquidacao  = "Data de Liquidação"
	colConta       = "Plano de Contas"
	colTipoConta   = "Tipo de Plano de Contas"
	colValor       = "Valor"
	colCNPJ        = "CNPJ Empresa"
	colHistorico   = "Histórico"
	colTitulo      = "Número do Título"
	colDebito      = "Conta Débito"
	colCredito     = "Conta Crédito"
)

var requiredCols = []string{colCompetencia, colConta, colValor}

// Parser reads F360 CSV report exports and produces the raw-row shape
// the API returns, so backfills share the normalization path.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]f360.RawRow, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx := findHeader(records)
	if cols == nil {
		return nil, fmt.Errorf("no F360 report header found: expected columns %v", requiredCols)
	}

	return mapRows(cols, records[headerIdx+1:]), nil
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

func findHeader(records [][]string) (colIndex, int) {
	for rowIdx, row := range records {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		if hasRequired(cols) {
			return cols, rowIdx
		}
	}

	return nil, 0
}

func hasRequired(cols colIndex) bool {
	for _, name := range requiredCols {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// mapRows converts data rows, skipping footer/total lines. The export's
// Total line carries the period sum in the value cell, so footers are
// recognized by their date columns, not the value. Malformed values
// survive here; the normalizer decides what to drop.
func mapRows(cols colIndex, records [][]string) []f360.RawRow {
	var rows []f360.RawRow

	for _, record := range records {
		valor := cell(record, cols, colValor)
		if valor == "" {
			continue
		}

		// "Total" sits in the competence column on footer lines.
		if !dateLike(cell(record, cols, colCompetencia)) && !dateLike(cell(record, cols, colLancamento)) {
			continue
		}

		valorJSON, _ := json.Marshal(valor)

		rows = append(rows, f360.RawRow{
			DataCompetencia:   cell(record, cols, colCompetencia),
			DataLcto:          cell(record, cols, colLancamento),
			DataLiquidacao:    cell(record, cols, colLiquidacao),
			NomePlanoDeContas: cell(record, cols, colConta),
			TipoPlanoDeContas: cell(record, cols, colTipoConta),
			ValorLcto:         valorJSON,
			CNPJEmpresa:       cell(record, cols, colCNPJ),
			Historico:         cell(record, cols, colHistorico),
			NumeroTitulo:      cell(record, cols, colTitulo),
			ContaDebito:       cell(record, cols, colDebito),
			ContaCredito:      cell(record, cols, colCredito),
		})
	}

	return rows
}

// dateLike is a cheap footer filter: every date the export emits
// contains digits, labels like "Total" contain none.
func dateLike(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

func cell(record []string, cols colIndex, name string) string {
	idx, ok := cols[name]
	if !ok || idx < 0 || idx >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[idx])
}
