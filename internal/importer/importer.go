// Package importer parses manually exported report files into the same
// raw-row shape the F360 API returns, for backfilling periods the
// scheduled import missed.
package importer

import (
	"io"

	"github.com/bpofin/finsync/internal/f360"
)

type Format string

const (
	FormatF360CSV Format = "f360csv"
)

type Parser interface {
	Parse(r io.Reader) ([]f360.RawRow, error)
}
