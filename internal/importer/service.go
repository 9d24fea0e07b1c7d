package importer

import (
	"fmt"
	"io"

	"github.com/bpofin/finsync/internal/f360"
	"github.com/bpofin/finsync/internal/importer/f360csv"
)

type Service struct {
	csvParser Parser
}

func NewService() *Service {
	return &Service{
		csvParser: f360csv.NewParser(),
	}
}

func (s *Service) Import(format Format, r io.Reader) ([]f360.RawRow, error) {
	var parser Parser

	switch format {
	case FormatF360CSV:
		parser = s.csvParser
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	return parser.Parse(r)
}
